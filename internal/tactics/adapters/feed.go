// Package adapters implements the external feed-schema conversions of
// spec §6 and narrow contract interfaces for the object-detector/tracker and
// phase-classifier collaborators that live outside this module's scope.
package adapters

import (
	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
)

// SourceAFrame is one row of a source-"A"-style feed (120x80m pitch,
// StatsBomb-like): a single object's position at a frame.
type SourceAFrame struct {
	FrameID    int64
	ObjectID   string
	X, Y       float64
	Team       string
	ObjectKind trajectory.ObjectKind
	Timestamp  float64
}

// SourceBFrame is one row of a source-"B"-style feed (normalized 0-1
// coordinates, Metrica-like).
type SourceBFrame struct {
	FrameID    int64
	ObjectID   string
	X, Y       float64
	Team       string
	ObjectKind trajectory.ObjectKind
	Timestamp  float64
}

// FromSourceA converts a source-A frame into a canonical trajectory point.
func FromSourceA(f SourceAFrame) trajectory.Point {
	p := geometry.ConvertSourceA(f.X, f.Y)
	return trajectory.Point{
		FrameID:    f.FrameID,
		TrackID:    f.ObjectID,
		X:          p.X,
		Y:          p.Y,
		ObjectKind: f.ObjectKind,
		Team:       f.Team,
		Timestamp:  f.Timestamp,
	}
}

// FromSourceB converts a source-B frame into a canonical trajectory point.
func FromSourceB(f SourceBFrame) trajectory.Point {
	p := geometry.ConvertSourceB(f.X, f.Y)
	return trajectory.Point{
		FrameID:    f.FrameID,
		TrackID:    f.ObjectID,
		X:          p.X,
		Y:          p.Y,
		ObjectKind: f.ObjectKind,
		Team:       f.Team,
		Timestamp:  f.Timestamp,
	}
}

// BuildFragments groups a flat slice of canonical points by track ID into
// trajectory.Fragment values, preserving frame order within each group, for
// handoff to trajectory.Stabilize.
func BuildFragments(points []trajectory.Point) []trajectory.Fragment {
	order := make([]string, 0)
	byTrack := make(map[string][]trajectory.Point)
	for _, p := range points {
		if _, ok := byTrack[p.TrackID]; !ok {
			order = append(order, p.TrackID)
		}
		byTrack[p.TrackID] = append(byTrack[p.TrackID], p)
	}

	fragments := make([]trajectory.Fragment, 0, len(order))
	for _, trackID := range order {
		fragments = append(fragments, trajectory.Fragment{RawTrackID: trackID, Points: byTrack[trackID]})
	}
	return fragments
}

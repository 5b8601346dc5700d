package adapters

import (
	"math"
	"testing"

	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
)

func TestFromSourceAConvertsToPitchCoordinates(t *testing.T) {
	p := FromSourceA(SourceAFrame{FrameID: 1, ObjectID: "p1", X: 60, Y: 40, Team: "home", ObjectKind: trajectory.Player})
	if p.FrameID != 1 || p.TrackID != "p1" {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.X <= 0 || p.Y <= 0 {
		t.Errorf("expected positive pitch coordinates, got (%v, %v)", p.X, p.Y)
	}
}

func TestFromSourceBNormalizesCoordinates(t *testing.T) {
	p := FromSourceB(SourceBFrame{FrameID: 2, ObjectID: "p2", X: 0.5, Y: 0.5, ObjectKind: trajectory.Ball})
	if math.Abs(p.X-52.5) > 1.0 {
		t.Errorf("expected x near pitch center, got %v", p.X)
	}
}

func TestBuildFragmentsGroupsByTrack(t *testing.T) {
	points := []trajectory.Point{
		{FrameID: 1, TrackID: "a"},
		{FrameID: 2, TrackID: "b"},
		{FrameID: 3, TrackID: "a"},
	}
	fragments := BuildFragments(points)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	for _, f := range fragments {
		if f.RawTrackID == "a" && len(f.Points) != 2 {
			t.Errorf("expected track a to have 2 points, got %d", len(f.Points))
		}
	}
}

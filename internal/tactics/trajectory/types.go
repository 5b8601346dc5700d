// Package trajectory stabilizes raw tracker output into clean, smoothed
// per-object trajectories (spec §4.1) and models the per-player trajectory
// entity used by the physical metrics engine.
package trajectory

import (
	"time"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
)

// ObjectKind is the closed set of trajectory point subjects.
type ObjectKind string

const (
	Player     ObjectKind = "player"
	Ball       ObjectKind = "ball"
	Referee    ObjectKind = "referee"
	Goalkeeper ObjectKind = "goalkeeper"
)

// Point is one immutable sample of a track at a given frame. Immutable
// after stabilization output, per spec §3.
type Point struct {
	FrameID     int64
	TrackID     string
	X, Y        float64
	ObjectKind  ObjectKind
	Team        string // optional; empty means unset
	Confidence  float64
	HasConfidence bool
	Timestamp   float64 // seconds
}

// PlayerTrajectory is an ordered-by-frame sequence of positions for one
// track id, carrying derived caches (smoothed velocity, physical metrics).
// Invariant: Frames strictly ordered by FrameID, duplicates disallowed —
// enforced by the stabilizer and by Append.
type PlayerTrajectory struct {
	TrackID         string
	FPS             float64
	SprintThreshold float64 // km/h, default 25.0

	frames []Point

	// Derived caches, explicitly invalidated (never silently stale). See
	// InvalidateCaches — modeled as explicit memoized values owned by the
	// entity, per the "lazy-cached entity attributes" design note.
	velocityCache      []float64 // m/s, same length as frames, cache[i] for frames[i]
	velocityCacheValid bool
}

// NewPlayerTrajectory constructs an empty trajectory for one track.
func NewPlayerTrajectory(trackID string, fps, sprintThresholdKmh float64) *PlayerTrajectory {
	if sprintThresholdKmh <= 0 {
		sprintThresholdKmh = 25.0
	}
	return &PlayerTrajectory{TrackID: trackID, FPS: fps, SprintThreshold: sprintThresholdKmh}
}

// Append adds a point to the end of the trajectory. Returns false (and does
// not append) if the frame id would violate strict ordering or duplicate an
// existing frame.
func (pt *PlayerTrajectory) Append(p Point) bool {
	if len(pt.frames) > 0 && p.FrameID <= pt.frames[len(pt.frames)-1].FrameID {
		return false
	}
	pt.frames = append(pt.frames, p)
	pt.InvalidateCaches()
	return true
}

// Frames returns the ordered frame positions. The returned slice must not
// be mutated by callers; use Append/SetSmoothed instead.
func (pt *PlayerTrajectory) Frames() []Point { return pt.frames }

// Len returns the number of frames in the trajectory.
func (pt *PlayerTrajectory) Len() int { return len(pt.frames) }

// SetSmoothed replaces the x/y of frame i in place (used by the smoothing
// stage) and invalidates derived caches.
func (pt *PlayerTrajectory) SetSmoothed(i int, x, y float64) {
	pt.frames[i].X = x
	pt.frames[i].Y = y
	pt.InvalidateCaches()
}

// InvalidateCaches drops all memoized derived values. Called explicitly on
// any configuration or data change, per the "lazy-cached entity attributes"
// design note — there is no implicit recomputation.
func (pt *PlayerTrajectory) InvalidateCaches() {
	pt.velocityCache = nil
	pt.velocityCacheValid = false
}

// CachedVelocities returns the memoized per-frame velocity magnitudes
// (m/s), computing them via compute if not already cached.
func (pt *PlayerTrajectory) CachedVelocities(compute func(*PlayerTrajectory) []float64) []float64 {
	if pt.velocityCacheValid {
		return pt.velocityCache
	}
	pt.velocityCache = compute(pt)
	pt.velocityCacheValid = true
	return pt.velocityCache
}

// PlayerPosition is one player's position (and optional velocity) within a
// MatchFrame snapshot.
type PlayerPosition struct {
	PlayerID string
	Team     string
	X, Y     float64
	VX, VY   float64
	HasVel   bool
}

// MatchFrame is a snapshot at one frame: player positions, ball position,
// pitch dimensions, and grid resolution.
type MatchFrame struct {
	FrameID        int64
	Timestamp      time.Time
	Players        []PlayerPosition
	BallX, BallY   float64
	Pitch          geometry.Pitch
	GridWidth      int
	GridHeight     int

	// OutOfBoundsTolerance is how far (meters) beyond the pitch rectangle a
	// position may lie before the stabilizer flags it, per spec §3.
	OutOfBoundsTolerance float64
}

// HomeAway returns the players partitioned by team id.
func (f MatchFrame) HomeAway(homeTeam string) (home, away []PlayerPosition) {
	for _, p := range f.Players {
		if p.Team == homeTeam {
			home = append(home, p)
		} else {
			away = append(away, p)
		}
	}
	return home, away
}

// InBounds reports whether (x, y) lies within the pitch rectangle expanded
// by OutOfBoundsTolerance on every side.
func (f MatchFrame) InBounds(x, y float64) bool {
	tol := f.OutOfBoundsTolerance
	return x >= -tol && x <= f.Pitch.Length+tol && y >= -tol && y <= f.Pitch.Width+tol
}

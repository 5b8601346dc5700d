package trajectory

import (
	"sort"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
)

// StabilizerConfig controls the track cleaning, merging, and smoothing
// stage, grounded on track_cleaner.py's tunables and the teacher's
// XxxConfig + Validate() builder idiom (config.go).
type StabilizerConfig struct {
	// MinTrackDurationFrames drops any track shorter than this after
	// fragment merging (ghost-track removal).
	MinTrackDurationFrames int

	// MaxMergeGapFrames is the largest frame gap across which two
	// fragments of the same object may still be merged.
	MaxMergeGapFrames int64

	// MaxMergeGapMeters is the largest extrapolated position gap across
	// which two fragments may still be merged.
	MaxMergeGapMeters float64

	// MaxPlausibleSpeedMps is the speed above which a frame-to-frame jump
	// is treated as a sensor glitch and clipped rather than trusted.
	MaxPlausibleSpeedMps float64
}

// DefaultStabilizerConfig returns the spec-mandated defaults.
func DefaultStabilizerConfig() StabilizerConfig {
	return StabilizerConfig{
		MinTrackDurationFrames: 15,
		MaxMergeGapFrames:      10,
		MaxMergeGapMeters:      2.0,
		MaxPlausibleSpeedMps:   10.0,
	}
}

// Validate checks the configuration is internally consistent.
func (c StabilizerConfig) Validate() error {
	if c.MinTrackDurationFrames < 0 {
		return newGeomErrTrajectory("min track duration frames must be >= 0")
	}
	if c.MaxMergeGapFrames < 0 {
		return newGeomErrTrajectory("max merge gap frames must be >= 0")
	}
	if c.MaxMergeGapMeters < 0 {
		return newGeomErrTrajectory("max merge gap meters must be >= 0")
	}
	if c.MaxPlausibleSpeedMps <= 0 {
		return newGeomErrTrajectory("max plausible speed must be > 0")
	}
	return nil
}

type trajErr string

func (e trajErr) Error() string { return string(e) }

func newGeomErrTrajectory(msg string) error { return trajErr(msg) }

// Fragment is a contiguous run of points sharing a raw track id, prior to
// cross-fragment merging.
type Fragment struct {
	RawTrackID string
	Points     []Point
}

// Stabilize runs the full spec §4.1 pipeline over a set of raw fragments
// believed to belong to a single object (same detected identity, possibly
// split by occlusion): merges fragments within the configured gap using
// optimal assignment, drops the result if it is still too short
// (ghost-track removal), clips/flags implausible speed jumps, and applies
// Savitzky-Golay smoothing. Returns nil if the merged track does not meet
// MinTrackDurationFrames.
func Stabilize(fragments []Fragment, cfg StabilizerConfig) *PlayerTrajectory {
	merged := MergeFragments(fragments, cfg)
	if merged == nil {
		return nil
	}
	if merged.Len() < cfg.MinTrackDurationFrames {
		return nil
	}
	ClipOutlierSpeeds(merged, cfg.MaxPlausibleSpeedMps)
	SmoothTrajectory(merged)
	return merged
}

// MergeFragments merges a set of same-identity fragments into a single
// ordered PlayerTrajectory using optimal (Hungarian) assignment between
// fragment ends and fragment starts, rather than a greedy nearest-gap
// merge: every fragment end is matched against every later-starting
// fragment's start under the configured gap bounds, and the lowest-total-
// cost perfect matching (subject to those bounds) determines merge order.
// A candidate pair is only eligible when both fragments carry the same
// ObjectKind at the join (spec §4.1 step 2's merge precondition); a kind
// mismatch is gated here rather than left to the caller.
func MergeFragments(fragments []Fragment, cfg StabilizerConfig) *PlayerTrajectory {
	live := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if len(f.Points) > 0 {
			live = append(live, f)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].Points[0].FrameID < live[j].Points[0].FrameID
	})
	if len(live) == 1 {
		return trajectoryFromPoints(live[0].Points, cfg)
	}

	n := len(live)
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		end := live[i].Points[len(live[i].Points)-1]
		for j := range cost[i] {
			if j == i {
				cost[i][j] = hungarianInf
				continue
			}
			start := live[j].Points[0]
			if end.ObjectKind != start.ObjectKind {
				cost[i][j] = hungarianInf
				continue
			}
			cost[i][j] = FragmentGapCost(
				end.FrameID, start.FrameID,
				end.X, end.Y, start.X, start.Y,
				cfg.MaxMergeGapFrames, cfg.MaxMergeGapMeters,
			)
		}
	}
	successor := OptimalAssign(cost)

	// Walk the chain starting from the fragment with no predecessor
	// (chronologically first with nothing merged onto its front).
	hasPredecessor := make([]bool, n)
	for _, j := range successor {
		if j >= 0 {
			hasPredecessor[j] = true
		}
	}
	start := 0
	for i, has := range hasPredecessor {
		if !has {
			start = i
			break
		}
	}

	visited := make([]bool, n)
	var all []Point
	cur := start
	for !visited[cur] {
		visited[cur] = true
		all = append(all, live[cur].Points...)
		next := successor[cur]
		if next < 0 || visited[next] {
			break
		}
		cur = next
	}
	// Append any fragment never reached by the chain walk (disjoint runs
	// beyond the gating window), preserving chronological order.
	for i, v := range visited {
		if !v {
			all = append(all, live[i].Points...)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FrameID < all[j].FrameID })

	return trajectoryFromPoints(all, cfg)
}

func trajectoryFromPoints(points []Point, cfg StabilizerConfig) *PlayerTrajectory {
	if len(points) == 0 {
		return nil
	}
	pt := NewPlayerTrajectory(points[0].TrackID, 0, 0)
	for _, p := range points {
		pt.Append(p)
	}
	return pt
}

// ClipOutlierSpeeds walks the trajectory and, for any frame-to-frame jump
// implying a speed above maxSpeedMps, clips the later point back to the
// maximum plausible displacement from the prior point rather than
// dropping the frame, per spec §4.1's "clip/flag speed outliers".
func ClipOutlierSpeeds(pt *PlayerTrajectory, maxSpeedMps float64) {
	frames := pt.Frames()
	for i := 1; i < len(frames); i++ {
		prev := frames[i-1]
		cur := frames[i]
		dt := cur.Timestamp - prev.Timestamp
		if dt <= 0 {
			continue
		}
		d := geometry.Distance(geometry.Point{X: prev.X, Y: prev.Y}, geometry.Point{X: cur.X, Y: cur.Y})
		speed := d / dt
		if speed <= maxSpeedMps {
			continue
		}
		scale := maxSpeedMps * dt / d
		clippedX := prev.X + (cur.X-prev.X)*scale
		clippedY := prev.Y + (cur.Y-prev.Y)*scale
		pt.SetSmoothed(i, clippedX, clippedY)
	}
}

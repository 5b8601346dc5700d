package testsupport

import (
	"fmt"
	"math"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
	"github.com/matchforge/tactics-engine/internal/tactics/jobs"
	"github.com/matchforge/tactics-engine/internal/tactics/physical"
	"github.com/matchforge/tactics-engine/internal/tactics/pitchcontrol"
)

// Each function below is a named, reusable assertion over a computed value,
// returning a non-nil error describing the violation when the property
// does not hold. Grouping these here keeps the quantified invariants named
// across spec §8 in one place rather than scattered across each package's
// own tests.

// SpeedWithinClipBound checks that no per-frame speed in a Summary exceeds
// maxSpeedMps, the outlier-clipping ceiling.
func SpeedWithinClipBound(summary physical.Summary, maxSpeedMps float64) error {
	for _, fm := range summary.PerFrame {
		if fm.SpeedMps > maxSpeedMps+1e-9 {
			return fmt.Errorf("frame %d: speed %.3f exceeds clip bound %.3f", fm.FrameID, fm.SpeedMps, maxSpeedMps)
		}
	}
	return nil
}

// PhaseDurationsSumToTotal checks that a Sequence's per-phase percentages
// sum to 100 (within tolerance), i.e. every classified frame is accounted
// for in exactly one phase bucket.
func PhaseDurationsSumToTotal(percentages map[string]float64, tolerance float64) error {
	var total float64
	for _, p := range percentages {
		total += p
	}
	if math.Abs(total-100.0) > tolerance {
		return fmt.Errorf("phase percentages sum to %.3f, want ~100 (tolerance %.3f)", total, tolerance)
	}
	return nil
}

// PitchControlNormalized checks that every cell's home+away control sums to
// 1 (within tolerance).
func PitchControlNormalized(g pitchcontrol.Grid, tolerance float64) error {
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			home, away := g.At(col, row)
			if math.Abs(home+away-1.0) > tolerance {
				return fmt.Errorf("cell (%d,%d): home+away = %.6f, want ~1", col, row, home+away)
			}
		}
	}
	return nil
}

// RunningStatMatchesMean checks that a RunningStat fed the given samples
// agrees with their arithmetic mean within tolerance.
func RunningStatMatchesMean(samples []float64, tolerance float64) error {
	var r physical.RunningStat
	var sum float64
	for _, s := range samples {
		r.Update(s)
		sum += s
	}
	if len(samples) == 0 {
		return nil
	}
	want := sum / float64(len(samples))
	if math.Abs(r.Mean()-want) > tolerance {
		return fmt.Errorf("running mean %.6f, want %.6f", r.Mean(), want)
	}
	if r.Count() != int64(len(samples)) {
		return fmt.Errorf("running count %d, want %d", r.Count(), len(samples))
	}
	return nil
}

// SourceARoundTrips checks that converting to canonical and back via
// source A's inverse reproduces the original point within tolerance.
func SourceARoundTrips(x, y, tolerance float64) error {
	p := geometry.ConvertSourceA(x, y)
	gotX, gotY := geometry.InverseSourceA(p)
	if math.Abs(gotX-x) > tolerance || math.Abs(gotY-y) > tolerance {
		return fmt.Errorf("round trip (%.6f,%.6f) -> (%.6f,%.6f), want within %.6f", x, y, gotX, gotY, tolerance)
	}
	return nil
}

// XTMonotonic checks that a forward pass up the pitch yields a positive xT
// change and its exact reverse yields a negative one.
func XTMonotonic(forwardChange, reverseChange float64) error {
	if forwardChange <= 0 {
		return fmt.Errorf("forward xT change %.6f, want > 0", forwardChange)
	}
	if reverseChange >= 0 {
		return fmt.Errorf("reverse xT change %.6f, want < 0", reverseChange)
	}
	return nil
}

// JobTerminalTransitionReturnsError checks that calling transition on a
// job already in a terminal state (Completed, or Failed with no retries
// left) returns an error rather than silently succeeding.
func JobTerminalTransitionReturnsError(j *jobs.Job, transition func(*jobs.Job) error) error {
	if !j.IsTerminal() {
		return fmt.Errorf("job %s is not terminal, property does not apply", j.JobID)
	}
	if j.Status == jobs.Failed && j.CanRetry() {
		return fmt.Errorf("job %s is Failed but CanRetry, property does not apply", j.JobID)
	}
	if err := transition(j); err == nil {
		return fmt.Errorf("job %s: expected error transitioning out of terminal state %s, got nil", j.JobID, j.Status)
	}
	return nil
}

// Package physical derives physical performance metrics (velocity,
// distance covered, sprint detection, speed percentiles) from stabilized
// player trajectories, per spec §4.2.
package physical

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
)

// FrameMetric is the per-frame physical reading for one trajectory sample:
// instantaneous speed (m/s) and whether that frame is part of a sprint.
type FrameMetric struct {
	FrameID   int64
	SpeedMps  float64
	IsSprint  bool
}

// Sprint is one maximal contiguous run of frames with smoothed speed above
// the sprint threshold, per spec §4.2.
type Sprint struct {
	StartFrame  int64
	EndFrame    int64
	MaxSpeedKmh float64
	DistanceM   float64
}

// Summary aggregates a trajectory's full physical profile.
type Summary struct {
	TrackID          string
	TotalDistanceM   float64
	MaxSpeedMps      float64
	MeanSpeedMps     float64
	P50SpeedMps      float64
	P85SpeedMps      float64
	P98SpeedMps      float64
	SprintCount      int
	SprintDistanceM  float64
	Sprints          []Sprint
	PerFrame         []FrameMetric
}

// KmhToMps converts km/h to m/s.
func KmhToMps(kmh float64) float64 { return kmh / 3.6 }

// Compute derives a full physical Summary from a stabilized trajectory.
// sprintThresholdKmh defaults to pt.SprintThreshold when positive,
// otherwise 25.0 km/h per spec §4.2.
func Compute(pt *trajectory.PlayerTrajectory) Summary {
	sprintThreshold := pt.SprintThreshold
	if sprintThreshold <= 0 {
		sprintThreshold = 25.0
	}
	sprintMps := KmhToMps(sprintThreshold)

	frames := pt.Frames()
	summary := Summary{TrackID: pt.TrackID}
	if len(frames) == 0 {
		return summary
	}

	speeds := make([]float64, 0, len(frames))
	perFrame := make([]FrameMetric, 0, len(frames))

	perFrame = append(perFrame, FrameMetric{FrameID: frames[0].FrameID})

	var current *Sprint
	closeSprint := func() {
		if current != nil {
			summary.Sprints = append(summary.Sprints, *current)
			current = nil
		}
	}

	for i := 1; i < len(frames); i++ {
		prev := frames[i-1]
		cur := frames[i]
		dt := cur.Timestamp - prev.Timestamp
		d := geometry.Distance(geometry.Point{X: prev.X, Y: prev.Y}, geometry.Point{X: cur.X, Y: cur.Y})
		summary.TotalDistanceM += d

		var speed float64
		if dt > 0 {
			speed = d / dt
		}
		isSprint := speed > sprintMps
		if isSprint {
			summary.SprintDistanceM += d
			speedKmh := speed * 3.6
			if current == nil {
				current = &Sprint{StartFrame: prev.FrameID, EndFrame: cur.FrameID, MaxSpeedKmh: speedKmh, DistanceM: d}
			} else {
				current.EndFrame = cur.FrameID
				current.DistanceM += d
				if speedKmh > current.MaxSpeedKmh {
					current.MaxSpeedKmh = speedKmh
				}
			}
		} else {
			closeSprint()
		}

		speeds = append(speeds, speed)
		perFrame = append(perFrame, FrameMetric{FrameID: cur.FrameID, SpeedMps: speed, IsSprint: isSprint})

		if speed > summary.MaxSpeedMps {
			summary.MaxSpeedMps = speed
		}
	}
	closeSprint()
	summary.SprintCount = len(summary.Sprints)

	summary.PerFrame = perFrame

	if len(speeds) > 0 {
		summary.MeanSpeedMps = stat.Mean(speeds, nil)

		sorted := make([]float64, len(speeds))
		copy(sorted, speeds)
		sort.Float64s(sorted)

		summary.P50SpeedMps = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		summary.P85SpeedMps = stat.Quantile(0.85, stat.Empirical, sorted, nil)
		summary.P98SpeedMps = stat.Quantile(0.98, stat.Empirical, sorted, nil)
	}

	return summary
}

// RunningStat is an incremental mean accumulator, used where a full sample
// cannot be retained in memory (e.g. live per-frame aggregation), per the
// "mutable running averages" design note: callers hold one RunningStat
// value and call Update per sample rather than recomputing an average from
// an ever-growing slice.
type RunningStat struct {
	count int64
	mean  float64
}

// Update folds x into the running mean and returns the updated value.
func (r *RunningStat) Update(x float64) RunningStat {
	r.count++
	r.mean += (x - r.mean) / float64(r.count)
	return *r
}

// Count returns the number of samples folded in so far.
func (r RunningStat) Count() int64 { return r.count }

// Mean returns the current running mean (zero if no samples yet).
func (r RunningStat) Mean() float64 { return r.mean }

// Package testsupport provides deterministic synthetic fixtures and
// property-check helpers for the end-to-end scenarios named in spec §8,
// grounded on the teacher's ground-truth-evaluation/golden-replay fixture
// idiom (fixed synthetic inputs, quantified expected outputs, no randomness).
package testsupport

import (
	"github.com/matchforge/tactics-engine/internal/tactics/inference"
	"github.com/matchforge/tactics-engine/internal/tactics/phase"
	"github.com/matchforge/tactics-engine/internal/tactics/tacticalevents"
	"github.com/matchforge/tactics-engine/internal/tactics/trajectory"
)

// ConstantVelocityTrajectory builds scenario 1: a single player, 100 frames
// at 25 fps, moving +1.0 m/s along +x starting at (10, 34).
func ConstantVelocityTrajectory() *trajectory.PlayerTrajectory {
	return velocityTrajectory(100, 25.0, 1.0, 10.0, 34.0)
}

// SprintTrajectory builds scenario 2: the same shape as
// ConstantVelocityTrajectory but moving +8 m/s for frames 25..50 and +5 m/s
// elsewhere.
func SprintTrajectory() *trajectory.PlayerTrajectory {
	fps := 25.0
	pt := trajectory.NewPlayerTrajectory("p1", fps, 25.0)
	x, y := 10.0, 34.0
	for frame := int64(0); frame < 100; frame++ {
		speed := 5.0
		if frame >= 25 && frame <= 50 {
			speed = 8.0
		}
		pt.Append(trajectory.Point{
			FrameID:   frame,
			TrackID:   "p1",
			X:         x,
			Y:         y,
			Timestamp: float64(frame) / fps,
		})
		x += speed / fps
	}
	return pt
}

func velocityTrajectory(frames int, fps, speedMps, startX, startY float64) *trajectory.PlayerTrajectory {
	pt := trajectory.NewPlayerTrajectory("p1", fps, 25.0)
	x, y := startX, startY
	for frame := 0; frame < frames; frame++ {
		pt.Append(trajectory.Point{
			FrameID:   int64(frame),
			TrackID:   "p1",
			X:         x,
			Y:         y,
			Timestamp: float64(frame) / fps,
		})
		x += speedMps / fps
	}
	return pt
}

// PPDAScenario builds scenario 3's fixed event list: three home passes in
// the attacking two-thirds, one away tackle.
func PPDAScenario() []tacticalevents.MatchEvent {
	return []tacticalevents.MatchEvent{
		{EventID: "e1", Type: "pass", TeamID: "home", X: 60},
		{EventID: "e2", Type: "pass", TeamID: "home", X: 65},
		{EventID: "e3", Type: "pass", TeamID: "home", X: 70},
		{EventID: "e4", Type: "tackle", TeamID: "away", X: 72},
	}
}

// PhasePercentageScenario builds scenario 5: a 250-frame sequence (100
// organized_attack, 50 transition_attack_to_defense, 100
// organized_defense) at 25 fps. The transition span is injected directly
// via AddRawFramePhase since a single-frame Classifier only ever detects
// the boundary frame, not a sustained transition window; the ground truth
// here is the phase label itself, not a feature vector to classify.
func PhasePercentageScenario() *phase.Sequence {
	seq := phase.NewSequence("m1", "home", 25)

	var frame int64
	for i := 0; i < 100; i++ {
		seq.AddRawFramePhase(frame, phase.OrganizedAttack, 1.0)
		frame++
	}
	for i := 0; i < 50; i++ {
		seq.AddRawFramePhase(frame, phase.TransitionAtkDef, 1.0)
		frame++
	}
	for i := 0; i < 100; i++ {
		seq.AddRawFramePhase(frame, phase.OrganizedDefense, 1.0)
		frame++
	}
	return seq
}

// PossessionFlowScenario builds scenario 4: the ball and player A (team
// home, id "1") sit at (50, 34)/(49, 34) for frames 0..100, then from frame
// 101 player B (team home, id "2") appears and the ball follows. When
// displaced is true B (and the ball) are 3m away from A's start, so the
// hand-off satisfies pass_min_distance; when false B takes A's exact spot,
// so displacement is 0 and no pass event should be emitted.
func PossessionFlowScenario(displaced bool) []inference.TrackPoint {
	var points []inference.TrackPoint
	for frame := int64(0); frame <= 100; frame++ {
		points = append(points,
			inference.TrackPoint{FrameID: frame, ObjectID: "ball", ObjectType: "ball", X: 50, Y: 34},
			inference.TrackPoint{FrameID: frame, ObjectID: "1", ObjectType: "home", X: 49, Y: 34},
		)
	}

	bx, by := 49.0, 34.0
	if displaced {
		bx, by = 52.0, 34.0 // 3m from A's start (49, 34)
	}
	for frame := int64(101); frame <= 110; frame++ {
		points = append(points,
			inference.TrackPoint{FrameID: frame, ObjectID: "ball", ObjectType: "ball", X: bx, Y: by},
			inference.TrackPoint{FrameID: frame, ObjectID: "2", ObjectType: "home", X: bx, Y: by},
		)
	}
	return points
}

// XTRoundTripScenario returns the forward and reverse ball actions for
// scenario 6: a pass from (30, 34) to (90, 34), and its reverse.
func XTRoundTripScenario() (forward, reverse tacticalevents.BallAction) {
	forward = tacticalevents.BallAction{TeamID: "home", FromX: 30, FromY: 34, ToX: 90, ToY: 34}
	reverse = tacticalevents.BallAction{TeamID: "home", FromX: 90, FromY: 34, ToX: 30, ToY: 34}
	return forward, reverse
}

package inference

import (
	"math"
	"sort"
)

// Config controls the event detector's proximity and distance thresholds,
// following the teacher's XxxConfig + DefaultXxxConfig() + Validate()
// builder idiom. PossessionMinFrames and PressureMinVelocity are carried on
// the struct but are not read by Detect.
type Config struct {
	BallProximityThreshold float64 // meters to be "on ball"
	PossessionMinFrames    int
	PressureDistance       float64 // meters
	PressureMinVelocity    float64 // m/s
	PassMinDistance        float64 // meters, min distance for pass vs dribble
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		BallProximityThreshold: 1.5,
		PossessionMinFrames:    3,
		PressureDistance:       2.0,
		PressureMinVelocity:    3.0,
		PassMinDistance:        3.0,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.BallProximityThreshold <= 0 || c.PressureDistance <= 0 || c.PassMinDistance <= 0 {
		return newInferErr("proximity/distance thresholds must be > 0")
	}
	if c.PossessionMinFrames < 0 {
		return newInferErr("possession min frames must be >= 0")
	}
	return nil
}

type inferErr string

func (e inferErr) Error() string { return string(e) }

func newInferErr(msg string) error { return inferErr(msg) }

// possessionState tracks the current ball carrier across frames. The
// player/team id fields are pointers-by-zero-value conventions (empty
// string means "none"), matching the detector's reliance on a well-defined
// "no possession yet" starting state (follows None -> Possession(P) -> Pass
// -> Possession(Q)).
type possessionState struct {
	playerID   string
	teamID     string
	startFrame int64
	x, y       float64
	active     bool
}

// Detector infers events from tracking data using proximity/distance
// heuristics: follows the state machine None -> Possession(P) -> Pass ->
// Possession(Q).
type Detector struct {
	cfg Config
}

// NewDetector constructs a Detector with the given configuration.
func NewDetector(cfg Config) Detector {
	return Detector{cfg: cfg}
}

// Detect infers events from a stream of tracking points. If resolver is
// non-nil, each event's ActorNames is populated via resolver.PlayerName;
// pass inference.NoOpResolver{} to skip name resolution.
func (d Detector) Detect(points []TrackPoint, matchID string, resolver NameResolver) []Event {
	if len(points) == 0 {
		return nil
	}

	frames := groupByFrame(points)
	frameIDs := make([]int64, 0, len(frames))
	for id := range frames {
		frameIDs = append(frameIDs, id)
	}
	sort.Slice(frameIDs, func(i, j int) bool { return frameIDs[i] < frameIDs[j] })

	var events []Event
	var possession possessionState

	for _, frameID := range frameIDs {
		frameData := frames[frameID]

		ball, ok := findBall(frameData)
		if !ok {
			continue
		}

		closestID, distance, closestPoint, ok := findClosestPlayer(frameData, ball)
		if !ok {
			continue
		}

		if distance <= d.cfg.BallProximityThreshold {
			switch {
			case !possession.active:
				possession = possessionState{
					playerID: closestID, teamID: closestPoint.ObjectType,
					startFrame: frameID, x: closestPoint.X, y: closestPoint.Y, active: true,
				}
			case possession.playerID != closestID:
				events = append(events, d.transitionEvent(possession, closestID, closestPoint, frameID)...)
				possession = possessionState{
					playerID: closestID, teamID: closestPoint.ObjectType,
					startFrame: frameID, x: closestPoint.X, y: closestPoint.Y, active: true,
				}
			}
		}

		if possession.active {
			events = append(events, d.detectPressure(frameData, possession, frameID)...)
		}
	}

	if resolver != nil {
		if _, isNoOp := resolver.(NoOpResolver); !isNoOp {
			for i := range events {
				events[i].ActorNames = resolveNames(resolver, matchID, events[i].Actors)
			}
		}
	}

	return events
}

func (d Detector) transitionEvent(possession possessionState, newPlayerID string, newPoint TrackPoint, frameID int64) []Event {
	teamID := possession.teamID
	if teamID == "" {
		teamID = "unknown"
	}

	if possession.teamID == newPoint.ObjectType {
		dist := math.Hypot(newPoint.X-possession.x, newPoint.Y-possession.y)
		if dist < d.cfg.PassMinDistance {
			return nil
		}
		return []Event{{
			FrameStart: possession.startFrame,
			FrameEnd:   frameID,
			Type:       PassComplete,
			Actors:     []string{possession.playerID, newPlayerID},
			TeamID:     teamID,
			X:          possession.x,
			Y:          possession.y,
			Confidence: 1.0,
		}}
	}

	return []Event{{
		FrameStart: possession.startFrame,
		FrameEnd:   frameID,
		Type:       LossOfPossession,
		Actors:     []string{possession.playerID, newPlayerID},
		TeamID:     teamID,
		X:          possession.x,
		Y:          possession.y,
		Confidence: 1.0,
	}}
}

func (d Detector) detectPressure(frameData []TrackPoint, possession possessionState, frameID int64) []Event {
	var events []Event
	for _, p := range frameData {
		if p.ObjectType == "ball" || p.ObjectID == possession.playerID {
			continue
		}
		if p.ObjectType == possession.teamID {
			continue
		}
		dist := math.Hypot(p.X-possession.x, p.Y-possession.y)
		if dist <= d.cfg.PressureDistance {
			events = append(events, Event{
				FrameStart: frameID,
				FrameEnd:   frameID,
				Type:       Pressure,
				Actors:     []string{p.ObjectID, possession.playerID},
				TeamID:     p.ObjectType,
				X:          p.X,
				Y:          p.Y,
				Confidence: 0.8,
			})
		}
	}
	return events
}

func groupByFrame(points []TrackPoint) map[int64][]TrackPoint {
	frames := make(map[int64][]TrackPoint)
	for _, p := range points {
		frames[p.FrameID] = append(frames[p.FrameID], p)
	}
	return frames
}

func findBall(frameData []TrackPoint) (TrackPoint, bool) {
	for _, p := range frameData {
		if p.ObjectType == "ball" {
			return p, true
		}
	}
	return TrackPoint{}, false
}

func findClosestPlayer(frameData []TrackPoint, ball TrackPoint) (id string, distance float64, point TrackPoint, ok bool) {
	minDist := math.Inf(1)
	for _, p := range frameData {
		if p.ObjectType == "ball" {
			continue
		}
		d := math.Hypot(p.X-ball.X, p.Y-ball.Y)
		if d < minDist {
			minDist = d
			id = p.ObjectID
			point = p
			ok = true
		}
	}
	return id, minDist, point, ok
}

func resolveNames(resolver NameResolver, matchID string, actors []string) []string {
	names := make([]string, len(actors))
	for i, actorID := range actors {
		if name, ok := resolver.PlayerName(matchID, actorID); ok {
			names[i] = name
		} else {
			names[i] = "Player " + actorID
		}
	}
	return names
}

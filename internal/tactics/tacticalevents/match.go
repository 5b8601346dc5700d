// Package tacticalevents calculates match-level tactical metrics (PPDA,
// pressing intensity, Expected Threat) from an event stream, per spec §4.4.
package tacticalevents

import "github.com/matchforge/tactics-engine/internal/tactics/geometry"

// EventType is the closed set of match event kinds this service reasons
// about.
type EventType string

const (
	EventPass             EventType = "pass"
	EventDefensiveAction  EventType = "defensive_action"
	EventPressure         EventType = "pressure"
	EventTackle           EventType = "tackle"
	EventInterception     EventType = "interception"
)

// MatchEvent is a single timestamped, located, team/player-attributed event.
type MatchEvent struct {
	EventID   string
	Type      EventType
	TeamID    string
	PlayerID  string
	Timestamp float64
	X, Y      float64
}

var defensiveEventTypes = map[EventType]bool{
	EventDefensiveAction: true,
	EventTackle:          true,
	EventInterception:    true,
	EventPressure:        true,
}

var pressureEventTypes = map[EventType]bool{
	EventPressure:        true,
	EventDefensiveAction: true,
	EventTackle:          true,
}

// Service computes tactical metrics over a pitch of the given length.
type Service struct {
	PitchLength float64
}

// NewService constructs a Service for a standard 105m-length pitch.
func NewService() Service {
	return Service{PitchLength: geometry.StandardPitch.Length}
}

package tacticalevents

import "github.com/matchforge/tactics-engine/internal/tactics/geometry"

// PressureMetrics breaks down a team's pressing actions by pitch third.
type PressureMetrics struct {
	TeamID               string
	DefensiveThirdPresses int
	MiddleThirdPresses    int
	AttackingThirdPresses int
	TotalPresses          int
}

// CalculatePressureMetrics counts a team's pressure/defensive-action/tackle
// events by pitch third.
func (s Service) CalculatePressureMetrics(events []MatchEvent, teamID string) PressureMetrics {
	m := PressureMetrics{TeamID: teamID}
	for _, e := range events {
		if e.TeamID != teamID || !pressureEventTypes[e.Type] {
			continue
		}
		switch geometry.ThirdOf(e.X, s.PitchLength) {
		case geometry.DefensiveThird:
			m.DefensiveThirdPresses++
		case geometry.MiddleThird:
			m.MiddleThirdPresses++
		case geometry.AttackingThird:
			m.AttackingThirdPresses++
		}
	}
	m.TotalPresses = m.DefensiveThirdPresses + m.MiddleThirdPresses + m.AttackingThirdPresses
	return m
}

package tacticalevents

// BallAction is a single ball-progressing action (pass, carry, dribble)
// with a start and end pitch location, used to accumulate Expected Threat.
type BallAction struct {
	TeamID               string
	FromX, FromY, ToX, ToY float64
}

// XTContribution pairs a ball action with the xT delta it produced.
type XTContribution struct {
	Action BallAction
	Delta  float64
}

// AccumulateXT computes the xT delta for every action and the running team
// totals, per spec §4.4's Expected Threat accounting.
func AccumulateXT(actions []BallAction, grid XTGrid) (contributions []XTContribution, totalsByTeam map[string]float64) {
	totalsByTeam = make(map[string]float64)
	contributions = make([]XTContribution, 0, len(actions))
	for _, a := range actions {
		delta := grid.Delta(a.FromX, a.FromY, a.ToX, a.ToY)
		contributions = append(contributions, XTContribution{Action: a, Delta: delta})
		totalsByTeam[a.TeamID] += delta
	}
	return contributions, totalsByTeam
}

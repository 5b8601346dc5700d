package tacticalevents

import (
	"fmt"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
)

// PPDA (Passes Per Defensive Action) is modeled as a sum type rather than a
// bare float64, per the "infinite PPDA values" design note: a defending
// team that records zero defensive actions has an undefined, not zero or
// NaN, PPDA — callers must check IsInfinite before using Value.
type PPDA struct {
	isInfinite bool
	value      float64
}

// FinitePPDA constructs a finite PPDA value.
func FinitePPDA(v float64) PPDA { return PPDA{value: v} }

// InfinitePPDA constructs the "no defensive actions recorded" sentinel.
func InfinitePPDA() PPDA { return PPDA{isInfinite: true} }

// IsInfinite reports whether this PPDA has no defined finite value.
func (p PPDA) IsInfinite() bool { return p.isInfinite }

// Value returns the finite PPDA value. Panics if IsInfinite is true;
// callers must check IsInfinite first.
func (p PPDA) Value() float64 {
	if p.isInfinite {
		panic("tacticalevents: Value called on infinite PPDA")
	}
	return p.value
}

// MarshalJSON serializes a finite PPDA as a number and an infinite PPDA as
// the literal string "inf".
func (p PPDA) MarshalJSON() ([]byte, error) {
	if p.isInfinite {
		return []byte(`"inf"`), nil
	}
	return []byte(fmt.Sprintf("%g", p.value)), nil
}

// String renders the PPDA for display: "inf" when infinite, otherwise a
// fixed-precision decimal.
func (p PPDA) String() string {
	if p.isInfinite {
		return "inf"
	}
	return fmt.Sprintf("%.2f", p.value)
}

// PPDAResult is the outcome of a PPDA calculation for one defending team.
type PPDAResult struct {
	TeamID            string
	PassesAllowed      int
	DefensiveActions   int
	PPDA               PPDA
}

// CalculatePPDA computes PPDA for the defending team: the count of the
// attacking team's passes within their attacking two-thirds, divided by the
// defending team's defensive-action count. Lower PPDA indicates more
// intense pressing.
func (s Service) CalculatePPDA(events []MatchEvent, defendingTeam, attackingTeam string) PPDAResult {
	passesAllowed := 0
	for _, e := range events {
		if e.TeamID == attackingTeam && e.Type == EventPass && s.inAttackingTwoThirds(e.X, attackingTeam) {
			passesAllowed++
		}
	}

	defensiveActions := 0
	for _, e := range events {
		if e.TeamID == defendingTeam && defensiveEventTypes[e.Type] {
			defensiveActions++
		}
	}

	var ppda PPDA
	if defensiveActions == 0 {
		ppda = InfinitePPDA()
	} else {
		ppda = FinitePPDA(float64(passesAllowed) / float64(defensiveActions))
	}

	return PPDAResult{
		TeamID:           defendingTeam,
		PassesAllowed:     passesAllowed,
		DefensiveActions:  defensiveActions,
		PPDA:              ppda,
	}
}

// inAttackingTwoThirds assumes the conventional "home attacks +x" direction:
// home's attacking two-thirds is x > L/3; away's is x < 2L/3.
func (s Service) inAttackingTwoThirds(x float64, teamID string) bool {
	return geometry.AttackingTwoThirdsX(x, s.PitchLength, teamID == "home")
}

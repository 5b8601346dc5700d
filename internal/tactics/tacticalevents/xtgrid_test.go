package tacticalevents

import "testing"

func TestThreatClampsOutOfRangeZones(t *testing.T) {
	g := DefaultXTGrid()
	inRange := g.Threat(0, 0)
	clampedNeg := g.Threat(-5, -5)
	clampedOver := g.Threat(100, 100)
	if inRange != clampedNeg {
		t.Errorf("expected clamped negative zone to equal zone (0,0), got %v vs %v", clampedNeg, inRange)
	}
	if clampedOver != g.Threat(11, 7) {
		t.Errorf("expected clamped overflow zone to equal zone (11,7), got %v", clampedOver)
	}
}

func TestThreatIncreasesTowardGoal(t *testing.T) {
	g := DefaultXTGrid()
	nearOwnGoal := g.Threat(0, 4)
	nearOppGoal := g.Threat(11, 4)
	if nearOppGoal <= nearOwnGoal {
		t.Errorf("expected higher xT near attacking goal: own=%v opp=%v", nearOwnGoal, nearOppGoal)
	}
}

func TestDeltaPositiveForForwardProgress(t *testing.T) {
	g := DefaultXTGrid()
	delta := g.Delta(10, 34, 95, 34)
	if delta <= 0 {
		t.Errorf("expected positive xT delta for forward progress, got %v", delta)
	}
}

func TestAccumulateXTTotalsByTeam(t *testing.T) {
	g := DefaultXTGrid()
	actions := []BallAction{
		{TeamID: "home", FromX: 10, FromY: 34, ToX: 50, ToY: 34},
		{TeamID: "home", FromX: 50, FromY: 34, ToX: 90, ToY: 34},
		{TeamID: "away", FromX: 90, FromY: 34, ToX: 10, ToY: 34},
	}
	contributions, totals := AccumulateXT(actions, g)
	if len(contributions) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(contributions))
	}
	if totals["home"] <= 0 {
		t.Errorf("expected positive cumulative xT for home, got %v", totals["home"])
	}
	if totals["away"] >= 0 {
		t.Errorf("expected negative cumulative xT for away (regressive action), got %v", totals["away"])
	}
}

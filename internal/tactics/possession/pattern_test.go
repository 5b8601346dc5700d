package possession

import (
	"math"
	"testing"
	"time"
)

func TestAddSequenceAccumulatesRunningAverages(t *testing.T) {
	p := NewPattern("p1", "m1", "home", 0, time.Unix(0, 0))
	p.AddSequence("s1", false, false, 4.0, 3, 0.05)
	p.AddSequence("s2", true, false, 8.0, 5, 0.15)

	if p.OccurrenceCount != 2 {
		t.Errorf("expected occurrence count 2, got %d", p.OccurrenceCount)
	}
	if p.SuccessCount != 1 {
		t.Errorf("expected success count 1, got %d", p.SuccessCount)
	}
	wantDuration := 6.0
	if math.Abs(p.AvgDurationSeconds()-wantDuration) > 1e-9 {
		t.Errorf("expected avg duration %v, got %v", wantDuration, p.AvgDurationSeconds())
	}
}

func TestExampleSequencesCapAtFive(t *testing.T) {
	p := NewPattern("p1", "m1", "home", 0, time.Unix(0, 0))
	for i := 0; i < 10; i++ {
		p.AddSequence("s", false, false, 1, 1, 0)
	}
	if len(p.ExampleSequences) != 5 {
		t.Errorf("expected example sequences capped at 5, got %d", len(p.ExampleSequences))
	}
}

func TestSuccessRateZeroOccurrences(t *testing.T) {
	p := NewPattern("p1", "m1", "home", 0, time.Unix(0, 0))
	if p.SuccessRate() != 0 {
		t.Errorf("expected zero success rate with no occurrences, got %v", p.SuccessRate())
	}
}

func TestToSummaryReflectsState(t *testing.T) {
	p := NewPattern("p1", "m1", "home", 2, time.Unix(0, 0))
	p.AddSequence("s1", true, true, 5.0, 4, 0.2)
	s := p.ToSummary()
	if s.PatternID != "p1" || s.ClusterLabel != 2 || s.OccurrenceCount != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.GoalRate != 1.0 {
		t.Errorf("expected goal rate 1.0, got %v", s.GoalRate)
	}
}

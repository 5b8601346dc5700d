package phase

import "testing"

func homeAttackFeatures() Features  { return Features{HomePossessionProb: 0.9} }
func homeDefendFeatures() Features  { return Features{HomePossessionProb: 0.1} }

func TestAddFramePhaseDetectsTransition(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	classifier := NewRuleClassifier()

	seq.AddFramePhase(0, classifier, homeAttackFeatures())
	seq.AddFramePhase(1, classifier, homeAttackFeatures())
	seq.AddFramePhase(2, classifier, homeDefendFeatures())

	if seq.PhaseAtFrame(2) != TransitionAtkDef {
		t.Errorf("expected transition_attack_to_defense at boundary frame, got %v", seq.PhaseAtFrame(2))
	}
}

func TestTransitionsDetected(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	classifier := NewRuleClassifier()
	seq.AddFramePhase(0, classifier, homeAttackFeatures())
	seq.AddFramePhase(25, classifier, homeAttackFeatures())
	seq.AddFramePhase(50, classifier, homeDefendFeatures())
	seq.AddFramePhase(75, classifier, homeDefendFeatures())

	transitions := seq.Transitions()
	if len(transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d: %+v", len(transitions), transitions)
	}
	if transitions[0].FrameID != 50 {
		t.Errorf("expected transition at frame 50, got %d", transitions[0].FrameID)
	}
}

func TestDurationsSumsToTotal(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	classifier := NewRuleClassifier()
	seq.AddFramePhase(0, classifier, homeAttackFeatures())
	seq.AddFramePhase(25, classifier, homeAttackFeatures())
	seq.AddFramePhase(50, classifier, homeAttackFeatures())

	durations := seq.Durations()
	var total float64
	for _, d := range durations {
		total += d
	}
	want := 50.0/25 + 1.0/25
	if total < want-1e-9 || total > want+1e-9 {
		t.Errorf("expected total duration %v, got %v", want, total)
	}
}

func TestDominantPhaseExcludesUnknown(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	classifier := NewRuleClassifier()
	seq.AddFramePhase(0, classifier, homeAttackFeatures())
	seq.AddFramePhase(25, classifier, homeAttackFeatures())
	seq.AddFramePhase(50, classifier, homeAttackFeatures())

	if seq.DominantPhase() != OrganizedAttack {
		t.Errorf("expected dominant phase organized_attack, got %v", seq.DominantPhase())
	}
}

func TestDominantPhaseUnknownWhenEmpty(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	if seq.DominantPhase() != UnknownPhase {
		t.Errorf("expected unknown dominant phase for empty sequence, got %v", seq.DominantPhase())
	}
}

func TestPhasesInRangeFilters(t *testing.T) {
	seq := NewSequence("m1", "home", 25)
	classifier := NewRuleClassifier()
	seq.AddFramePhase(0, classifier, homeAttackFeatures())
	seq.AddFramePhase(25, classifier, homeAttackFeatures())
	seq.AddFramePhase(50, classifier, homeAttackFeatures())

	inRange := seq.PhasesInRange(10, 40)
	if len(inRange) != 1 || inRange[0].FrameID != 25 {
		t.Errorf("expected single frame 25 in range, got %+v", inRange)
	}
}

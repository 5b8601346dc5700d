package trajectory

import "testing"

func TestOptimalAssignSimpleSquareMatrix(t *testing.T) {
	cost := [][]float64{
		{1, 2, 3},
		{3, 1, 2},
		{2, 3, 1},
	}
	got := OptimalAssign(cost)
	want := []int{0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOptimalAssignRejectsForbiddenEntries(t *testing.T) {
	cost := [][]float64{
		{hungarianInf, 1},
		{1, hungarianInf},
	}
	got := OptimalAssign(cost)
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("expected forced cross assignment, got %v", got)
	}
}

func TestOptimalAssignEmpty(t *testing.T) {
	if got := OptimalAssign(nil); got != nil {
		t.Errorf("expected nil for empty cost matrix, got %v", got)
	}
}

func TestFragmentGapCostRejectsExceededGap(t *testing.T) {
	cost := FragmentGapCost(0, 100, 0, 0, 0, 0, 25, 5.0)
	if cost < hungarianInf {
		t.Errorf("expected forbidden cost for exceeded frame gap, got %v", cost)
	}
}

func TestFragmentGapCostRejectsExceededDistance(t *testing.T) {
	cost := FragmentGapCost(0, 5, 0, 0, 100, 100, 25, 5.0)
	if cost < hungarianInf {
		t.Errorf("expected forbidden cost for exceeded distance, got %v", cost)
	}
}

func TestFragmentGapCostAcceptsValidMerge(t *testing.T) {
	cost := FragmentGapCost(0, 5, 0, 0, 1, 1, 25, 5.0)
	if cost >= hungarianInf {
		t.Errorf("expected finite cost for valid merge, got %v", cost)
	}
}

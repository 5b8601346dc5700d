package geometry

import (
	"math"
	"testing"
)

func TestConvertSourceARoundTrip(t *testing.T) {
	cases := []struct{ x, y float64 }{
		{0, 0}, {120, 80}, {60, 40}, {13.37, 52.1},
	}
	for _, c := range cases {
		p := ConvertSourceA(c.x, c.y)
		x, y := InverseSourceA(p)
		if math.Abs(x-c.x) > 1e-9 || math.Abs(y-c.y) > 1e-9 {
			t.Errorf("round trip mismatch: got (%v,%v), want (%v,%v)", x, y, c.x, c.y)
		}
	}
}

func TestConvertSourceBRoundTrip(t *testing.T) {
	cases := []struct{ x, y float64 }{
		{0, 0}, {1, 1}, {0.5, 0.5}, {0.123, 0.987},
	}
	for _, c := range cases {
		p := ConvertSourceB(c.x, c.y)
		x, y := InverseSourceB(p)
		if math.Abs(x-c.x) > 1e-9 || math.Abs(y-c.y) > 1e-9 {
			t.Errorf("round trip mismatch: got (%v,%v), want (%v,%v)", x, y, c.x, c.y)
		}
	}
}

func TestThirdOf(t *testing.T) {
	pitchLen := 105.0
	if ThirdOf(10, pitchLen) != DefensiveThird {
		t.Error("expected defensive third")
	}
	if ThirdOf(52.5, pitchLen) != MiddleThird {
		t.Error("expected middle third")
	}
	if ThirdOf(100, pitchLen) != AttackingThird {
		t.Error("expected attacking third")
	}
}

func TestAttackingTwoThirdsX(t *testing.T) {
	// Home attacks +x: attacking two-thirds is x > L/3.
	if !AttackingTwoThirdsX(60, 105, true) {
		t.Error("expected x=60 in home attacking two-thirds")
	}
	if AttackingTwoThirdsX(30, 105, true) {
		t.Error("expected x=30 not in home attacking two-thirds")
	}
	// Away attacks -x: attacking two-thirds is x < 2L/3.
	if !AttackingTwoThirdsX(60, 105, false) {
		t.Error("expected x=60 in away attacking two-thirds")
	}
	if AttackingTwoThirdsX(90, 105, false) {
		t.Error("expected x=90 not in away attacking two-thirds")
	}
}

func TestZoneOfClampsOutOfBounds(t *testing.T) {
	pitch := StandardPitch
	z := ZoneOf(Point{X: -5, Y: -5}, pitch)
	if z != 0 {
		t.Errorf("expected zone 0 for clamped negative point, got %d", z)
	}
	z2 := ZoneOf(Point{X: 1000, Y: 1000}, pitch)
	if z2 != 11 {
		t.Errorf("expected zone 11 for clamped overflow point, got %d", z2)
	}
}

func TestDistance(t *testing.T) {
	d := Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4})
	if math.Abs(d-5.0) > 1e-9 {
		t.Errorf("expected distance 5.0, got %v", d)
	}
}

func TestBoundingBoxDerived(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 30, Y2: 60}
	cx, cy := b.Center()
	if cx != 20 || cy != 40 {
		t.Errorf("expected center (20,40), got (%v,%v)", cx, cy)
	}
	if b.Width() != 20 {
		t.Errorf("expected width 20, got %v", b.Width())
	}
	if b.Height() != 40 {
		t.Errorf("expected height 40, got %v", b.Height())
	}
}

package inference

import "testing"

func TestDetectPassComplete(t *testing.T) {
	d := NewDetector(DefaultConfig())
	points := []TrackPoint{
		{FrameID: 0, ObjectID: "ball", ObjectType: "ball", X: 0, Y: 0},
		{FrameID: 0, ObjectID: "p1", ObjectType: "home", X: 0.5, Y: 0},
		{FrameID: 0, ObjectID: "p2", ObjectType: "home", X: 50, Y: 0},

		{FrameID: 1, ObjectID: "ball", ObjectType: "ball", X: 10, Y: 0},
		{FrameID: 1, ObjectID: "p1", ObjectType: "home", X: 20, Y: 0},
		{FrameID: 1, ObjectID: "p2", ObjectType: "home", X: 10.2, Y: 0},
	}
	events := d.Detect(points, "m1", nil)

	found := false
	for _, e := range events {
		if e.Type == PassComplete {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pass_complete event, got %+v", events)
	}
}

func TestDetectLossOfPossession(t *testing.T) {
	d := NewDetector(DefaultConfig())
	points := []TrackPoint{
		{FrameID: 0, ObjectID: "ball", ObjectType: "ball", X: 0, Y: 0},
		{FrameID: 0, ObjectID: "p1", ObjectType: "home", X: 0.5, Y: 0},
		{FrameID: 0, ObjectID: "p2", ObjectType: "away", X: 50, Y: 0},

		{FrameID: 1, ObjectID: "ball", ObjectType: "ball", X: 10, Y: 0},
		{FrameID: 1, ObjectID: "p1", ObjectType: "home", X: 20, Y: 0},
		{FrameID: 1, ObjectID: "p2", ObjectType: "away", X: 10.2, Y: 0},
	}
	events := d.Detect(points, "m1", nil)

	found := false
	for _, e := range events {
		if e.Type == LossOfPossession {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a loss_of_possession event, got %+v", events)
	}
}

func TestDetectPressureEvent(t *testing.T) {
	d := NewDetector(DefaultConfig())
	points := []TrackPoint{
		{FrameID: 0, ObjectID: "ball", ObjectType: "ball", X: 0, Y: 0},
		{FrameID: 0, ObjectID: "p1", ObjectType: "home", X: 0.5, Y: 0},
		{FrameID: 0, ObjectID: "p2", ObjectType: "away", X: 1.5, Y: 0},
	}
	events := d.Detect(points, "m1", nil)

	found := false
	for _, e := range events {
		if e.Type == Pressure {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pressure event, got %+v", events)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector(DefaultConfig())
	if events := d.Detect(nil, "m1", nil); events != nil {
		t.Errorf("expected nil events for empty input, got %v", events)
	}
}

func TestDetectResolvesNamesWhenResolverProvided(t *testing.T) {
	d := NewDetector(DefaultConfig())
	points := []TrackPoint{
		{FrameID: 0, ObjectID: "ball", ObjectType: "ball", X: 0, Y: 0},
		{FrameID: 0, ObjectID: "p1", ObjectType: "home", X: 0.5, Y: 0},
		{FrameID: 0, ObjectID: "p2", ObjectType: "home", X: 50, Y: 0},

		{FrameID: 1, ObjectID: "ball", ObjectType: "ball", X: 10, Y: 0},
		{FrameID: 1, ObjectID: "p1", ObjectType: "home", X: 20, Y: 0},
		{FrameID: 1, ObjectID: "p2", ObjectType: "home", X: 10.2, Y: 0},
	}
	resolver := MapResolver{"m1/p1": "Alice", "m1/p2": "Bob"}
	events := d.Detect(points, "m1", resolver)

	for _, e := range events {
		if e.Type == PassComplete {
			if len(e.ActorNames) != 2 {
				t.Fatalf("expected 2 actor names, got %v", e.ActorNames)
			}
			if e.ActorNames[0] != "Alice" || e.ActorNames[1] != "Bob" {
				t.Errorf("expected resolved names, got %v", e.ActorNames)
			}
		}
	}
}

func TestDetectLeavesNamesNilWithNoOpResolver(t *testing.T) {
	d := NewDetector(DefaultConfig())
	points := []TrackPoint{
		{FrameID: 0, ObjectID: "ball", ObjectType: "ball", X: 0, Y: 0},
		{FrameID: 0, ObjectID: "p1", ObjectType: "home", X: 0.5, Y: 0},
	}
	events := d.Detect(points, "m1", NoOpResolver{})
	for _, e := range events {
		if e.ActorNames != nil {
			t.Errorf("expected nil actor names with NoOpResolver, got %v", e.ActorNames)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config valid, got %v", err)
	}
	cfg.BallProximityThreshold = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero proximity threshold")
	}
}

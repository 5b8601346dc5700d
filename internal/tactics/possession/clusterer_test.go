package possession

import (
	"testing"
	"time"
)

func TestDensityClustererGroupsNearbyFeatures(t *testing.T) {
	c := NewDensityClusterer(1.5, 2)
	features := []SequenceFeatures{
		{SequenceID: "a", Vector: []float64{1, 1, 1}},
		{SequenceID: "b", Vector: []float64{1.2, 1.1, 1.0}},
		{SequenceID: "c", Vector: []float64{1.1, 1.0, 1.1}},
		{SequenceID: "d", Vector: []float64{50, 50, 50}}, // isolated -> noise
	}
	c.Fit(features, 2)
	clusters := c.Clusters()

	if _, ok := clusters[-1]; !ok {
		t.Fatalf("expected a noise cluster for the isolated point, got %+v", clusters)
	}
	if len(clusters[-1]) != 1 || clusters[-1][0] != "d" {
		t.Errorf("expected 'd' alone in noise cluster, got %v", clusters[-1])
	}

	total := 0
	for _, members := range clusters {
		total += len(members)
	}
	if total != 4 {
		t.Errorf("expected all 4 sequences assigned somewhere, got %d", total)
	}
}

func TestDetectEndToEnd(t *testing.T) {
	events := []Event{
		{TeamID: "home", Type: "pass", FrameID: 0},
		{TeamID: "home", Type: "pass", FrameID: 25},
		{TeamID: "home", Type: "pass", FrameID: 50},
		{TeamID: "home", Type: "shot", FrameID: 75},
		{TeamID: "away", Type: "pass", FrameID: 100},
		{TeamID: "away", Type: "pass", FrameID: 125},
		{TeamID: "away", Type: "pass", FrameID: 150},
	}
	detector := NewDefaultDensityClusterer()
	outcomeOf := func(s Sequence) (bool, bool, float64) {
		for _, e := range s.Events {
			if e.Type == "shot" {
				return true, false, 0.2
			}
		}
		return false, false, 0.0
	}
	result := Detect(detector, events, "m1", "home", 25, outcomeOf, time.Unix(0, 0))
	if result.SequenceCount == 0 {
		t.Fatal("expected at least one home sequence")
	}
	for _, p := range result.Patterns {
		if p.Label == "" {
			t.Errorf("expected every pattern to receive a label, got %+v", p)
		}
	}
}

func TestDetectNoEventsReturnsEmptyResult(t *testing.T) {
	detector := NewDefaultDensityClusterer()
	result := Detect(detector, nil, "m1", "home", 25, nil, time.Unix(0, 0))
	if result.PatternCount != 0 || result.SequenceCount != 0 {
		t.Errorf("expected empty result for no events, got %+v", result)
	}
}

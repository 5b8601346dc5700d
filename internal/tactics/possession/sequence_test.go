package possession

import "testing"

func TestExtractSplitsOnTeamChange(t *testing.T) {
	events := []Event{
		{TeamID: "home", Type: "pass", FrameID: 0},
		{TeamID: "home", Type: "pass", FrameID: 1},
		{TeamID: "home", Type: "pass", FrameID: 2},
		{TeamID: "away", Type: "pass", FrameID: 3},
		{TeamID: "away", Type: "pass", FrameID: 4},
		{TeamID: "away", Type: "pass", FrameID: 5},
	}
	sequences := Extract(events, "m1")
	if len(sequences) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(sequences))
	}
	if sequences[0].TeamID != "home" || sequences[1].TeamID != "away" {
		t.Errorf("unexpected team assignment: %+v", sequences)
	}
}

func TestExtractDropsShortSequences(t *testing.T) {
	events := []Event{
		{TeamID: "home", Type: "pass", FrameID: 0},
		{TeamID: "home", Type: "pass", FrameID: 1},
		{TeamID: "away", Type: "pass", FrameID: 2},
	}
	sequences := Extract(events, "m1")
	if len(sequences) != 0 {
		t.Errorf("expected sequences below minimum event count to be dropped, got %d", len(sequences))
	}
}

func TestExtractEndsOnTurnoverEvent(t *testing.T) {
	events := []Event{
		{TeamID: "home", Type: "pass", FrameID: 0},
		{TeamID: "home", Type: "pass", FrameID: 1},
		{TeamID: "home", Type: "pass", FrameID: 2},
		{TeamID: "home", Type: "interception", FrameID: 3},
		{TeamID: "home", Type: "pass", FrameID: 4},
		{TeamID: "home", Type: "pass", FrameID: 5},
		{TeamID: "home", Type: "pass", FrameID: 6},
	}
	sequences := Extract(events, "m1")
	if len(sequences) != 2 {
		t.Fatalf("expected turnover event to split sequence, got %d sequences", len(sequences))
	}
}

func TestExtractAssignsUnknownTeamWhenMissing(t *testing.T) {
	events := []Event{
		{Type: "pass", FrameID: 0},
		{Type: "pass", FrameID: 1},
		{Type: "pass", FrameID: 2},
	}
	sequences := Extract(events, "m1")
	if len(sequences) != 1 || sequences[0].TeamID != "unknown" {
		t.Errorf("expected single sequence with unknown team, got %+v", sequences)
	}
}

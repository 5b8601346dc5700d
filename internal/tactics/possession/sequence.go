// Package possession extracts possession sequences from a match event
// stream and clusters them into labeled tactical patterns, per spec §4.6.
package possession

import "github.com/google/uuid"

// Event is the minimal shape of a match event the sequence extractor
// reasons about; it is deliberately decoupled from tacticalevents.MatchEvent
// so this package does not need to import every event producer.
type Event struct {
	TeamID  string
	Type    string // lowercased event type, e.g. "pass", "ball_lost"
	FrameID int64
}

// Sequence is a contiguous run of events attributed to one team's
// uninterrupted possession.
type Sequence struct {
	SequenceID string
	MatchID    string
	TeamID     string
	StartFrame int64
	EndFrame   int64
	Events     []Event
}

// minSequenceEvents is the minimum event count for a sequence to be
// retained, per spec §4.6.
const minSequenceEvents = 3

var endingEventTypes = map[string]bool{
	"ball_lost": true, "ball_out": true, "goal": true, "half_end": true,
	"foul_won": true, "clearance": true, "interception": true,
}

var turnoverEventTypes = map[string]bool{
	"interception": true, "tackle": true, "dispossessed": true, "ball_recovery": true,
}

// Extract splits an ordered event stream into possession sequences: a
// sequence ends on team change, an ending event (ball_lost, goal, etc.), or
// a turnover event (interception, tackle, etc.), and is retained only if it
// accumulated at least minSequenceEvents events.
func Extract(events []Event, matchID string) []Sequence {
	var sequences []Sequence
	var current []Event
	currentTeam := ""
	hasTeam := false
	startFrame := int64(0)

	flush := func(endFrame int64) {
		if len(current) >= minSequenceEvents {
			sequences = append(sequences, newSequence(current, matchID, currentTeam, startFrame, endFrame))
		}
		current = nil
	}

	for _, e := range events {
		possessionEnded := false
		if e.TeamID != "" && hasTeam && e.TeamID != currentTeam {
			possessionEnded = true
		} else if endingEventTypes[e.Type] {
			possessionEnded = true
		} else if turnoverEventTypes[e.Type] {
			possessionEnded = true
		}

		if possessionEnded && len(current) > 0 {
			flush(e.FrameID)
			startFrame = e.FrameID
		}

		current = append(current, e)
		if !hasTeam || (e.TeamID != "" && e.TeamID != currentTeam) {
			currentTeam = e.TeamID
			hasTeam = true
			startFrame = e.FrameID
		}
	}

	if len(current) >= minSequenceEvents {
		lastFrame := startFrame
		if n := len(current); n > 0 {
			lastFrame = current[n-1].FrameID
		}
		sequences = append(sequences, newSequence(current, matchID, currentTeam, startFrame, lastFrame))
	}

	return sequences
}

func newSequence(events []Event, matchID, teamID string, startFrame, endFrame int64) Sequence {
	if teamID == "" {
		teamID = "unknown"
	}
	cp := make([]Event, len(events))
	copy(cp, events)
	return Sequence{
		SequenceID: uuid.NewString()[:8],
		MatchID:    matchID,
		TeamID:     teamID,
		StartFrame: startFrame,
		EndFrame:   endFrame,
		Events:     cp,
	}
}

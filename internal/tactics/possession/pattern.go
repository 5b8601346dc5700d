package possession

import (
	"time"

	"github.com/matchforge/tactics-engine/internal/tactics/physical"
)

// Pattern is a discovered tactical pattern: a cluster of similar possession
// sequences, with incrementally-updated aggregate statistics. Each
// aggregate is a physical.RunningStat rather than a recomputed-from-scratch
// average, per the "mutable running averages" design note.
type Pattern struct {
	PatternID    string
	MatchID      string
	TeamID       string
	ClusterLabel int

	Label       string
	Description string

	OccurrenceCount int
	SuccessCount    int // ended in shot or goal
	GoalCount       int

	durationStat physical.RunningStat
	eventStat    physical.RunningStat
	xtStat       physical.RunningStat

	// ExampleSequences holds up to 5 representative sequence ids. Arena-
	// style ownership: a Pattern owns sequence IDs only, never the
	// sequence objects themselves, avoiding the cyclic pattern<->sequence
	// object graph the original implementation risked when patterns and
	// sequences held direct references to each other.
	ExampleSequences []string

	CreatedAt time.Time
}

// NewPattern constructs an empty pattern ready to accumulate sequences.
func NewPattern(patternID, matchID, teamID string, clusterLabel int, createdAt time.Time) *Pattern {
	return &Pattern{
		PatternID:    patternID,
		MatchID:      matchID,
		TeamID:       teamID,
		ClusterLabel: clusterLabel,
		Label:        "Unknown Pattern",
		CreatedAt:    createdAt,
	}
}

// AddSequence folds one sequence's outcome into the pattern's statistics.
func (p *Pattern) AddSequence(sequenceID string, endedInShot, endedInGoal bool, durationSeconds float64, eventCount int, xtProgression float64) {
	p.OccurrenceCount++
	if endedInShot || endedInGoal {
		p.SuccessCount++
	}
	if endedInGoal {
		p.GoalCount++
	}

	p.durationStat.Update(durationSeconds)
	p.eventStat.Update(float64(eventCount))
	p.xtStat.Update(xtProgression)

	if len(p.ExampleSequences) < 5 {
		p.ExampleSequences = append(p.ExampleSequences, sequenceID)
	}
}

// AvgDurationSeconds returns the running mean possession duration.
func (p *Pattern) AvgDurationSeconds() float64 { return p.durationStat.Mean() }

// AvgEventCount returns the running mean event count per sequence.
func (p *Pattern) AvgEventCount() float64 { return p.eventStat.Mean() }

// AvgXTProgression returns the running mean Expected Threat progression.
func (p *Pattern) AvgXTProgression() float64 { return p.xtStat.Mean() }

// SuccessRate returns the fraction of sequences ending in a shot or goal.
func (p *Pattern) SuccessRate() float64 {
	if p.OccurrenceCount == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.OccurrenceCount)
}

// GoalRate returns the fraction of sequences ending in a goal.
func (p *Pattern) GoalRate() float64 {
	if p.OccurrenceCount == 0 {
		return 0
	}
	return float64(p.GoalCount) / float64(p.OccurrenceCount)
}

// Summary is the externally-consumable, explicitly-serialized view of a
// Pattern, per the "reflection-based serialization" design note: rather
// than reflecting over Pattern's fields (which include unexported
// RunningStat accumulators), ToSummary builds this plain value explicitly.
type Summary struct {
	PatternID          string
	MatchID            string
	TeamID             string
	ClusterLabel       int
	Label              string
	Description        string
	OccurrenceCount    int
	SuccessRate        float64
	GoalRate           float64
	AvgDurationSeconds float64
	AvgEventCount      float64
	AvgXTProgression   float64
	ExampleSequences   []string
}

// ToSummary builds the serializable Summary for this pattern.
func (p *Pattern) ToSummary() Summary {
	return Summary{
		PatternID:          p.PatternID,
		MatchID:            p.MatchID,
		TeamID:             p.TeamID,
		ClusterLabel:       p.ClusterLabel,
		Label:              p.Label,
		Description:        p.Description,
		OccurrenceCount:    p.OccurrenceCount,
		SuccessRate:        p.SuccessRate(),
		GoalRate:           p.GoalRate(),
		AvgDurationSeconds: p.AvgDurationSeconds(),
		AvgEventCount:      p.AvgEventCount(),
		AvgXTProgression:   p.AvgXTProgression(),
		ExampleSequences:   p.ExampleSequences,
	}
}

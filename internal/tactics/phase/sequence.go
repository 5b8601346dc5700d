package phase

import "sort"

// FramePhase is the phase classification for a single frame.
type FramePhase struct {
	FrameID    int64
	Phase      GamePhase
	Confidence float64
	Features   Features
}

// Transition represents a change from one phase to another.
type Transition struct {
	FrameID   int64
	FromPhase GamePhase
	ToPhase   GamePhase
	Timestamp float64
}

// Sequence is a match/team's full phase history: per-frame classifications
// plus the transition-detection and duration-accounting logic that a
// single-frame Classifier cannot provide on its own.
type Sequence struct {
	MatchID string
	TeamID  string
	FPS     float64

	frames []FramePhase
}

// NewSequence constructs an empty phase sequence.
func NewSequence(matchID, teamID string, fps float64) *Sequence {
	if fps <= 0 {
		fps = 25.0
	}
	return &Sequence{MatchID: matchID, TeamID: teamID, FPS: fps}
}

// AddFramePhase classifies one frame's features with classifier and
// appends the result, keeping frames sorted by frame id. When the
// classifier's settled phase differs from the immediately preceding
// settled phase, the newly-won/newly-lost transition phases
// (TransitionDefAtk / TransitionAtkDef) are reported instead of the raw
// settled phase for this one frame, since that frame is the boundary, not
// yet a fully organized phase.
func (s *Sequence) AddFramePhase(frameID int64, classifier Classifier, f Features) {
	settled, confidence := classifier.Classify(f)

	phase := settled
	if prev, ok := s.lastSettledPhase(); ok && prev != settled {
		if settled == OrganizedAttack {
			phase = TransitionDefAtk
		} else {
			phase = TransitionAtkDef
		}
	}

	s.frames = append(s.frames, FramePhase{FrameID: frameID, Phase: phase, Confidence: confidence, Features: f})
	sort.Slice(s.frames, func(i, j int) bool { return s.frames[i].FrameID < s.frames[j].FrameID })
}

// AddRawFramePhase appends an already-known phase directly, bypassing
// classification. Used by test harnesses and replay tooling that already
// have ground-truth phase labels for a frame rather than raw features.
func (s *Sequence) AddRawFramePhase(frameID int64, p GamePhase, confidence float64) {
	s.frames = append(s.frames, FramePhase{FrameID: frameID, Phase: p, Confidence: confidence})
	sort.Slice(s.frames, func(i, j int) bool { return s.frames[i].FrameID < s.frames[j].FrameID })
}

func (s *Sequence) lastSettledPhase() (GamePhase, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Phase.IsOrganized() {
			return s.frames[i].Phase, true
		}
	}
	return UnknownPhase, false
}

// Len returns the number of classified frames.
func (s *Sequence) Len() int { return len(s.frames) }

// PhaseAtFrame returns the phase recorded at frameID, or UnknownPhase if
// no frame with that id was recorded.
func (s *Sequence) PhaseAtFrame(frameID int64) GamePhase {
	for _, fp := range s.frames {
		if fp.FrameID == frameID {
			return fp.Phase
		}
	}
	return UnknownPhase
}

// PhasesInRange returns all frame phases with frame id in [start, end].
func (s *Sequence) PhasesInRange(start, end int64) []FramePhase {
	var out []FramePhase
	for _, fp := range s.frames {
		if fp.FrameID >= start && fp.FrameID <= end {
			out = append(out, fp)
		}
	}
	return out
}

// Transitions detects every phase change in frame order, skipping
// UnknownPhase frames (which don't count as entering a new phase).
func (s *Sequence) Transitions() []Transition {
	if len(s.frames) < 2 {
		return nil
	}
	var transitions []Transition
	prevPhase := s.frames[0].Phase
	for _, fp := range s.frames[1:] {
		if fp.Phase != prevPhase && fp.Phase != UnknownPhase {
			transitions = append(transitions, Transition{
				FrameID:   fp.FrameID,
				FromPhase: prevPhase,
				ToPhase:   fp.Phase,
				Timestamp: float64(fp.FrameID) / s.FPS,
			})
			prevPhase = fp.Phase
		}
	}
	return transitions
}

// Durations returns total seconds spent in each phase across the
// sequence.
func (s *Sequence) Durations() map[GamePhase]float64 {
	durations := map[GamePhase]float64{
		OrganizedAttack: 0, OrganizedDefense: 0,
		TransitionAtkDef: 0, TransitionDefAtk: 0, UnknownPhase: 0,
	}
	if len(s.frames) == 0 {
		return durations
	}
	for i := 0; i < len(s.frames)-1; i++ {
		cur := s.frames[i]
		next := s.frames[i+1]
		durations[cur.Phase] += float64(next.FrameID-cur.FrameID) / s.FPS
	}
	durations[s.frames[len(s.frames)-1].Phase] += 1.0 / s.FPS
	return durations
}

// Percentages returns the percentage of total time spent in each phase.
func (s *Sequence) Percentages() map[GamePhase]float64 {
	durations := s.Durations()
	var total float64
	for _, d := range durations {
		total += d
	}
	percentages := make(map[GamePhase]float64, len(durations))
	if total == 0 {
		for p := range durations {
			percentages[p] = 0
		}
		return percentages
	}
	for p, d := range durations {
		percentages[p] = d / total * 100
	}
	return percentages
}

// DominantPhase returns the phase (excluding UnknownPhase) with the most
// accumulated time, or UnknownPhase if no time was recorded anywhere.
func (s *Sequence) DominantPhase() GamePhase {
	durations := s.Durations()
	var best GamePhase = UnknownPhase
	var bestDuration float64
	for p, d := range durations {
		if p == UnknownPhase {
			continue
		}
		if d > bestDuration {
			bestDuration = d
			best = p
		}
	}
	if bestDuration == 0 {
		return UnknownPhase
	}
	return best
}

// TransitionCount returns the total number of phase transitions detected.
func (s *Sequence) TransitionCount() int { return len(s.Transitions()) }

package possession

import "fmt"

// Labeler assigns human-readable labels and descriptions to patterns using
// rule-based heuristics over their aggregate statistics.
type Labeler struct{}

// LabelPattern assigns a label based on the pattern's xT progression,
// duration, event count, and success/goal rates.
func (Labeler) LabelPattern(p *Pattern) string {
	xt := p.AvgXTProgression()
	duration := p.AvgDurationSeconds()
	events := p.AvgEventCount()

	switch {
	case xt > 0.1:
		switch {
		case p.GoalRate() > 0.15:
			return "High-Value Attack"
		case duration < 8:
			return "Quick Counter Attack"
		case events > 8:
			return "Build-Up Attack"
		default:
			return "Progressive Attack"
		}
	case xt < -0.05:
		if duration < 5 {
			return "Quick Possession Loss"
		}
		return "Defensive Reset"
	case duration < 5:
		if p.SuccessRate() > 0.3 {
			return "Direct Attack"
		}
		return "Short Possession"
	case duration > 15:
		if events > 10 {
			return "Patient Build-Up"
		}
		return "Long Possession"
	case events > 6:
		return "Structured Attack"
	default:
		return "Standard Possession"
	}
}

// DescribePattern generates a short descriptive sentence from the
// pattern's duration, event count, xT progression, and outcome rates.
func (Labeler) DescribePattern(p *Pattern) string {
	var parts []string

	duration := p.AvgDurationSeconds()
	events := p.AvgEventCount()
	xt := p.AvgXTProgression()

	switch {
	case duration < 5:
		parts = append(parts, "Quick")
	case duration > 12:
		parts = append(parts, "Prolonged")
	}

	switch {
	case events < 4:
		parts = append(parts, "direct")
	case events > 8:
		parts = append(parts, "elaborate")
	}

	switch {
	case xt > 0.1:
		parts = append(parts, "attacking")
	case xt < -0.05:
		parts = append(parts, "regressive")
	default:
		parts = append(parts, "neutral")
	}

	switch {
	case p.GoalRate() > 0.1:
		parts = append(parts, "goal-threatening")
	case p.SuccessRate() > 0.4:
		parts = append(parts, "chance-creating")
	default:
		parts = append(parts, "possession-focused")
	}

	desc := joinWords(parts) + " pattern"
	desc = capitalize(desc)
	return fmt.Sprintf("%s (n=%d, success=%.0f%%)", desc, p.OccurrenceCount, p.SuccessRate()*100)
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

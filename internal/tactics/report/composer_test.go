package report

import (
	"testing"
	"time"
)

func fixedComposerClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestComposeBuildsOrderedSections(t *testing.T) {
	c := NewComposer(fixedComposerClock(time.Now()))
	r := c.Compose("m1", "home", ComposeOptions{
		Metrics:       &KeyMetrics{TotalDistanceKm: 10.5, PPDAIsInfinite: true},
		IncludeCharts: true,
		Charts:        []ChartSection{{Title: "Heatmap", Bytes: []byte("x")}},
		IncludeAI:     true,
		AIAnalysis:    "Team dominated possession.",
	})

	if r.SectionCount() != 4 {
		t.Fatalf("expected 4 sections (summary, metrics, chart, ai), got %d", r.SectionCount())
	}
	if ai, ok := r.AIAnalysis(); !ok || ai.Content != "Team dominated possession." {
		t.Errorf("expected AI analysis section present, got %+v ok=%v", ai, ok)
	}
}

func TestComposeOmitsOptionalSectionsWhenAbsent(t *testing.T) {
	c := NewComposer(fixedComposerClock(time.Now()))
	r := c.Compose("m1", "home", ComposeOptions{})
	if r.SectionCount() != 1 {
		t.Errorf("expected only the executive summary, got %d sections", r.SectionCount())
	}
}

func TestKeyMetricsToStringMapHandlesInfinitePPDA(t *testing.T) {
	m := KeyMetrics{PPDAIsInfinite: true}
	got := m.toStringMap()
	if got["ppda"] != "N/A" {
		t.Errorf("expected N/A for infinite PPDA, got %s", got["ppda"])
	}
}

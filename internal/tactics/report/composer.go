package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KeyMetrics is the structured input for the "Key Metrics" section,
// mirroring the fields the original report generator assembles from the
// metrics/PPDA/physical-stats repositories.
type KeyMetrics struct {
	TotalDistanceKm        float64
	MaxSpeedKmh            float64
	TotalSprints            int
	PlayersTracked          int
	AvgDistancePerPlayerKm  float64
	PPDA                    float64
	PPDAIsInfinite          bool
	DefensiveActions        int
}

func (m KeyMetrics) toStringMap() map[string]string {
	ppda := "N/A"
	if !m.PPDAIsInfinite {
		ppda = fmt.Sprintf("%.2f", m.PPDA)
	}
	return map[string]string{
		"total_distance":            fmt.Sprintf("%.1f km", m.TotalDistanceKm),
		"max_speed":                 fmt.Sprintf("%.1f km/h", m.MaxSpeedKmh),
		"total_sprints":             fmt.Sprintf("%d", m.TotalSprints),
		"players_tracked":           fmt.Sprintf("%d", m.PlayersTracked),
		"avg_distance_per_player":   fmt.Sprintf("%.2f km", m.AvgDistancePerPlayerKm),
		"ppda":                      ppda,
		"defensive_actions":         fmt.Sprintf("%d", m.DefensiveActions),
	}
}

// ChartSection is a rendered chart ready for inclusion in a report.
type ChartSection struct {
	Title       string
	Description string
	Bytes       []byte
}

// ComposeOptions controls what the Composer includes in a generated report.
type ComposeOptions struct {
	Title            string
	IncludeCharts    bool
	IncludeAI        bool
	Metrics          *KeyMetrics
	Charts           []ChartSection
	AIAnalysis       string
}

// Composer orchestrates report assembly: executive summary, optional key
// metrics, optional charts, optional AI analysis — in that section order,
// mirroring the original generator's fixed order numbers (1, 2, 10+i, 100).
type Composer struct {
	now func() time.Time
}

// NewComposer builds a Composer. now supplies the current time (injected
// for deterministic tests).
func NewComposer(now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{now: now}
}

// Compose builds a TacticalReport for matchID/teamID per opts.
func (c *Composer) Compose(matchID, teamID string, opts ComposeOptions) *TacticalReport {
	title := opts.Title
	if title == "" {
		title = "Tactical Report - Match " + matchID
	}
	reportID := uuid.NewString()[:8]
	r := NewTacticalReport(reportID, matchID, teamID, title, c.now())

	if opts.Metrics != nil {
		r.AddSection(Section{
			Title:       "Key Metrics",
			ContentType: ContentMetrics,
			Content:     opts.Metrics.toStringMap(),
			Order:       2,
		})
	}

	if opts.IncludeCharts {
		for i, chart := range opts.Charts {
			r.AddSection(Section{
				Title:       chart.Title,
				ContentType: ContentChart,
				Content:     chart.Bytes,
				Description: chart.Description,
				Order:       10 + i,
			})
		}
	}

	if opts.IncludeAI && opts.AIAnalysis != "" {
		r.AddSection(Section{
			Title:       "AI Tactical Analysis",
			ContentType: ContentAIAnalysis,
			Content:     opts.AIAnalysis,
			Order:       100,
		})
	}

	return r
}

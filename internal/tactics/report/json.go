package report

import (
	"encoding/json"
	"time"
)

const chartDataToken = "[CHART_DATA]"

// exportedSection mirrors a Section for JSON export, substituting chart
// binary content with a literal placeholder token rather than embedding it.
type exportedSection struct {
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
	Content     any    `json:"content"`
}

type exportedReport struct {
	SchemaVersion string            `json:"schema_version"`
	ReportID      string            `json:"report_id"`
	MatchID       string            `json:"match_id"`
	TeamID        string            `json:"team_id"`
	Title         string            `json:"title"`
	CreatedAt     string            `json:"created_at"`
	Metadata      map[string]string `json:"metadata"`
	Sections      []exportedSection `json:"sections"`
}

// ToJSON serializes r deterministically: chart section content is replaced
// with the literal token "[CHART_DATA]", and CreatedAt is formatted as
// ISO-8601 with a trailing "Z" (report timestamps are always generated in
// UTC, so the offset is never anything else).
func (r *TacticalReport) ToJSON() ([]byte, error) {
	out := exportedReport{
		SchemaVersion: "1.0",
		ReportID:      r.ReportID,
		MatchID:       r.MatchID,
		TeamID:        r.TeamID,
		Title:         r.Title,
		CreatedAt:     r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		Metadata:      r.Metadata,
		Sections:      make([]exportedSection, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		content := s.Content
		if s.ContentType == ContentChart {
			content = chartDataToken
		}
		out.Sections = append(out.Sections, exportedSection{
			Title:       s.Title,
			ContentType: string(s.ContentType),
			Order:       s.Order,
			Description: s.Description,
			Content:     content,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseTimestamp parses a report export's ISO-8601 "Z"-suffixed timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000Z", s)
}

// Package report implements the tactical-report composition core of
// spec §4.11: ordered sections, the five content types, and deterministic
// JSON export.
package report

// ContentType is the closed set of report section content kinds.
type ContentType string

const (
	ContentText       ContentType = "text"
	ContentChart      ContentType = "chart"
	ContentTable      ContentType = "table"
	ContentMetrics    ContentType = "metrics"
	ContentAIAnalysis ContentType = "ai_analysis"
)

// Section is an immutable entry in a TacticalReport. Content holds a string
// for Text/AIAnalysis, a map[string]string for Metrics, a [][]string for
// Table, and raw chart bytes for Chart.
type Section struct {
	Title       string
	ContentType ContentType
	Content     any
	Order       int
	Description string
}

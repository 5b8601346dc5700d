package report

import (
	"sort"
	"time"
)

// TacticalReport is a rich entity holding a match's complete tactical
// report: an ordered list of sections plus small generation metadata.
// Sections are always kept sorted by Order, enforced on every AddSection
// call rather than left to callers to maintain.
type TacticalReport struct {
	ReportID  string
	MatchID   string
	TeamID    string
	Title     string
	CreatedAt time.Time
	Sections  []Section
	Metadata  map[string]string
}

// NewTacticalReport builds a report with its pre-seeded Executive Summary
// section at order 1.
func NewTacticalReport(reportID, matchID, teamID, title string, createdAt time.Time) *TacticalReport {
	r := &TacticalReport{
		ReportID:  reportID,
		MatchID:   matchID,
		TeamID:    teamID,
		Title:     title,
		CreatedAt: createdAt,
		Metadata:  map[string]string{"generated_by": "tactics-engine"},
	}
	r.AddSection(Section{
		Title:       "Executive Summary",
		ContentType: ContentText,
		Content:     "Tactical analysis report for match " + matchID + " from " + teamID + " perspective.",
		Order:       1,
	})
	return r
}

// AddSection appends section and re-sorts by Order, maintaining the
// report's order invariant.
func (r *TacticalReport) AddSection(section Section) {
	r.Sections = append(r.Sections, section)
	sort.SliceStable(r.Sections, func(i, j int) bool {
		return r.Sections[i].Order < r.Sections[j].Order
	})
}

// SectionsByType returns all sections of the given content type, in report order.
func (r *TacticalReport) SectionsByType(contentType ContentType) []Section {
	var out []Section
	for _, s := range r.Sections {
		if s.ContentType == contentType {
			out = append(out, s)
		}
	}
	return out
}

// AIAnalysis returns the AI-analysis section, if present.
func (r *TacticalReport) AIAnalysis() (Section, bool) {
	sections := r.SectionsByType(ContentAIAnalysis)
	if len(sections) == 0 {
		return Section{}, false
	}
	return sections[0], true
}

// SectionCount returns the total number of sections in the report.
func (r *TacticalReport) SectionCount() int {
	return len(r.Sections)
}

package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestToJSONReplacesChartContent(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewTacticalReport("r1", "m1", "home", "Test", created)
	r.AddSection(Section{Title: "Heatmap", ContentType: ContentChart, Content: []byte{0x01, 0x02}, Order: 10})

	data, err := r.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), chartDataToken) {
		t.Errorf("expected chart content token in export, got %s", data)
	}

	var decoded exportedReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.CreatedAt != "2026-03-01T12:00:00.000Z" {
		t.Errorf("expected ISO-8601 Z timestamp, got %s", decoded.CreatedAt)
	}
}

func TestParseTimestampRoundTrips(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	r := NewTacticalReport("r1", "m1", "home", "Test", created)
	data, _ := r.ToJSON()

	var decoded exportedReport
	json.Unmarshal(data, &decoded)

	parsed, err := ParseTimestamp(decoded.CreatedAt)
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if !parsed.Equal(created) {
		t.Errorf("expected %v, got %v", created, parsed)
	}
}

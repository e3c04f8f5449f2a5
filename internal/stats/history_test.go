package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
)

func historyRecord(i int, wpm float64) model.SessionRecord {
	endedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	return model.SessionRecord{
		ID:               "session_" + strings.Repeat("x", i+1),
		EndedAt:          endedAt,
		Mode:             model.ModeTime,
		WPM:              wpm,
		Accuracy:         95,
		Backspaces:       3,
		TestDuration:     30,
		ConsistencyScore: 80,
		Persona:          model.Persona{Name: "steady", Title: "The Steady Hand"},
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "No sessions recorded yet.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderHistorySummaryLines(t *testing.T) {
	var buf bytes.Buffer
	records := []model.SessionRecord{historyRecord(1, 70), historyRecord(0, 50)}
	if err := RenderHistory(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sessions: 2",
		"Avg WPM: 60.0",
		"Best WPM: 70.0",
		"Avg Accuracy: 95.0%",
		"Avg Consistency: 80.0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing summary line %q in:\n%s", want, out)
		}
	}
}

func TestRenderHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	records := []model.SessionRecord{historyRecord(0, 62.4)}
	if err := RenderHistory(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "When") || !strings.Contains(out, "Persona") {
		t.Fatalf("missing table header in:\n%s", out)
	}
	if !strings.Contains(out, "2025-06-01 12:00") {
		t.Fatalf("missing formatted timestamp in:\n%s", out)
	}
	if !strings.Contains(out, "The Steady Hand") {
		t.Fatalf("missing persona column in:\n%s", out)
	}
}

func TestRenderHistoryCurveOnlyForMultipleRecords(t *testing.T) {
	var single bytes.Buffer
	if err := RenderHistory(&single, []model.SessionRecord{historyRecord(0, 60)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(single.String(), "WPM across sessions") {
		t.Fatalf("unexpected curve for a single record")
	}

	var multi bytes.Buffer
	records := []model.SessionRecord{historyRecord(1, 70), historyRecord(0, 50)}
	if err := RenderHistory(&multi, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(multi.String(), "WPM across sessions") {
		t.Fatalf("expected curve title for multiple records")
	}
}

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
)

func sampleRecord() model.SessionRecord {
	endedAt := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	return model.SessionRecord{
		ID:                   "session_1748779230000_0000abcd",
		StartedAt:            endedAt.Add(-30 * time.Second),
		EndedAt:              endedAt,
		Mode:                 model.ModeTime,
		WPM:                  62.4,
		Accuracy:             96.1,
		Backspaces:           4,
		TotalCharacters:      160,
		CorrectCharacters:    154,
		IncorrectCharacters:  6,
		TestDuration:         30,
		WPMOverTime:          []model.WPMSample{{Second: 1, WPM: 55}, {Second: 2, WPM: 60.5}},
		ConsistencyScore:     84.2,
		ReactionDelay:        0.6,
		TopErrorHotspots:     []model.Hotspot{{Second: 11, Count: 3}, {Second: 4, Count: 2}},
		TopBackspaceHotspots: []model.Hotspot{{Second: 12, Count: 2}},
		MissedCharacters:     map[string]int{"t": 1, "e": 3, "a": 3},
		KeystrokeLog: []model.Keystroke{
			{Seconds: 0.6, Char: "h", Expected: "h", Correct: true, Position: 0},
			{Seconds: 0.9, Char: "x", Expected: "e", Correct: false, Position: 1},
		},
		Persona:         model.Persona{Name: "steady", Title: "The Steady Hand", Description: "Consistent and reliable.", Traits: []string{"High Consistency", "Reliable Pace"}},
		PersonaInsights: []string{"Try pushing your speed in short bursts to find your limits"},
		Summary:         "Solid performance!",
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want := sampleRecord()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, want); err != nil {
		t.Fatalf("failed to write JSON: %v", err)
	}
	var got model.SessionRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse exported JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestCSVIsDeterministic(t *testing.T) {
	record := sampleRecord()
	var first, second bytes.Buffer
	if err := WriteCSV(&first, record); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	if err := WriteCSV(&second, record); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("identical records produced different CSV bytes")
	}
}

func TestCSVSectionOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecord()); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	out := buf.String()
	sections := []string{
		"metric,value",
		"second,wpm",
		"missedCharacter,count",
		"errorHotspotSecond,errors",
		"backspaceHotspotSecond,backspaces",
		"persona,text",
		"seconds,char,expected,correct,position",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("missing section %q", section)
		}
		if idx < last {
			t.Fatalf("section %q out of order", section)
		}
		last = idx
	}
}

func TestCSVMissedCharsSortedByCountThenChar(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecord()); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	out := buf.String()
	a := strings.Index(out, "a,3")
	e := strings.Index(out, "e,3")
	tt := strings.Index(out, "t,1")
	if a < 0 || e < 0 || tt < 0 {
		t.Fatalf("missing missed-character rows:\n%s", out)
	}
	if !(a < e && e < tt) {
		t.Fatalf("unexpected missed-character order (a=%d e=%d t=%d)", a, e, tt)
	}
}

func TestToFileWritesBothFormats(t *testing.T) {
	dir := t.TempDir()
	record := sampleRecord()

	jsonPath, err := ToFile(dir, record, "json")
	if err != nil {
		t.Fatalf("failed to export JSON: %v", err)
	}
	if filepath.Ext(jsonPath) != ".json" {
		t.Fatalf("unexpected JSON path: %s", jsonPath)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var got model.SessionRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}

	csvPath, err := ToFile(dir, record, "csv")
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}
	if filepath.Ext(csvPath) != ".csv" {
		t.Fatalf("unexpected CSV path: %s", csvPath)
	}

	if _, err := ToFile(dir, record, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

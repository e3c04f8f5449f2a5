package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typeflow.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("failed to close store: %v", err)
		}
	})
	return st
}

func sampleRecord(i int) model.SessionRecord {
	endedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return model.SessionRecord{
		ID:                  fmt.Sprintf("session_%d", i),
		StartedAt:           endedAt.Add(-30 * time.Second),
		EndedAt:             endedAt,
		Mode:                model.ModeTime,
		WPM:                 60 + float64(i),
		Accuracy:            95.5,
		Backspaces:          3,
		TotalCharacters:     150,
		CorrectCharacters:   143,
		IncorrectCharacters: 7,
		TestDuration:        30,
		WPMOverTime:         []model.WPMSample{{Second: 1, WPM: 58}, {Second: 2, WPM: 61}},
		ConsistencyScore:    82.5,
		ReactionDelay:       0.8,
		TopErrorHotspots:    []model.Hotspot{{Second: 12, Count: 3}},
		MissedCharacters:    map[string]int{"e": 2, "t": 1},
		KeystrokeLog: []model.Keystroke{
			{Seconds: 0.4, Char: "t", Expected: "t", Correct: true, Position: 0},
		},
		Persona:         model.Persona{Name: "steady", Title: "The Steady Hand", Traits: []string{"High Consistency"}},
		PersonaInsights: []string{"Try pushing your speed in short bursts"},
		Summary:         "Solid performance!",
	}
}

func TestStoreAppendAndListRoundTrip(t *testing.T) {
	st := openTestStore(t)
	want := sampleRecord(0)
	if err := st.Append(want); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	records, err := st.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID != want.ID || got.WPM != want.WPM || got.Mode != want.Mode {
		t.Fatalf("record mismatch: got %+v", got)
	}
	if !got.EndedAt.Equal(want.EndedAt) {
		t.Fatalf("endedAt mismatch: %v vs %v", got.EndedAt, want.EndedAt)
	}
	if len(got.WPMOverTime) != 2 || got.WPMOverTime[1].WPM != 61 {
		t.Fatalf("wpm series mismatch: %+v", got.WPMOverTime)
	}
	if got.MissedCharacters["e"] != 2 {
		t.Fatalf("missed characters mismatch: %+v", got.MissedCharacters)
	}
	if len(got.KeystrokeLog) != 1 || got.KeystrokeLog[0].Char != "t" {
		t.Fatalf("keystroke log mismatch: %+v", got.KeystrokeLog)
	}
	if got.Persona.Name != "steady" || len(got.Persona.Traits) != 1 {
		t.Fatalf("persona mismatch: %+v", got.Persona)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	st := openTestStore(t)
	for i := 0; i < 3; i++ {
		if err := st.Append(sampleRecord(i)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}
	records, err := st.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if records[0].ID != "session_2" || records[2].ID != "session_0" {
		t.Fatalf("unexpected order: %s .. %s", records[0].ID, records[2].ID)
	}
}

func TestStoreCapEvictsOldest(t *testing.T) {
	st := openTestStore(t)
	for i := 0; i < MaxSessions+5; i++ {
		if err := st.Append(sampleRecord(i)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}
	records, err := st.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(records) != MaxSessions {
		t.Fatalf("expected %d records after eviction, got %d", MaxSessions, len(records))
	}
	if records[len(records)-1].ID != "session_5" {
		t.Fatalf("expected oldest surviving record session_5, got %s", records[len(records)-1].ID)
	}
}

func TestStoreClear(t *testing.T) {
	st := openTestStore(t)
	if err := st.Append(sampleRecord(0)); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	records, err := st.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestStoreSubscribeNotifiesOnAppend(t *testing.T) {
	st := openTestStore(t)
	ch := st.Subscribe()
	if err := st.Append(sampleRecord(0)); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected change notification after append")
	}
}

// Package store handles SQLite persistence of session history.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MaxSessions caps the history; appending past the cap evicts the
// oldest records.
const MaxSessions = 50

// Store wraps SQLite access for session records. Nested result
// structures are kept as JSON columns so the record round-trips
// without a wide relational schema.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs []chan struct{}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			backspaces INTEGER NOT NULL,
			total_characters INTEGER NOT NULL,
			correct_characters INTEGER NOT NULL,
			incorrect_characters INTEGER NOT NULL,
			test_duration INTEGER NOT NULL,
			consistency_score REAL NOT NULL,
			reaction_delay REAL NOT NULL,
			wpm_over_time TEXT NOT NULL,
			error_hotspots TEXT NOT NULL,
			backspace_hotspots TEXT NOT NULL,
			missed_characters TEXT NOT NULL,
			keystroke_log TEXT NOT NULL,
			persona TEXT NOT NULL,
			persona_insights TEXT NOT NULL,
			summary TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores a finalized record, evicting the oldest sessions past
// the cap, and notifies subscribers.
func (s *Store) Append(record model.SessionRecord) error {
	wpmOverTime, err := json.Marshal(record.WPMOverTime)
	if err != nil {
		return fmt.Errorf("encode wpm series: %w", err)
	}
	errorHotspots, err := json.Marshal(record.TopErrorHotspots)
	if err != nil {
		return fmt.Errorf("encode error hotspots: %w", err)
	}
	backspaceHotspots, err := json.Marshal(record.TopBackspaceHotspots)
	if err != nil {
		return fmt.Errorf("encode backspace hotspots: %w", err)
	}
	missed, err := json.Marshal(record.MissedCharacters)
	if err != nil {
		return fmt.Errorf("encode missed characters: %w", err)
	}
	keystrokes, err := json.Marshal(record.KeystrokeLog)
	if err != nil {
		return fmt.Errorf("encode keystroke log: %w", err)
	}
	archetype, err := json.Marshal(record.Persona)
	if err != nil {
		return fmt.Errorf("encode persona: %w", err)
	}
	insights, err := json.Marshal(record.PersonaInsights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, started_at, ended_at, mode, wpm, accuracy, backspaces,
			total_characters, correct_characters, incorrect_characters, test_duration,
			consistency_score, reaction_delay, wpm_over_time, error_hotspots,
			backspace_hotspots, missed_characters, keystroke_log, persona, persona_insights, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.StartedAt.Format(time.RFC3339Nano),
		record.EndedAt.Format(time.RFC3339Nano),
		string(record.Mode),
		record.WPM,
		record.Accuracy,
		record.Backspaces,
		record.TotalCharacters,
		record.CorrectCharacters,
		record.IncorrectCharacters,
		record.TestDuration,
		record.ConsistencyScore,
		record.ReactionDelay,
		string(wpmOverTime),
		string(errorHotspots),
		string(backspaceHotspots),
		string(missed),
		string(keystrokes),
		string(archetype),
		string(insights),
		record.Summary,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY ended_at DESC LIMIT ?
		)`, MaxSessions)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	s.notify()
	return nil
}

// List returns the stored records, newest first.
func (s *Store) List() ([]model.SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, ended_at, mode, wpm, accuracy, backspaces,
			total_characters, correct_characters, incorrect_characters, test_duration,
			consistency_score, reaction_delay, wpm_over_time, error_hotspots,
			backspace_hotspots, missed_characters, keystroke_log, persona, persona_insights, summary
		 FROM sessions ORDER BY ended_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SessionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Clear deletes all stored sessions.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM sessions`); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe returns a channel that receives a signal whenever the
// stored history changes. The channel has capacity 1 and signals
// coalesce; receivers re-read the history on each signal.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func scanRecord(rows *sql.Rows) (model.SessionRecord, error) {
	var record model.SessionRecord
	var startedAt, endedAt, mode string
	var wpmOverTime, errorHotspots, backspaceHotspots, missed, keystrokes, archetype, insights string
	if err := rows.Scan(
		&record.ID, &startedAt, &endedAt, &mode,
		&record.WPM, &record.Accuracy, &record.Backspaces,
		&record.TotalCharacters, &record.CorrectCharacters, &record.IncorrectCharacters,
		&record.TestDuration, &record.ConsistencyScore, &record.ReactionDelay,
		&wpmOverTime, &errorHotspots, &backspaceHotspots, &missed,
		&keystrokes, &archetype, &insights, &record.Summary,
	); err != nil {
		return model.SessionRecord{}, err
	}

	var err error
	if record.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionRecord{}, err
	}
	if record.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.SessionRecord{}, err
	}
	record.Mode = model.Mode(mode)

	if err := json.Unmarshal([]byte(wpmOverTime), &record.WPMOverTime); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode wpm series: %w", err)
	}
	if err := json.Unmarshal([]byte(errorHotspots), &record.TopErrorHotspots); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode error hotspots: %w", err)
	}
	if err := json.Unmarshal([]byte(backspaceHotspots), &record.TopBackspaceHotspots); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode backspace hotspots: %w", err)
	}
	if err := json.Unmarshal([]byte(missed), &record.MissedCharacters); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode missed characters: %w", err)
	}
	if err := json.Unmarshal([]byte(keystrokes), &record.KeystrokeLog); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode keystroke log: %w", err)
	}
	if err := json.Unmarshal([]byte(archetype), &record.Persona); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode persona: %w", err)
	}
	if err := json.Unmarshal([]byte(insights), &record.PersonaInsights); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode insights: %w", err)
	}
	return record, nil
}

package engine

import (
	"testing"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/stats"
)

type recordingStore struct {
	records []model.SessionRecord
}

func (r *recordingStore) Append(record model.SessionRecord) error {
	r.records = append(r.records, record)
	return nil
}

func TestSessionScenarioAllCorrect(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:         model.ModeQuote,
		ExpectedText: "cat",
	}, WithNow(fn.now))
	s.Activate()

	s.HandleCharacter('c')
	s.HandleCharacter('a')
	fn.advance(6 * time.Second)
	s.HandleCharacter('t')

	if !s.Ended() {
		t.Fatalf("expected quote completion to end the session")
	}
	record, ok := s.Record()
	if !ok {
		t.Fatalf("expected a finalized record")
	}
	if record.CorrectCharacters != 3 || record.IncorrectCharacters != 0 {
		t.Fatalf("unexpected counts: correct=%d incorrect=%d",
			record.CorrectCharacters, record.IncorrectCharacters)
	}
	if record.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %.1f", record.Accuracy)
	}
	if record.WPM != 6.0 {
		t.Fatalf("expected 6.0 WPM for 3 chars in 6s, got %.1f", record.WPM)
	}
}

func TestSessionScenarioOneWrong(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:            model.ModeWords,
		TargetWordCount: 1,
		ExpectedText:    "cat",
	}, WithNow(fn.now))
	s.Activate()

	s.HandleCharacter('c')
	s.HandleCharacter('x')
	fn.advance(3 * time.Second)
	s.HandleCharacter('t')

	record, ok := s.Record()
	if !ok {
		t.Fatalf("expected a finalized record")
	}
	if record.TotalCharacters != 3 || record.CorrectCharacters != 2 || record.IncorrectCharacters != 1 {
		t.Fatalf("unexpected counts: total=%d correct=%d incorrect=%d",
			record.TotalCharacters, record.CorrectCharacters, record.IncorrectCharacters)
	}
	if record.Accuracy != 66.7 {
		t.Fatalf("expected accuracy 66.7, got %.1f", record.Accuracy)
	}
}

func TestSessionWordsCompletionWithoutTrailingSpace(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:            model.ModeWords,
		TargetWordCount: 2,
		ExpectedText:    "cat dog",
	}, WithNow(fn.now))
	s.Activate()

	for _, r := range "cat do" {
		s.HandleCharacter(r)
	}
	if s.Ended() {
		t.Fatalf("session ended before the final character")
	}
	s.HandleCharacter('g')
	if !s.Ended() {
		t.Fatalf("expected completion the instant the final character committed")
	}
}

func TestSessionDecliningPaceLowersConsistency(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{Mode: model.ModeZen}, WithNow(fn.now))
	s.Activate()

	// 5 correct chars per second for the first 5 seconds, then nothing.
	for sec := 0; sec < 5; sec++ {
		for i := 0; i < 5; i++ {
			s.HandleCharacter('a')
		}
		fn.advance(time.Second)
	}
	fn.advance(5 * time.Second)
	s.End()

	record, ok := s.Record()
	if !ok {
		t.Fatalf("expected a finalized record")
	}
	series := record.WPMOverTime
	if len(series) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(series))
	}
	if series[len(series)-1].WPM >= series[4].WPM {
		t.Fatalf("expected declining curve, got first-half %.1f, last %.1f",
			series[4].WPM, series[len(series)-1].WPM)
	}

	// An even pace with the same total scores steadier.
	declining := make([]float64, len(series))
	for i, sample := range series {
		declining[i] = sample.WPM
	}
	even := make([]float64, 10)
	for i := range even {
		even[i] = stats.WPM(25*(i+1)/10, float64(i+1))
	}
	if stats.ConsistencyScore(declining) >= stats.ConsistencyScore(even) {
		t.Fatalf("expected declining pace to score below even pace")
	}
}

func TestSessionZeroKeystrokeBoundary(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:           model.ModeTime,
		TargetDuration: 30,
	}, WithNow(fn.now))
	s.Activate()
	fn.advance(5 * time.Second)
	s.End()

	record, ok := s.Record()
	if !ok {
		t.Fatalf("expected a finalized record")
	}
	if record.WPM != 0 || record.Accuracy != 0 {
		t.Fatalf("expected zero wpm and accuracy, got %.1f / %.1f", record.WPM, record.Accuracy)
	}
	if record.ConsistencyScore != 50 {
		t.Fatalf("expected neutral consistency 50, got %.1f", record.ConsistencyScore)
	}
	if record.ReactionDelay != 0 {
		t.Fatalf("expected zero reaction delay, got %.1f", record.ReactionDelay)
	}
}

func TestSessionEndIsOneShot(t *testing.T) {
	fn := newFakeNow()
	rs := &recordingStore{}
	s := NewSession(model.SessionConfig{
		Mode:         model.ModeQuote,
		ExpectedText: "hi",
	}, WithNow(fn.now), WithStore(rs))
	s.Activate()
	s.HandleCharacter('h')
	s.HandleCharacter('i')
	s.End()
	s.End()

	if len(rs.records) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(rs.records))
	}
	record, _ := s.Record()
	if record.ID != rs.records[0].ID {
		t.Fatalf("stored record differs from session record")
	}
}

func TestSessionInputIgnoredAfterEnd(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:         model.ModeQuote,
		ExpectedText: "a",
	}, WithNow(fn.now))
	s.Activate()
	s.HandleCharacter('a')
	if !s.Ended() {
		t.Fatalf("expected session ended")
	}
	s.HandleCharacter('b')
	s.HandleBackspace()

	record, _ := s.Record()
	if record.TotalCharacters != 1 || record.Backspaces != 0 {
		t.Fatalf("late input leaked into the record: total=%d backspaces=%d",
			record.TotalCharacters, record.Backspaces)
	}
}

func TestSessionInputIgnoredBeforeActivate(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:         model.ModeQuote,
		ExpectedText: "ab",
	}, WithNow(fn.now))
	s.HandleCharacter('a')
	s.Activate()
	s.HandleCharacter('a')
	s.End()

	record, _ := s.Record()
	if record.TotalCharacters != 1 {
		t.Fatalf("expected pre-activation input dropped, got total=%d", record.TotalCharacters)
	}
}

func TestSessionClockExpiryEndsTimeMode(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:           model.ModeTime,
		TargetDuration: 2,
		ExpectedText:   "some text to type here",
	}, WithNow(fn.now))
	s.Activate()
	s.HandleCharacter('s')
	fn.advance(3 * time.Second)
	s.CheckClock()

	if !s.Ended() {
		t.Fatalf("expected clock expiry to end the session")
	}
	record, _ := s.Record()
	if record.TestDuration != 3 {
		t.Fatalf("expected 3s duration, got %d", record.TestDuration)
	}
}

func TestSessionCountdownDoesNotCount(t *testing.T) {
	fn := newFakeNow()
	s := NewSession(model.SessionConfig{
		Mode:           model.ModeTime,
		TargetDuration: 30,
		ExpectedText:   "abc",
	}, WithNow(fn.now))
	s.Activate()

	// The user idles 5 seconds after activation before the first key.
	fn.advance(5 * time.Second)
	s.HandleCharacter('a')
	fn.advance(2 * time.Second)
	s.End()

	record, _ := s.Record()
	if record.TestDuration != 2 {
		t.Fatalf("expected elapsed anchored on first keystroke, got %d", record.TestDuration)
	}
	if record.ReactionDelay != 5 {
		t.Fatalf("expected 5s reaction delay, got %.1f", record.ReactionDelay)
	}
}

func TestSessionPersonaIsDeterministic(t *testing.T) {
	run := func() model.SessionRecord {
		fn := newFakeNow()
		s := NewSession(model.SessionConfig{
			Mode:         model.ModeQuote,
			ExpectedText: "hello world",
		}, WithNow(fn.now))
		s.Activate()
		for _, r := range "hello world" {
			s.HandleCharacter(r)
			fn.advance(200 * time.Millisecond)
		}
		record, ok := s.Record()
		if !ok {
			t.Fatalf("expected a finalized record")
		}
		return record
	}
	first := run()
	second := run()
	if first.Persona.Name != second.Persona.Name {
		t.Fatalf("persona not deterministic: %s vs %s", first.Persona.Name, second.Persona.Name)
	}
	if first.Summary != second.Summary {
		t.Fatalf("summary not deterministic")
	}
}

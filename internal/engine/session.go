package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/persona"
	"github.com/RohanGottipati/typeflow/internal/stats"
)

// Appender receives finalized session records.
type Appender interface {
	Append(record model.SessionRecord) error
}

// Session owns one run of the engine: a processor and a clock, a
// lifecycle, and a one-shot finalization. It is safe for the clock
// expiry goroutine and the input handler to race on End.
type Session struct {
	mu sync.Mutex

	cfg   model.SessionConfig
	clock *Clock
	proc  *Processor
	store Appender
	now   func() time.Time

	active      bool
	activatedAt time.Time
	ended       bool
	record      *model.SessionRecord
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStore sets the store the finalized record is appended to.
func WithStore(store Appender) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithNow sets the time source, for tests.
func WithNow(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
		s.clock = NewClockWithNow(now)
	}
}

// NewSession builds a fresh session for the configuration. Restarting a
// test means discarding the old session and constructing a new one;
// nothing carries over.
func NewSession(cfg model.SessionConfig, opts ...SessionOption) *Session {
	s := &Session{
		cfg:   cfg,
		now:   time.Now,
		clock: NewClock(),
		proc:  NewProcessor(cfg.ExpectedText, cfg.Mode == model.ModeZen),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.TimeBoxed() && cfg.TargetDuration > 0 {
		s.clock.SetDeadline(cfg.TargetDuration, func() { s.End() })
	}
	return s
}

// Activate opens the session for input. For time-boxed modes the caller
// runs the 3-2-1 countdown first; countdown time never counts toward
// elapsed time because the clock starts on the first keystroke.
func (s *Session) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active || s.ended {
		return
	}
	s.active = true
	s.activatedAt = s.now()
}

// HandleCharacter processes one character-input event. Events arriving
// before activation or after the session has ended are silent no-ops.
func (s *Session) HandleCharacter(r rune) {
	s.mu.Lock()
	if !s.active || s.ended || s.proc.Composing() {
		s.mu.Unlock()
		return
	}
	if !s.clock.Started() {
		s.clock.Start()
	}
	s.proc.CharacterInput(r, s.elapsedSecondsLocked())
	done := shouldEnd(s.cfg, s.proc)
	s.mu.Unlock()
	if done {
		s.End()
	}
}

// HandleBackspace processes one backspace event.
func (s *Session) HandleBackspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.ended || !s.clock.Started() {
		return
	}
	s.proc.Backspace(s.elapsedSecondsLocked())
}

// HandleCompositionStart suspends scoring for IME composition.
func (s *Session) HandleCompositionStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.ended {
		return
	}
	s.proc.CompositionStart()
}

// HandleCompositionEnd resumes scoring.
func (s *Session) HandleCompositionEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.ended {
		return
	}
	s.proc.CompositionEnd()
}

// CheckClock evaluates the deadline; the UI calls this from its own tick
// so expiry does not depend solely on the clock goroutine.
func (s *Session) CheckClock() {
	s.clock.CheckExpiry()
}

// End finalizes the session exactly once. Clock expiry, completion
// detection, and manual stop all converge here; every call after the
// first is a no-op.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.clock.Stop()
	record := s.finalizeLocked()
	s.record = &record
	if s.store != nil {
		if err := s.store.Append(record); err != nil {
			// A failed history write must not block the result display.
			fmt.Fprintf(os.Stderr, "failed to save session: %v\n", err)
		}
	}
}

// Ended reports whether the session has been finalized.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Record returns the finalized record, if the session has ended.
func (s *Session) Record() (model.SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return model.SessionRecord{}, false
	}
	return *s.record, true
}

// LiveStats is a snapshot of in-flight metrics for display.
type LiveStats struct {
	WPM            float64
	Accuracy       float64
	ElapsedSeconds int
	Cursor         int
	ExpectedLen    int
	Backspaces     int
}

// Live returns the current metrics snapshot.
func (s *Session) Live() LiveStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := s.clock.Elapsed().Seconds()
	return LiveStats{
		WPM:            stats.Round1(stats.WPM(s.proc.CorrectChars(), elapsed)),
		Accuracy:       stats.Round1(stats.Accuracy(s.proc.CorrectChars(), s.proc.TotalChars())),
		ElapsedSeconds: int(elapsed),
		Cursor:         s.proc.Cursor(),
		ExpectedLen:    s.proc.ExpectedLen(),
		Backspaces:     s.proc.Backspaces(),
	}
}

// Processor exposes the underlying processor for rendering the ledger.
func (s *Session) Processor() *Processor { return s.proc }

// Config returns the immutable session configuration.
func (s *Session) Config() model.SessionConfig { return s.cfg }

func (s *Session) elapsedSecondsLocked() float64 {
	return s.clock.Elapsed().Seconds()
}

func (s *Session) finalizeLocked() model.SessionRecord {
	endedAt := s.now()
	startedAt := s.clock.StartedAt()
	if startedAt.IsZero() {
		// No keystroke ever arrived; anchor on activation.
		startedAt = s.activatedAt
		if startedAt.IsZero() {
			startedAt = endedAt
		}
	}
	elapsedSeconds := int(endedAt.Sub(startedAt) / time.Second)
	if elapsedSeconds < 1 {
		elapsedSeconds = 1
	}

	correct := s.proc.CorrectChars()
	total := s.proc.TotalChars()
	wpm := stats.Round1(stats.WPM(correct, float64(elapsedSeconds)))
	accuracy := stats.Round1(stats.Accuracy(correct, total))

	series := buildWPMSeries(s.proc, correct, elapsedSeconds)
	wpmValues := make([]float64, len(series))
	for i, sample := range series {
		wpmValues[i] = sample.WPM
	}
	consistency := stats.Round1(stats.ConsistencyScore(wpmValues))

	reactionDelay := 0.0
	if s.clock.Started() && !s.activatedAt.IsZero() {
		reactionDelay = s.clock.StartedAt().Sub(s.activatedAt).Seconds()
		if reactionDelay < 0 || math.IsNaN(reactionDelay) {
			reactionDelay = 0
		}
	}

	errorHotspots := stats.TopHotspots(errorsBySecond(s.proc.Log()), 5)
	backspaceHotspots := stats.TopHotspots(s.proc.BackspacesBySecond(), 5)

	analysis := persona.Analysis{
		WPM:              wpm,
		Accuracy:         accuracy,
		ConsistencyScore: consistency,
		Backspaces:       s.proc.Backspaces(),
		ReactionDelay:    reactionDelay,
		WPMOverTime:      wpmValues,
	}
	archetype := persona.Classify(analysis)
	insights := persona.Insights(archetype, analysis)
	summary := persona.Summary(analysis)

	return model.SessionRecord{
		ID:                   newRecordID(endedAt),
		StartedAt:            startedAt,
		EndedAt:              endedAt,
		Mode:                 s.cfg.Mode,
		WPM:                  wpm,
		Accuracy:             accuracy,
		Backspaces:           s.proc.Backspaces(),
		TotalCharacters:      total,
		CorrectCharacters:    correct,
		IncorrectCharacters:  s.proc.IncorrectChars(),
		TestDuration:         elapsedSeconds,
		WPMOverTime:          series,
		ConsistencyScore:     consistency,
		ReactionDelay:        stats.Round1(reactionDelay),
		TopErrorHotspots:     errorHotspots,
		TopBackspaceHotspots: backspaceHotspots,
		MissedCharacters:     copyCounts(s.proc.MissedCharacters()),
		KeystrokeLog:         append([]model.Keystroke(nil), s.proc.Log()...),
		Persona:              archetype,
		PersonaInsights:      insights,
		Summary:              summary,
	}
}

// buildWPMSeries derives the WPM-over-time curve from the per-second
// ledger. Gaps carry the cumulative count forward; second 0 is excluded;
// the final partial second gets a point with the session-final count.
func buildWPMSeries(p *Processor, finalCorrect, elapsedSeconds int) []model.WPMSample {
	perSecond, maxSecond := p.CumulativeCorrectBySecond()
	last := maxSecond
	if elapsedSeconds > last {
		last = elapsedSeconds
	}
	series := make([]model.WPMSample, 0, last)
	cumulative := 0
	if v, ok := perSecond[0]; ok {
		cumulative = v
	}
	for second := 1; second <= last; second++ {
		if v, ok := perSecond[second]; ok {
			cumulative = v
		}
		if second == last {
			cumulative = finalCorrect
		}
		wpm := stats.Round1(stats.WPM(cumulative, float64(second)))
		series = append(series, model.WPMSample{Second: second, WPM: wpm})
	}
	return series
}

func errorsBySecond(log []model.Keystroke) map[int]int {
	buckets := map[int]int{}
	for _, k := range log {
		if k.Correct {
			continue
		}
		buckets[int(math.Floor(k.Seconds))]++
	}
	return buckets
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func newRecordID(at time.Time) string {
	return fmt.Sprintf("session_%d_%08x", at.UnixMilli(), rand.Uint32())
}

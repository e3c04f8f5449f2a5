package engine

import (
	"math"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// Processor is the keystroke state machine. Every update is O(1) in the
// length of the expected text. It has no timers of its own; callers pass
// the elapsed seconds read from the session clock.
type Processor struct {
	expected []rune
	ledger   []model.CharState
	typed    []rune
	cursor   int
	extra    int // characters typed past the end of the expected text
	zen      bool

	totalChars     int
	correctChars   int
	incorrectChars int
	backspaces     int

	perSecond          map[int]int // second -> cumulative correct at that boundary
	maxSecond          int
	backspacesBySecond map[int]int
	log                []model.Keystroke
	missed             map[string]int

	composing  bool
	firstKeyAt float64
	hasFirst   bool
}

// NewProcessor builds a processor for the expected text. In zen mode the
// expected text is empty and every committed character counts as correct.
func NewProcessor(expectedText string, zen bool) *Processor {
	expected := []rune(expectedText)
	return &Processor{
		expected:           expected,
		ledger:             make([]model.CharState, len(expected)),
		typed:              make([]rune, len(expected)),
		zen:                zen,
		perSecond:          map[int]int{},
		backspacesBySecond: map[int]int{},
		missed:             map[string]int{},
	}
}

// CharacterInput commits one typed character at the given elapsed time.
// The cursor always advances; a wrong keystroke never blocks progress.
// Input during composition is dropped.
func (p *Processor) CharacterInput(r rune, elapsedSeconds float64) {
	if p.composing {
		return
	}
	if !p.hasFirst {
		p.hasFirst = true
		p.firstKeyAt = elapsedSeconds
	}

	if p.zen {
		p.expected = append(p.expected, r)
		p.ledger = append(p.ledger, model.CharCorrect)
		p.typed = append(p.typed, r)
		p.cursor++
		p.correctChars++
		p.totalChars++
		p.appendLog(r, r, true, p.cursor-1, elapsedSeconds)
		p.recordSecond(elapsedSeconds)
		return
	}

	if p.cursor >= len(p.expected) {
		// Past the end of the text: counted as an incorrect attempt,
		// logged, but no ledger position exists to mark.
		p.extra++
		p.incorrectChars++
		p.totalChars++
		p.appendLog(r, 0, false, len(p.expected)+p.extra-1, elapsedSeconds)
		p.recordSecond(elapsedSeconds)
		return
	}

	pos := p.cursor
	expected := p.expected[pos]
	correct := r == expected
	p.typed[pos] = r
	p.cursor++
	if correct {
		p.ledger[pos] = model.CharCorrect
		p.correctChars++
	} else {
		p.ledger[pos] = model.CharIncorrect
		p.incorrectChars++
		p.missed[string(expected)]++
	}
	p.totalChars++
	p.appendLog(r, expected, correct, pos, elapsedSeconds)
	p.recordSecond(elapsedSeconds)
}

// Backspace reverts one committed character. It always counts the
// attempt, even with nothing left to revert. The keystroke log is never
// rewound.
func (p *Processor) Backspace(elapsedSeconds float64) {
	if p.composing {
		return
	}
	p.backspaces++
	second := int(math.Floor(elapsedSeconds))
	if second >= 0 {
		p.backspacesBySecond[second]++
	}

	if p.extra > 0 {
		p.extra--
		p.incorrectChars--
		p.totalChars--
		return
	}
	if p.cursor == 0 {
		return
	}
	p.cursor--
	prior := p.ledger[p.cursor]
	if p.zen {
		p.expected = p.expected[:p.cursor]
		p.ledger = p.ledger[:p.cursor]
		p.typed = p.typed[:p.cursor]
	} else {
		p.ledger[p.cursor] = model.CharPending
		p.typed[p.cursor] = 0
	}
	switch prior {
	case model.CharCorrect:
		p.correctChars--
	case model.CharIncorrect:
		p.incorrectChars--
	}
	p.totalChars--
}

// CompositionStart suspends scoring until CompositionEnd.
func (p *Processor) CompositionStart() { p.composing = true }

// CompositionEnd resumes scoring. Events dropped during composition are
// not replayed.
func (p *Processor) CompositionEnd() { p.composing = false }

// Composing reports whether an IME composition is in progress.
func (p *Processor) Composing() bool { return p.composing }

func (p *Processor) appendLog(r, expected rune, correct bool, pos int, elapsedSeconds float64) {
	exp := ""
	if expected != 0 {
		exp = string(expected)
	}
	p.log = append(p.log, model.Keystroke{
		Seconds:  elapsedSeconds,
		Char:     string(r),
		Expected: exp,
		Correct:  correct,
		Position: pos,
	})
}

func (p *Processor) recordSecond(elapsedSeconds float64) {
	second := int(math.Floor(elapsedSeconds))
	if second < 0 {
		second = 0
	}
	p.perSecond[second] = p.correctChars
	if second > p.maxSecond {
		p.maxSecond = second
	}
}

// Cursor returns the current character offset.
func (p *Processor) Cursor() int { return p.cursor }

// ExpectedLen returns the length of the expected text in runes.
func (p *Processor) ExpectedLen() int { return len(p.expected) }

// ExpectedRune returns the expected rune at a position, 0 if out of range.
func (p *Processor) ExpectedRune(i int) rune {
	if i < 0 || i >= len(p.expected) {
		return 0
	}
	return p.expected[i]
}

// Extra returns the count of characters typed past the end of the text.
func (p *Processor) Extra() int { return p.extra }

// TotalChars returns the count of committed characters.
func (p *Processor) TotalChars() int { return p.totalChars }

// CorrectChars returns the count of correctly typed characters.
func (p *Processor) CorrectChars() int { return p.correctChars }

// IncorrectChars returns the count of incorrectly typed characters.
func (p *Processor) IncorrectChars() int { return p.incorrectChars }

// Backspaces returns the count of backspace attempts.
func (p *Processor) Backspaces() int { return p.backspaces }

// FirstKeystrokeAt returns the elapsed time of the first committed
// keystroke and whether one occurred.
func (p *Processor) FirstKeystrokeAt() (float64, bool) {
	return p.firstKeyAt, p.hasFirst
}

// State returns the ledger entry at the given offset.
func (p *Processor) State(i int) model.CharState {
	if i < 0 || i >= len(p.ledger) {
		return model.CharPending
	}
	return p.ledger[i]
}

// TypedAt returns the typed rune at a position, 0 if pending.
func (p *Processor) TypedAt(i int) rune {
	if i < 0 || i >= len(p.typed) {
		return 0
	}
	return p.typed[i]
}

// Log returns the append-only keystroke log.
func (p *Processor) Log() []model.Keystroke { return p.log }

// MissedCharacters returns expected-character miss counts.
func (p *Processor) MissedCharacters() map[string]int { return p.missed }

// BackspacesBySecond returns backspace counts bucketed by elapsed second.
func (p *Processor) BackspacesBySecond() map[int]int { return p.backspacesBySecond }

// CumulativeCorrectBySecond returns the sparse per-second ledger of
// cumulative correct counts at each recorded second boundary.
func (p *Processor) CumulativeCorrectBySecond() (map[int]int, int) {
	return p.perSecond, p.maxSecond
}

// Package model defines shared data structures.
package model

import "time"

// Mode selects how a session is bounded.
type Mode string

// Session modes.
const (
	ModeTime   Mode = "time"
	ModeWords  Mode = "words"
	ModeQuote  Mode = "quote"
	ModeZen    Mode = "zen"
	ModeCustom Mode = "custom"
)

// Valid reports whether the mode is one of the known session modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeTime, ModeWords, ModeQuote, ModeZen, ModeCustom:
		return true
	}
	return false
}

// SessionConfig is immutable for the lifetime of a session once started.
type SessionConfig struct {
	Mode               Mode
	TargetDuration     int // seconds, time/custom
	TargetWordCount    int // words/custom
	ExpectedText       string
	Author             string // quote mode attribution
	IncludeNumbers     bool
	IncludePunctuation bool
	CustomUseTime      bool
	CustomUseWords     bool
}

// TimeBoxed reports whether the session ends on clock expiry.
func (c SessionConfig) TimeBoxed() bool {
	if c.Mode == ModeTime {
		return true
	}
	return c.Mode == ModeCustom && c.CustomUseTime
}

// CharState is a position ledger entry.
type CharState int

// Position ledger entry states.
const (
	CharPending CharState = iota
	CharCorrect
	CharIncorrect
)

// Keystroke is one committed character input. Backspaces never remove
// entries; the log is a durable history of attempts.
type Keystroke struct {
	Seconds  float64 `json:"seconds"`
	Char     string  `json:"char"`
	Expected string  `json:"expected"`
	Correct  bool    `json:"correct"`
	Position int     `json:"position"`
}

// Hotspot is an elapsed-second bucket with an elevated event count.
type Hotspot struct {
	Second int `json:"second"`
	Count  int `json:"count"`
}

// WPMSample is one point of the WPM-over-time series.
type WPMSample struct {
	Second int     `json:"second"`
	WPM    float64 `json:"wpm"`
}

// Persona is a fixed behavioral archetype with canned traits.
type Persona struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Traits      []string `json:"traits"`
}

// SessionRecord is the finalized, immutable result of one session.
type SessionRecord struct {
	ID                   string         `json:"id"`
	StartedAt            time.Time      `json:"startedAt"`
	EndedAt              time.Time      `json:"endedAt"`
	Mode                 Mode           `json:"mode"`
	WPM                  float64        `json:"wpm"`
	Accuracy             float64        `json:"accuracy"`
	Backspaces           int            `json:"backspaces"`
	TotalCharacters      int            `json:"totalCharacters"`
	CorrectCharacters    int            `json:"correctCharacters"`
	IncorrectCharacters  int            `json:"incorrectCharacters"`
	TestDuration         int            `json:"testDuration"` // seconds
	WPMOverTime          []WPMSample    `json:"wpmOverTime"`
	ConsistencyScore     float64        `json:"consistencyScore"`
	ReactionDelay        float64        `json:"reactionDelay"` // seconds
	TopErrorHotspots     []Hotspot      `json:"topErrorHotspots"`
	TopBackspaceHotspots []Hotspot      `json:"topBackspaceHotspots"`
	MissedCharacters     map[string]int `json:"missedCharacters"`
	KeystrokeLog         []Keystroke    `json:"keystrokeLog"`
	Persona              Persona        `json:"persona"`
	PersonaInsights      []string       `json:"personaInsights"`
	Summary              string         `json:"summary"`
}

// Prediction is the output of the next-session WPM regressor.
type Prediction struct {
	PredictedWPM float64   `json:"predictedWPM"`
	Confidence   float64   `json:"confidence"`
	SessionCount int       `json:"sessionCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

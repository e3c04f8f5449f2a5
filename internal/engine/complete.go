package engine

import (
	"unicode"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// shouldEnd decides whether the session has reached its natural end.
// Time-boxed sessions end only via clock expiry; zen only via manual
// stop. Invoked after every accepted keystroke.
func shouldEnd(cfg model.SessionConfig, p *Processor) bool {
	switch cfg.Mode {
	case model.ModeTime, model.ModeZen:
		return false
	case model.ModeWords:
		return p.Cursor() >= wordEndOffset(cfg.ExpectedText, cfg.TargetWordCount)
	case model.ModeQuote:
		return p.Cursor() >= p.ExpectedLen()
	case model.ModeCustom:
		if cfg.CustomUseWords {
			return p.Cursor() >= wordEndOffset(cfg.ExpectedText, cfg.TargetWordCount)
		}
		return false
	}
	return false
}

// wordEndOffset returns the rune offset one past the last character of
// the nth word, so completion fires the instant the final character is
// committed without requiring the trailing space. If the text holds
// fewer than n words, the full text length is returned.
func wordEndOffset(text string, n int) int {
	runes := []rune(text)
	if n <= 0 {
		return len(runes)
	}
	words := 0
	inWord := false
	for i, r := range runes {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
		}
		if words == n {
			// Scan to the end of this word.
			for j := i; j < len(runes); j++ {
				if unicode.IsSpace(runes[j]) {
					return j
				}
			}
			return len(runes)
		}
	}
	return len(runes)
}

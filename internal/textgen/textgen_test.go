package textgen

import (
	"strings"
	"testing"
	"unicode"
)

func TestGenerateExactWordCount(t *testing.T) {
	g := NewWithSeed(1)
	for _, target := range []int{5, 25, 80} {
		text := g.Generate(Options{TargetWordCount: target})
		if got := len(strings.Fields(text)); got != target {
			t.Fatalf("expected %d words, got %d: %q", target, got, text)
		}
	}
}

func TestGenerateIsSeedDeterministic(t *testing.T) {
	a := NewWithSeed(42).Generate(Options{TargetWordCount: 30, IncludeNumbers: true})
	b := NewWithSeed(42).Generate(Options{TargetWordCount: 30, IncludeNumbers: true})
	if a != b {
		t.Fatalf("same seed produced different text")
	}
}

func TestGenerateWithNumbers(t *testing.T) {
	text := NewWithSeed(7).Generate(Options{TargetWordCount: 40, IncludeNumbers: true})
	hasDigit := false
	for _, r := range text {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		t.Fatalf("expected digits in generated text: %q", text)
	}
}

func TestGenerateWithoutPunctuationStaysClean(t *testing.T) {
	text := NewWithSeed(3).Generate(Options{TargetWordCount: 40})
	for _, r := range text {
		if strings.ContainsRune(".,!?;:", r) {
			t.Fatalf("unexpected punctuation in plain text: %q", text)
		}
	}
}

func TestGenerateWithPunctuationAddsTerminals(t *testing.T) {
	text := NewWithSeed(3).Generate(Options{TargetWordCount: 40, IncludePunctuation: true})
	if !strings.ContainsAny(text, ".!?") {
		t.Fatalf("expected terminal punctuation: %q", text)
	}
}

func TestRandomQuoteHasAttribution(t *testing.T) {
	q := NewWithSeed(1).RandomQuote()
	if q.Text == "" || q.Author == "" {
		t.Fatalf("expected text and author, got %+v", q)
	}
}

func TestProcessCustomTextStripsPerFlags(t *testing.T) {
	in := "Hello, world! 42 times."
	got := ProcessCustomText(in, false, false)
	if strings.ContainsAny(got, ".,!") || strings.ContainsAny(got, "0123456789") {
		t.Fatalf("expected numbers and punctuation stripped, got %q", got)
	}

	kept := ProcessCustomText(in, true, true)
	if !strings.Contains(kept, "42") || !strings.Contains(kept, "!") {
		t.Fatalf("expected numbers and punctuation kept, got %q", kept)
	}
}

func TestProcessCustomTextFallsBack(t *testing.T) {
	if got := ProcessCustomText("12 34!", false, false); got != FallbackText {
		t.Fatalf("expected fallback text, got %q", got)
	}
}

func TestProcessCustomTextCollapsesWhitespace(t *testing.T) {
	got := ProcessCustomText("one\n\ntwo   three", true, true)
	if got != "one two three" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
}

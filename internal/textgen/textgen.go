// Package textgen builds typing text for a session.
package textgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// FallbackText is used whenever generation yields nothing, so a session
// can always start.
const FallbackText = "The quick brown fox jumps over the lazy dog"

// Options control text generation.
type Options struct {
	IncludeNumbers     bool
	IncludePunctuation bool
	TargetWordCount    int
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed, for tests.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

var sentenceBank = []string{
	"the quick brown fox jumps over the lazy dog",
	"programming is the art of telling another human being what one wants the computer to do",
	"success is not final failure is not fatal it is the courage to continue that counts",
	"the only way to do great work is to love what you do",
	"innovation distinguishes between a leader and a follower",
	"life is what happens when you are busy making other plans",
	"the future belongs to those who believe in the beauty of their dreams",
	"education is the most powerful weapon which you can use to change the world",
	"the best way to predict the future is to invent it",
	"simplicity is the ultimate sophistication",
	"quality is not an act it is a habit",
	"the journey of a thousand miles begins with one step",
	"knowledge is power but enthusiasm pulls the switch",
	"creativity is intelligence having fun",
	"technology continues to evolve rapidly",
	"the project was completed successfully with team collaboration",
	"the company experienced significant growth over the years",
	"the recipe calls for flour sugar and eggs",
	"we processed many requests efficiently",
	"there are many days left until the deadline",
	"the building has multiple floors and elevators",
}

type numberPattern struct {
	template string
	items    []string
}

var numberPatterns = []numberPattern{
	{template: "there were {num} {item} today", items: []string{"goals", "files", "messages", "tasks", "projects", "meetings"}},
	{template: "we finished {num} {item} in {num} minutes", items: []string{"levels", "chapters", "sections", "rounds", "games"}},
	{template: "i saved {num} files and deleted {num}"},
	{template: "the team won {num} to {num}"},
	{template: "room {num} is on floor {num}"},
	{template: "prices jumped from {num} to {num} dollars"},
	{template: "the project took {num} months with {num} people"},
	{template: "she scored {num} percent on the test"},
	{template: "the company grew from {num} to {num} employees"},
	{template: "we processed {num} requests in {num} seconds"},
	{template: "the game lasted {num} hours and {num} minutes"},
	{template: "there are {num} days left until the deadline"},
	{template: "the building has {num} floors and {num} elevators"},
}

// Generate produces typing text honoring the options. The result is a
// single space-delimited string trimmed to the target word count when
// one is set.
func (g *Generator) Generate(opts Options) string {
	target := opts.TargetWordCount
	if target <= 0 {
		target = 25
	}

	var words []string
	for i := 0; len(words) < target; i++ {
		var sentence string
		if opts.IncludeNumbers && i%3 == 0 {
			sentence = g.numberSentence()
		} else {
			sentence = sentenceBank[g.rnd.Intn(len(sentenceBank))]
		}
		words = append(words, strings.Fields(sentence)...)
	}
	words = words[:target]

	text := strings.Join(words, " ")
	if opts.IncludePunctuation {
		text = g.addPunctuation(text)
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		text = FallbackText
	}
	return text
}

func (g *Generator) numberSentence() string {
	pattern := numberPatterns[g.rnd.Intn(len(numberPatterns))]
	text := pattern.template
	for strings.Contains(text, "{num}") {
		text = strings.Replace(text, "{num}", g.number(), 1)
	}
	if strings.Contains(text, "{item}") && len(pattern.items) > 0 {
		item := pattern.items[g.rnd.Intn(len(pattern.items))]
		text = strings.Replace(text, "{item}", item, 1)
	}
	return text
}

func (g *Generator) number() string {
	switch g.rnd.Intn(5) {
	case 0:
		return fmt.Sprintf("%d", g.rnd.Intn(100)+1)
	case 1:
		return fmt.Sprintf("%d", g.rnd.Intn(20)+1)
	case 2:
		return fmt.Sprintf("%.1f", g.rnd.Float64()*10+1)
	case 3:
		return fmt.Sprintf("%d", g.rnd.Intn(10)+2020)
	default:
		return fmt.Sprintf("%d%d%d", g.rnd.Intn(9)+1, g.rnd.Intn(10), g.rnd.Intn(10))
	}
}

// addPunctuation capitalizes sentence-length runs of words and closes
// them with terminal punctuation, occasionally inserting a comma.
func (g *Generator) addPunctuation(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	terminals := []string{".", ".", ".", "!", "?"}
	var out []string
	sentenceLen := 0
	startOfSentence := true
	for i, word := range words {
		if startOfSentence {
			word = capitalize(word)
			startOfSentence = false
		}
		sentenceLen++
		last := i == len(words)-1
		if sentenceLen >= 6+g.rnd.Intn(6) || last {
			word += terminals[g.rnd.Intn(len(terminals))]
			sentenceLen = 0
			startOfSentence = true
		} else if sentenceLen > 3 && g.rnd.Float64() < 0.1 {
			word += ","
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ProcessCustomText normalizes user-provided text for custom mode,
// stripping numbers and punctuation per the flags.
func ProcessCustomText(text string, includeNumbers, includePunctuation bool) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case !includePunctuation && isPunct(r):
			continue
		case !includeNumbers && unicode.IsDigit(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" {
		return FallbackText
	}
	return out
}

func isPunct(r rune) bool {
	return strings.ContainsRune(`.,!?;:'"()`, r)
}

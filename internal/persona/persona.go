// Package persona classifies finalized session metrics into behavioral
// archetypes with canned insight strings. The decision table is fully
// deterministic: the same inputs always produce the same output.
package persona

import (
	"math"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// Analysis carries the finalized metrics the classifier reads.
type Analysis struct {
	WPM              float64
	Accuracy         float64
	ConsistencyScore float64
	Backspaces       int
	ReactionDelay    float64
	WPMOverTime      []float64
}

var personas = map[string]model.Persona{
	"sprinter": {
		Name:        "sprinter",
		Title:       "The Sprinter",
		Description: "Blazing fast off the line. You start typing immediately and push speed from the first second.",
		Traits:      []string{"Fast Start", "High Initial Speed", "Variable Accuracy", "Speed Over Precision"},
	},
	"perfectionist": {
		Name:        "perfectionist",
		Title:       "The Perfectionist",
		Description: "Methodical and precise. You prioritize accuracy over raw speed, making very few mistakes.",
		Traits:      []string{"High Accuracy", "Few Backspaces", "Steady Pace", "Quality Focus"},
	},
	"recoverer": {
		Name:        "recoverer",
		Title:       "The Recoverer",
		Description: "Like a fine wine, you get better with time. Your speed improves as you warm up.",
		Traits:      []string{"Improving Speed", "Learning Pattern", "Strong Finish", "Adaptable"},
	},
	"hacker": {
		Name:        "hacker",
		Title:       "The Hacker",
		Description: "Fast and furious. You type rapidly, make quick corrections, and keep pushing forward.",
		Traits:      []string{"Quick Corrections", "High WPM", "Aggressive Style", "Recovery Speed"},
	},
	"steady": {
		Name:        "steady",
		Title:       "The Steady Hand",
		Description: "Consistent and reliable. You maintain a stable pace with good accuracy throughout.",
		Traits:      []string{"High Consistency", "Balanced Speed", "Stable Performance", "Reliable Pace"},
	},
	"tactician": {
		Name:        "tactician",
		Title:       "The Tactician",
		Description: "Strategic and methodical. You carefully plan each keystroke and learn from mistakes.",
		Traits:      []string{"Calculated Pace", "Strategic Pauses", "Learning Mindset", "Thoughtful Approach"},
	},
}

// ImprovementRatio compares the mean WPM of the last quarter of samples
// against the first quarter. Empty quarters fall back to 1.
func ImprovementRatio(wpmOverTime []float64) float64 {
	quarter := len(wpmOverTime) / 4
	if quarter == 0 {
		return 1
	}
	first := mean(wpmOverTime[:quarter])
	last := mean(wpmOverTime[len(wpmOverTime)-quarter:])
	if first <= 0 {
		return 1
	}
	ratio := last / first
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 1
	}
	return ratio
}

// BackspaceRatio is backspaces per word of output, guarded against zero WPM.
func BackspaceRatio(backspaces int, wpm float64) float64 {
	if wpm <= 0 {
		return 0
	}
	return float64(backspaces) / (wpm * 5)
}

// Classify applies the ordered archetype rules; the first match wins.
func Classify(a Analysis) model.Persona {
	improvement := ImprovementRatio(a.WPMOverTime)
	backspaceRatio := BackspaceRatio(a.Backspaces, a.WPM)

	switch {
	case a.Accuracy >= 98 && a.ConsistencyScore >= 85 && backspaceRatio < 0.1:
		return personas["perfectionist"]
	case improvement >= 1.2:
		return personas["recoverer"]
	case backspaceRatio >= 0.2 && a.WPM >= 60 && improvement >= 1:
		return personas["hacker"]
	case a.ReactionDelay < 1 && a.WPM >= 70:
		return personas["sprinter"]
	case a.ConsistencyScore >= 80 && math.Abs(improvement-1) < 0.1:
		return personas["steady"]
	default:
		return personas["tactician"]
	}
}

// Insights returns archetype-specific advice plus threshold-based
// general advice on consistency and reaction delay.
func Insights(p model.Persona, a Analysis) []string {
	var insights []string
	switch p.Name {
	case "sprinter":
		insights = append(insights,
			"Try to maintain your initial speed throughout the test",
			"Focus on consistency over raw speed")
		if a.Accuracy < 95 {
			insights = append(insights, "Consider slowing down slightly to improve accuracy")
		}
	case "perfectionist":
		insights = append(insights,
			"Your accuracy is impressive - now try gradually increasing your speed",
			"Practice with slightly faster typing to find your speed sweet spot")
	case "recoverer":
		insights = append(insights,
			"Try some warm-up exercises before important typing tasks",
			"Your ability to improve during the test shows great potential")
	case "hacker":
		insights = append(insights,
			"Your quick correction style is effective but may be costing you time",
			"Try to reduce initial errors while maintaining your quick recovery")
	case "steady":
		insights = append(insights,
			"Your consistent performance is a great foundation",
			"Try pushing your speed in short bursts to find your limits")
	case "tactician":
		insights = append(insights,
			"Your methodical approach shows good potential",
			"Try to balance planning with more fluid typing")
	}

	if a.ConsistencyScore < 60 {
		insights = append(insights, "Focus on maintaining a steady rhythm while typing")
	}
	if a.ReactionDelay > 3 {
		insights = append(insights, "Work on beginning to type right away when the test starts")
	}
	return insights
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package persona

import (
	"fmt"
	"strings"
)

// Summary produces the prose feedback block for a finalized session.
// It is a pure, deterministic projection of the metrics.
func Summary(a Analysis) string {
	var b strings.Builder
	level := performanceLevel(a.WPM, a.Accuracy)

	switch level {
	case "elite":
		fmt.Fprintf(&b, "Outstanding performance! You're typing at an elite level with %.0f WPM and %.1f%% accuracy. ", a.WPM, a.Accuracy)
	case "advanced":
		fmt.Fprintf(&b, "Excellent work! Your %.0f WPM and %.1f%% accuracy show advanced typing skills. ", a.WPM, a.Accuracy)
	case "intermediate":
		fmt.Fprintf(&b, "Solid performance! At %.0f WPM with %.1f%% accuracy, you're building strong typing fundamentals. ", a.WPM, a.Accuracy)
	case "beginner":
		fmt.Fprintf(&b, "Good start! Your %.0f WPM and %.1f%% accuracy show you're on the right track. ", a.WPM, a.Accuracy)
	default:
		fmt.Fprintf(&b, "Keep practicing! Your %.0f WPM and %.1f%% accuracy indicate areas for growth. ", a.WPM, a.Accuracy)
	}

	switch {
	case a.WPM >= 80:
		b.WriteString("Your speed is exceptional - you're typing faster than most people. ")
	case a.WPM >= 60:
		b.WriteString("Your speed is above average and shows good typing proficiency. ")
	case a.WPM >= 40:
		b.WriteString("Your speed is solid for regular typing tasks. ")
	case a.WPM >= 20:
		b.WriteString("Focus on building speed gradually while maintaining accuracy. ")
	default:
		b.WriteString("Speed will come with practice - focus on accuracy first. ")
	}

	switch {
	case a.Accuracy >= 98:
		b.WriteString("Your accuracy is nearly perfect - outstanding precision! ")
	case a.Accuracy >= 95:
		b.WriteString("Your accuracy is excellent and shows great attention to detail. ")
	case a.Accuracy >= 90:
		b.WriteString("Your accuracy is good, with room for improvement. ")
	case a.Accuracy >= 80:
		b.WriteString("Your accuracy needs work - try typing slower to build precision. ")
	default:
		b.WriteString("Your accuracy requires significant improvement - prioritize precision over speed. ")
	}

	switch ratio := BackspaceRatio(a.Backspaces, a.WPM); {
	case ratio <= 0.02:
		fmt.Fprintf(&b, "Your minimal backspace usage (%d times) shows confident, deliberate typing. ", a.Backspaces)
	case ratio <= 0.05:
		fmt.Fprintf(&b, "Your reasonable backspace usage (%d times) indicates good self-correction habits. ", a.Backspaces)
	case ratio <= 0.1:
		fmt.Fprintf(&b, "Your frequent backspace usage (%d times) suggests you could benefit from thinking before typing. ", a.Backspaces)
	default:
		fmt.Fprintf(&b, "Your high backspace usage (%d times) indicates a need to slow down and focus on accuracy. ", a.Backspaces)
	}

	switch {
	case a.ConsistencyScore >= 85:
		b.WriteString("Your typing rhythm is remarkably consistent - excellent pacing! ")
	case a.ConsistencyScore >= 70:
		b.WriteString("Your typing shows good consistency with minor variations. ")
	case a.ConsistencyScore >= 50:
		b.WriteString("Your typing rhythm varies somewhat - work on maintaining a steady pace. ")
	default:
		b.WriteString("Your typing rhythm is inconsistent - practice maintaining steady speed. ")
	}

	if len(a.WPMOverTime) >= 3 {
		third := len(a.WPMOverTime) / 3
		firstAvg := mean(a.WPMOverTime[:third])
		lastAvg := mean(a.WPMOverTime[len(a.WPMOverTime)-third:])
		switch {
		case firstAvg > 0 && lastAvg > firstAvg*1.15:
			b.WriteString("You warmed up beautifully and improved significantly as the test progressed. ")
		case firstAvg > 0 && lastAvg > firstAvg*1.05:
			b.WriteString("You showed steady improvement throughout the session. ")
		case firstAvg > 0 && lastAvg < firstAvg*0.85:
			b.WriteString("Your speed declined in the latter half - focus on maintaining pace. ")
		default:
			b.WriteString("You maintained consistent speed throughout the test. ")
		}
	}

	switch {
	case a.ReactionDelay <= 0.5:
		b.WriteString("You started typing immediately - excellent readiness! ")
	case a.ReactionDelay <= 1.5:
		b.WriteString("You started typing quickly - good responsiveness. ")
	case a.ReactionDelay <= 3:
		b.WriteString("You took a moment to start - try to begin typing immediately. ")
	default:
		b.WriteString("You had a slow start - work on beginning to type right away. ")
	}

	switch level {
	case "elite":
		b.WriteString("You're already at an elite level - keep pushing your limits!")
	case "advanced":
		b.WriteString("You're very close to elite level - focus on those final improvements!")
	case "intermediate":
		b.WriteString("You're making great progress - keep practicing to reach advanced levels!")
	case "beginner":
		b.WriteString("You're building a solid foundation - consistency will lead to improvement!")
	default:
		b.WriteString("Every practice session brings improvement - keep going!")
	}

	return b.String()
}

func performanceLevel(wpm, accuracy float64) string {
	switch {
	case wpm >= 80 && accuracy >= 95:
		return "elite"
	case wpm >= 60 && accuracy >= 90:
		return "advanced"
	case wpm >= 40 && accuracy >= 85:
		return "intermediate"
	case wpm >= 20 && accuracy >= 80:
		return "beginner"
	default:
		return "developing"
	}
}

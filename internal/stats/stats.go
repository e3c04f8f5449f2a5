// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// WPM computes words-per-minute from a correct-character count and elapsed seconds.
func WPM(correctChars int, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	minutes := elapsedSeconds / 60.0
	wpm := (float64(correctChars) / 5.0) / minutes
	if math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		return 0
	}
	return wpm
}

// Accuracy computes the percentage of correct characters among all typed.
func Accuracy(correctChars, totalChars int) float64 {
	if totalChars <= 0 {
		return 0
	}
	return float64(correctChars) / float64(totalChars) * 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}

// ConsistencyScore maps WPM-sample variability to a 0-100 score where
// higher is steadier. Fewer than 2 samples or a zero mean yields the
// neutral default of 50.
func ConsistencyScore(wpmValues []float64) float64 {
	if len(wpmValues) < 2 {
		return 50
	}
	var sum float64
	for _, v := range wpmValues {
		sum += v
	}
	mean := sum / float64(len(wpmValues))
	if mean <= 0 {
		return 50
	}
	var variance float64
	for _, v := range wpmValues {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(wpmValues))
	ratio := math.Sqrt(variance) / mean
	score := 100 - ratio*50
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 50
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

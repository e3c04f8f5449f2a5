package stats

import (
	"math"
	"testing"
)

func TestWPM(t *testing.T) {
	if got := WPM(3, 6); got != 6.0 {
		t.Fatalf("expected 6.0 WPM, got %f", got)
	}
	if got := WPM(10, 0); got != 0 {
		t.Fatalf("expected 0 WPM for zero elapsed, got %f", got)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(2, 3); math.Abs(got-66.666) > 0.01 {
		t.Fatalf("expected ~66.67, got %f", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("expected 0 accuracy for no input, got %f", got)
	}
}

func TestConsistencyScoreDefaults(t *testing.T) {
	if got := ConsistencyScore(nil); got != 50 {
		t.Fatalf("expected default 50 for no samples, got %f", got)
	}
	if got := ConsistencyScore([]float64{42}); got != 50 {
		t.Fatalf("expected default 50 for one sample, got %f", got)
	}
	if got := ConsistencyScore([]float64{0, 0, 0}); got != 50 {
		t.Fatalf("expected default 50 for zero mean, got %f", got)
	}
}

func TestConsistencyScoreSteadyBeatsVolatile(t *testing.T) {
	steady := ConsistencyScore([]float64{60, 61, 59, 60})
	volatile := ConsistencyScore([]float64{20, 100, 30, 90})
	if steady <= volatile {
		t.Fatalf("expected steady %.1f > volatile %.1f", steady, volatile)
	}
	if steady < 0 || steady > 100 || volatile < 0 || volatile > 100 {
		t.Fatalf("scores out of range: %.1f, %.1f", steady, volatile)
	}
}

func TestConsistencyScoreClampsAtZero(t *testing.T) {
	// One spike among zeros drives the raw score negative.
	if got := ConsistencyScore([]float64{0, 0, 0, 0, 0, 100}); got != 0 {
		t.Fatalf("expected clamp at 0, got %f", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("at %d expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5})
	if len(got) != 3 {
		t.Fatalf("expected 3 chars, got %q", got)
	}
}

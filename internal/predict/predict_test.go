package predict

import (
	"errors"
	"testing"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
)

func historyOf(wpms ...float64) []model.SessionRecord {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := make([]model.SessionRecord, len(wpms))
	for i, wpm := range wpms {
		records[i] = model.SessionRecord{
			ID:                "session_" + string(rune('a'+i)),
			EndedAt:           base.AddDate(0, 0, i),
			WPM:               wpm,
			Accuracy:          95,
			TotalCharacters:   150,
			CorrectCharacters: 140,
			Backspaces:        5,
			TestDuration:      30,
			ConsistencyScore:  80,
			ReactionDelay:     1,
		}
	}
	return records
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
}

func TestPredictRequiresTwoSessions(t *testing.T) {
	p := NewWithNow(fixedNow)
	if _, err := p.Predict(nil); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData for empty history, got %v", err)
	}
	if _, err := p.Predict(historyOf(60)); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData for one session, got %v", err)
	}
}

func TestPredictReturnsNonNegativeWPM(t *testing.T) {
	p := NewWithNow(fixedNow)
	prediction, err := p.Predict(historyOf(40, 45, 50, 55, 60))
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}
	if prediction.PredictedWPM < 0 {
		t.Fatalf("negative WPM prediction: %f", prediction.PredictedWPM)
	}
	if prediction.SessionCount != 5 {
		t.Fatalf("expected session count 5, got %d", prediction.SessionCount)
	}
	if !prediction.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected timestamp: %v", prediction.UpdatedAt)
	}
}

func TestPredictConfidenceBounds(t *testing.T) {
	p := NewWithNow(fixedNow)

	// With two sessions there is no validation pair; neutral default.
	prediction, err := p.Predict(historyOf(50, 55))
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}
	if prediction.Confidence != 50 {
		t.Fatalf("expected neutral confidence 50, got %f", prediction.Confidence)
	}

	prediction, err = p.Predict(historyOf(40, 45, 50, 55, 60, 65))
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}
	if prediction.Confidence < 20 || prediction.Confidence > 95 {
		t.Fatalf("confidence out of bounds: %f", prediction.Confidence)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	p := NewWithNow(fixedNow)
	history := historyOf(42, 48, 51, 47, 55)
	first, err := p.Predict(history)
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}
	second, err := p.Predict(history)
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}
	if first.PredictedWPM != second.PredictedWPM || first.Confidence != second.Confidence {
		t.Fatalf("prediction not deterministic: %+v vs %+v", first, second)
	}
}

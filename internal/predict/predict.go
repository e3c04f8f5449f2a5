// Package predict estimates the next session's WPM with a simple
// linear regression over history.
package predict

import (
	"errors"
	"math"
	"time"

	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/stats"
)

// ErrNotEnoughData is returned when the history holds fewer than two
// sessions, the minimum for one training pair.
var ErrNotEnoughData = errors.New("predict: need at least 2 sessions")

const (
	learningRate = 0.01
	epochs       = 1000
	numFeatures  = 9
)

// regression is a linear model trained with batch gradient descent.
type regression struct {
	weights []float64
	bias    float64
	trained bool
}

func (m *regression) train(features [][]float64, targets []float64) {
	if len(features) == 0 || len(features) != len(targets) {
		return
	}
	m.weights = make([]float64, len(features[0]))
	m.bias = 0

	for epoch := 0; epoch < epochs; epoch++ {
		var totalLoss, biasGradient float64
		gradients := make([]float64, len(m.weights))

		for i, row := range features {
			prediction := m.bias
			for j, v := range row {
				prediction += m.weights[j] * v
			}
			err := prediction - targets[i]
			totalLoss += err * err
			for j, v := range row {
				gradients[j] += err * v
			}
			biasGradient += err
		}

		n := float64(len(features))
		for j := range m.weights {
			m.weights[j] -= learningRate * gradients[j] / n
		}
		m.bias -= learningRate * biasGradient / n

		if totalLoss/n < 0.001 {
			break
		}
	}
	m.trained = true
}

func (m *regression) predict(features []float64) float64 {
	if !m.trained || len(features) != len(m.weights) {
		return 0
	}
	prediction := m.bias
	for i, v := range features {
		prediction += m.weights[i] * v
	}
	return math.Max(0, prediction)
}

// Predictor trains on a chronological session history.
type Predictor struct {
	now func() time.Time
}

// New returns a Predictor using the wall clock.
func New() *Predictor {
	return &Predictor{now: time.Now}
}

// NewWithNow returns a Predictor with a fixed time source, for tests.
func NewWithNow(now func() time.Time) *Predictor {
	return &Predictor{now: now}
}

// Predict trains on the history, which must be ordered oldest first,
// and estimates the next session's WPM. At least two sessions are
// required so the model has one (session, next WPM) pair to learn from.
func (p *Predictor) Predict(sessions []model.SessionRecord) (model.Prediction, error) {
	if len(sessions) < 2 {
		return model.Prediction{}, ErrNotEnoughData
	}

	reg := &regression{}
	features, targets := p.trainingSet(sessions)
	reg.train(features, targets)

	latest := p.featureVector(sessions, len(sessions)-1)
	predicted := reg.predict(latest)

	return model.Prediction{
		PredictedWPM: stats.Round1(predicted),
		Confidence:   p.confidence(sessions),
		SessionCount: len(sessions),
		UpdatedAt:    p.now(),
	}, nil
}

// trainingSet pairs each session's features with the following
// session's WPM.
func (p *Predictor) trainingSet(sessions []model.SessionRecord) ([][]float64, []float64) {
	var features [][]float64
	var targets []float64
	for i := 0; i < len(sessions)-1; i++ {
		features = append(features, p.featureVector(sessions, i))
		targets = append(targets, sessions[i+1].WPM)
	}
	return features, targets
}

// featureVector builds the normalized feature row for session i.
func (p *Predictor) featureVector(sessions []model.SessionRecord, i int) []float64 {
	current := sessions[i]

	// Rolling average over up to 5 preceding sessions.
	averageWPM := current.WPM
	if i > 0 {
		start := i - 5
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, s := range sessions[start:i] {
			sum += s.WPM
		}
		averageWPM = sum / float64(i-start)
	}

	days := 0.0
	if !sessions[0].EndedAt.IsZero() {
		days = p.now().Sub(sessions[0].EndedAt).Hours() / 24
	}

	totalErrors := current.TotalCharacters - current.CorrectCharacters

	return []float64{
		float64(current.TestDuration) / 100,
		float64(totalErrors) / 10,
		current.Accuracy / 100,
		float64(current.Backspaces) / 10,
		current.ConsistencyScore / 100,
		math.Min(current.ReactionDelay/5, 1),
		averageWPM / 100,
		math.Min(float64(i+1)/50, 1),
		math.Min(days/30, 1),
	}
}

// confidence estimates reliability by re-training on each history
// prefix and scoring the held-out next session. Clamped to [20, 95];
// 50 when no validation pair exists.
func (p *Predictor) confidence(sessions []model.SessionRecord) float64 {
	var totalError float64
	var count int

	for i := 1; i < len(sessions)-1; i++ {
		subset := sessions[:i+1]
		actual := sessions[i+1].WPM

		m := &regression{}
		features, targets := p.trainingSet(subset)
		m.train(features, targets)

		predicted := m.predict(p.featureVector(subset, len(subset)-1))
		totalError += math.Abs(predicted - actual)
		count++
	}

	if count == 0 {
		return 50
	}

	var sum float64
	for _, s := range sessions {
		sum += s.WPM
	}
	averageWPM := sum / float64(len(sessions))
	if averageWPM <= 0 {
		return 20
	}

	relativeError := (totalError / float64(count)) / averageWPM
	confidence := 100 - relativeError*100
	return math.Max(20, math.Min(95, confidence))
}

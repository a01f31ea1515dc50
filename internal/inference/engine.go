// Package inference classifies raw text with a loaded artifact pair.
package inference

import (
	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
	"sentiment-service/internal/textproc"
)

// Engine predicts labels and confidence distributions. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	arts *artifact.Artifacts
}

// NewEngine creates an engine over immutable artifacts.
func NewEngine(arts *artifact.Artifacts) *Engine {
	return &Engine{arts: arts}
}

// Predict returns the most probable label for text and the full
// distribution over the known labels.
func (e *Engine) Predict(text string) (*models.PredictionResult, error) {
	if textproc.IsBlank(text) {
		return nil, models.ErrEmptyInput
	}

	v := e.arts.Features.Transform(text)
	best, probs := artifact.Predict(e.arts.Classifier, v)
	classes := e.arts.Classifier.Classes()

	confidence := make(map[models.Label]float64, len(classes))
	for i, c := range classes {
		confidence[c] = probs[i]
	}

	return &models.PredictionResult{
		Label:      classes[best],
		Confidence: confidence,
	}, nil
}

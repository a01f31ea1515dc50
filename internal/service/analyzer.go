package service

import (
	"errors"
	"fmt"
	"time"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/explain"
	"sentiment-service/internal/inference"
	"sentiment-service/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Analyzer runs prediction and explanation for a request.
type Analyzer struct {
	arts      *artifact.Artifacts
	predictor *inference.Engine
	explainer *explain.Engine
	maxTopN   int
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer over the store's artifacts. It fails when
// the artifacts cannot be loaded; callers treat that as fatal.
func NewAnalyzer(store *artifact.Store, maxTopN int, logger *zap.Logger) (*Analyzer, error) {
	arts, err := store.Artifacts()
	if err != nil {
		return nil, err
	}
	if maxTopN < 1 {
		maxTopN = explain.DefaultTopN
	}

	return &Analyzer{
		arts:      arts,
		predictor: inference.NewEngine(arts),
		explainer: explain.NewEngine(arts),
		maxTopN:   maxTopN,
		logger:    logger,
	}, nil
}

// Predict classifies text.
func (a *Analyzer) Predict(text string) (*models.PredictionResult, error) {
	return a.predictor.Predict(text)
}

// Explain explains the prediction for text. A nil topN selects the default
// size; larger requests are capped.
func (a *Analyzer) Explain(text string, topN *int) (*models.Explanation, error) {
	n, err := a.resolveTopN(topN)
	if err != nil {
		return nil, err
	}
	return a.explainer.Explain(text, n)
}

// Analyze runs both engines. An unsupported model only drops the
// explanation; every other error fails the request.
func (a *Analyzer) Analyze(requestID, text string, topN *int) (*models.Analysis, error) {
	start := time.Now()
	if requestID == "" {
		requestID = uuid.New().String()
	}

	prediction, err := a.predictor.Predict(text)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	analysis := &models.Analysis{
		RequestID:  requestID,
		Text:       text,
		Prediction: prediction,
	}

	explanation, err := a.Explain(text, topN)
	switch {
	case err == nil:
		analysis.Explanation = explanation
	case errors.Is(err, models.ErrUnsupportedModel):
		a.logger.Warn("Explanation not available",
			zap.String("request_id", requestID),
			zap.String("kind", a.arts.Classifier.Kind()))
		analysis.ExplanationError = err.Error()
	default:
		return nil, fmt.Errorf("explanation failed: %w", err)
	}

	analysis.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000

	a.logger.Info("Text analyzed",
		zap.String("request_id", requestID),
		zap.String("label", string(prediction.Label)),
		zap.Float64("confidence", prediction.Confidence[prediction.Label]))

	return analysis, nil
}

// ModelInfo describes the loaded artifacts.
func (a *Analyzer) ModelInfo() models.ModelInfo {
	return a.arts.Info()
}

func (a *Analyzer) resolveTopN(topN *int) (int, error) {
	if topN == nil {
		return min(explain.DefaultTopN, a.maxTopN), nil
	}
	if *topN < 1 {
		return 0, models.ErrInvalidTopN
	}
	if *topN > a.maxTopN {
		a.logger.Debug("Capping top_n", zap.Int("requested", *topN), zap.Int("max_top_n", a.maxTopN))
		return a.maxTopN, nil
	}
	return *topN, nil
}

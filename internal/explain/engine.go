// Package explain attributes a linear classifier's prediction to the tokens
// of the input text.
//
// For a linear model the winning class score decomposes into a sum of
// per-feature terms, TF-IDF value times class coefficient, plus a bias. Each
// known token's term is its contribution. Contributions are ranked by
// magnitude with their sign kept: positive values pushed the text toward the
// predicted class, negative values away from it.
package explain

import (
	"cmp"
	"math"
	"slices"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
	"sentiment-service/internal/textproc"
)

// DefaultTopN is the explanation size used when a caller does not ask for one.
const DefaultTopN = 10

// Engine builds explanations. It is safe for concurrent use.
type Engine struct {
	arts *artifact.Artifacts
}

// NewEngine creates an engine over immutable artifacts.
func NewEngine(arts *artifact.Artifacts) *Engine {
	return &Engine{arts: arts}
}

// Explain returns up to topN contributions toward the predicted class,
// strongest first. Equal magnitudes keep the order in which the tokens first
// appear in text.
func (e *Engine) Explain(text string, topN int) (*models.Explanation, error) {
	if textproc.IsBlank(text) {
		return nil, models.ErrEmptyInput
	}
	if topN < 1 {
		return nil, models.ErrInvalidTopN
	}

	linear, ok := e.arts.Classifier.(artifact.Linear)
	if !ok {
		return nil, models.ErrUnsupportedModel
	}

	v := e.arts.Features.Transform(text)
	best, _ := artifact.Predict(linear, v)
	coef, bias := linear.ClassWeights(best)

	// v.Entries is already in first-occurrence order, so a stable sort keeps
	// that order among equal magnitudes.
	contributions := make([]models.Contribution, len(v.Entries))
	for i, entry := range v.Entries {
		contributions[i] = models.Contribution{
			Token:  entry.Term,
			Weight: entry.Value * coef[entry.Index],
		}
	}
	slices.SortStableFunc(contributions, func(a, b models.Contribution) int {
		return cmp.Compare(math.Abs(b.Weight), math.Abs(a.Weight))
	})

	if len(contributions) > topN {
		contributions = contributions[:topN]
	}
	for i := range contributions {
		contributions[i].Rank = i + 1
	}

	return &models.Explanation{
		Target:        linear.Classes()[best],
		TopN:          topN,
		Bias:          bias,
		Contributions: contributions,
	}, nil
}

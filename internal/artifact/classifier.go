package artifact

import (
	"fmt"
	"math"

	"sentiment-service/internal/models"
)

// KindLogisticRegression identifies the only classifier kind the artifact
// format serialises.
const KindLogisticRegression = "logistic_regression"

// Classifier assigns a probability distribution over classes to a vector.
type Classifier interface {
	Kind() string
	Classes() []models.Label
	Dimension() int
	// Probabilities returns one probability per class, aligned with Classes.
	Probabilities(v Vector) []float64
}

// Linear is implemented by classifiers whose class scores are a dot product
// of feature values and per-class weights plus a bias. Only linear
// classifiers can be explained by additive attribution.
type Linear interface {
	Classifier
	// ClassWeights returns the coefficients and intercept scoring class i.
	// The returned slice must not be modified.
	ClassWeights(i int) (coef []float64, intercept float64)
}

// Predict returns the index of the most probable class together with the
// distribution. Equal probabilities resolve to the alphabetically first label.
func Predict(c Classifier, v Vector) (int, []float64) {
	probs := c.Probabilities(v)
	classes := c.Classes()
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] || (probs[i] == probs[best] && classes[i] < classes[best]) {
			best = i
		}
	}
	return best, probs
}

// LogisticRegression is a fitted binary or multinomial logistic regression.
//
// A binary model stores a single coefficient row scoring the second class,
// and its probability is the logistic sigmoid of that score. A model with
// one row per class uses softmax.
type LogisticRegression struct {
	classes   []models.Label
	coef      [][]float64
	intercept []float64
	dim       int

	// per-class weights, with the negated row for the first class of a
	// binary model
	weights [][]float64
	biases  []float64
}

// NewLogisticRegression validates and wraps fitted parameters.
func NewLogisticRegression(classes []models.Label, coef [][]float64, intercept []float64) (*LogisticRegression, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	seen := make(map[models.Label]bool, len(classes))
	for _, c := range classes {
		if seen[c] {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = true
	}

	rows := len(coef)
	binary := len(classes) == 2 && rows == 1
	if !binary && rows != len(classes) {
		return nil, fmt.Errorf("%d coefficient rows for %d classes", rows, len(classes))
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("%d intercepts for %d coefficient rows", len(intercept), rows)
	}

	dim := len(coef[0])
	if dim == 0 {
		return nil, fmt.Errorf("coefficient rows are empty")
	}
	for i, row := range coef {
		if len(row) != dim {
			return nil, fmt.Errorf("coefficient row %d has %d weights, row 0 has %d", i, len(row), dim)
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("coefficient [%d][%d] is not finite", i, j)
			}
		}
		if math.IsNaN(intercept[i]) || math.IsInf(intercept[i], 0) {
			return nil, fmt.Errorf("intercept %d is not finite", i)
		}
	}

	lr := &LogisticRegression{
		classes:   append([]models.Label(nil), classes...),
		coef:      cloneRows(coef),
		intercept: append([]float64(nil), intercept...),
		dim:       dim,
	}

	if binary {
		neg := make([]float64, dim)
		for j, w := range lr.coef[0] {
			neg[j] = -w
		}
		lr.weights = [][]float64{neg, lr.coef[0]}
		lr.biases = []float64{-lr.intercept[0], lr.intercept[0]}
	} else {
		lr.weights = lr.coef
		lr.biases = lr.intercept
	}

	return lr, nil
}

func (lr *LogisticRegression) Kind() string { return KindLogisticRegression }

func (lr *LogisticRegression) Classes() []models.Label {
	return append([]models.Label(nil), lr.classes...)
}

func (lr *LogisticRegression) Dimension() int { return lr.dim }

// Binary reports whether the model stores a single coefficient row.
func (lr *LogisticRegression) Binary() bool { return len(lr.coef) == 1 }

// Coefficients returns a copy of the stored parameters.
func (lr *LogisticRegression) Coefficients() ([][]float64, []float64) {
	return cloneRows(lr.coef), append([]float64(nil), lr.intercept...)
}

func (lr *LogisticRegression) ClassWeights(i int) ([]float64, float64) {
	return lr.weights[i], lr.biases[i]
}

// DecisionFunction returns the raw linear scores, one per coefficient row.
func (lr *LogisticRegression) DecisionFunction(v Vector) []float64 {
	scores := make([]float64, len(lr.coef))
	for i, row := range lr.coef {
		scores[i] = v.Dot(row) + lr.intercept[i]
	}
	return scores
}

func (lr *LogisticRegression) Probabilities(v Vector) []float64 {
	scores := lr.DecisionFunction(v)
	if lr.Binary() {
		p := Sigmoid(scores[0])
		return []float64{1 - p, p}
	}
	return Softmax(scores)
}

// Sigmoid is the numerically stable logistic function.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Softmax normalises scores into a probability distribution.
func Softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

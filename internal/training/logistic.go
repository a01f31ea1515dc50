package training

import (
	"context"
	"fmt"
	"math"

	"sentiment-service/internal/artifact"
)

// LogisticOptions controls the optimiser.
type LogisticOptions struct {
	C         float64 // inverse regularisation strength
	MaxIter   int
	Tolerance float64 // stop once the largest gradient component is below this
}

// LogisticFit is the outcome of TrainLogistic.
type LogisticFit struct {
	Coef       []float64
	Intercept  float64
	Iterations int
	Converged  bool
}

// TrainLogistic fits a binary L2-regularised logistic regression on sparse
// rows X with targets y in {0,1}. It minimises
//
//	sum_i logloss(y_i, x_i.w + b) + ||w||^2 / (2C)
//
// by full-batch gradient descent. The intercept is not penalised.
func TrainLogistic(ctx context.Context, X []artifact.Vector, y []int, dim int, opts LogisticOptions) (*LogisticFit, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%d rows but %d targets", len(X), len(y))
	}
	if opts.C <= 0 {
		return nil, fmt.Errorf("C must be positive, got %v", opts.C)
	}
	if opts.MaxIter <= 0 {
		return nil, fmt.Errorf("max_iter must be positive, got %d", opts.MaxIter)
	}

	var maxSq float64
	for i, row := range X {
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("target %d is %d, want 0 or 1", i, y[i])
		}
		var sq float64
		for _, e := range row.Entries {
			if e.Index < 0 || e.Index >= dim {
				return nil, fmt.Errorf("row %d has feature %d outside dimension %d", i, e.Index, dim)
			}
			sq += e.Value * e.Value
		}
		maxSq = max(maxSq, sq)
	}

	// Work on the mean loss so the step size does not depend on n. The
	// gradient of the mean logloss is Lipschitz with constant (||x||^2+1)/4.
	n := float64(len(X))
	lambda := 1 / (opts.C * n)
	step := 1 / ((maxSq+1)/4 + lambda)

	w := make([]float64, dim)
	var b float64
	grad := make([]float64, dim)

	fit := &LogisticFit{}
	for iter := 1; iter <= opts.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clear(grad)
		var gb float64
		for i, row := range X {
			r := artifact.Sigmoid(row.Dot(w)+b) - float64(y[i])
			for _, e := range row.Entries {
				grad[e.Index] += r * e.Value
			}
			gb += r
		}

		largest := math.Abs(gb / n)
		for j := range grad {
			grad[j] = grad[j]/n + lambda*w[j]
			largest = max(largest, math.Abs(grad[j]))
		}

		fit.Iterations = iter
		if largest < opts.Tolerance {
			fit.Converged = true
			break
		}

		for j := range w {
			w[j] -= step * grad[j]
		}
		b -= step * gb / n
	}

	fit.Coef = w
	fit.Intercept = b
	return fit, nil
}

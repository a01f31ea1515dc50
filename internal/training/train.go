package training

import (
	"context"
	"fmt"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
)

// Options configures a training run.
type Options struct {
	MaxFeatures int
	TestSize    float64
	Seed        int64
	Logistic    LogisticOptions
}

// Result is a fitted model together with its hold-out evaluation.
type Result struct {
	Features   *artifact.FeatureSpace
	Model      *artifact.LogisticRegression
	Evaluation Evaluation

	TrainSize  int
	TestSize   int
	Iterations int
	Converged  bool
}

// Run splits entries, fits the vectorizer and classifier on the training
// part and scores the held-out part. Entries whose label is outside the
// canonical taxonomy are ignored.
func Run(ctx context.Context, entries []*models.DatasetEntry, opts Options) (*Result, error) {
	classes := models.Labels
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[string(c)] = i
	}

	var usable []*models.DatasetEntry
	present := make(map[string]bool)
	for _, e := range entries {
		if _, ok := classIndex[e.Label]; ok {
			usable = append(usable, e)
			present[e.Label] = true
		}
	}
	if len(present) < len(classes) {
		return nil, fmt.Errorf("training data must contain every class %v, found %d usable rows", classes, len(usable))
	}

	train, test, err := StratifiedSplit(usable, opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}

	trainDocs, yTrain := columns(train, classIndex)
	fs, err := FitVectorizer(trainDocs, opts.MaxFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	fit, err := TrainLogistic(ctx, Transform(fs, trainDocs), yTrain, fs.Dimension(), opts.Logistic)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}

	model, err := artifact.NewLogisticRegression(classes, [][]float64{fit.Coef}, []float64{fit.Intercept})
	if err != nil {
		return nil, err
	}

	testDocs, yTest := columns(test, classIndex)
	yhat := make([]int, len(testDocs))
	for i, doc := range testDocs {
		yhat[i], _ = artifact.Predict(model, fs.Transform(doc))
	}
	ev, err := Evaluate(classes, yTest, yhat)
	if err != nil {
		return nil, err
	}

	return &Result{
		Features:   fs,
		Model:      model,
		Evaluation: ev,
		TrainSize:  len(train),
		TestSize:   len(test),
		Iterations: fit.Iterations,
		Converged:  fit.Converged,
	}, nil
}

// Save writes the fitted artifacts as a new version under dir.
func (r *Result) Save(dir, version string) (*artifact.Manifest, error) {
	return artifact.Write(dir, version, r.Features, r.Model, r.Evaluation.Metrics())
}

func columns(entries []*models.DatasetEntry, classIndex map[string]int) ([]string, []int) {
	docs := make([]string, len(entries))
	y := make([]int, len(entries))
	for i, e := range entries {
		docs[i] = e.Text
		y[i] = classIndex[e.Label]
	}
	return docs, y
}

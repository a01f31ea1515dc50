// Package testutil provides small hand-built artifacts and fakes for tests.
package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
)

// FixtureVersion is the version directory WriteFixture creates.
const FixtureVersion = "v-test"

// fixtureTerms maps each vocabulary term to its IDF weight and its
// coefficient toward the suicidal class.
var fixtureTerms = map[string][2]float64{
	"day":        {1.6, -0.8},
	"die":        {2.9, 3.0},
	"everything": {1.9, 0.5},
	"feel":       {1.4, 0.6},
	"friends":    {2.1, -1.5},
	"giving":     {2.4, 2.0},
	"great":      {1.8, -2.0},
	"happy":      {1.7, -2.2},
	"heavy":      {2.6, 1.8},
	"hopeless":   {2.8, 2.5},
	"like":       {1.1, 0.1},
	"park":       {2.5, -1.2},
	"so":         {1.2, 0.2},
	"up":         {1.5, 1.5},
}

// FixtureIntercept is the bias of the fixture model.
const FixtureIntercept = -0.3

// FixtureTerms returns the vocabulary in feature index order.
func FixtureTerms() []string {
	terms := make([]string, 0, len(fixtureTerms))
	for t := range fixtureTerms {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// FixtureFeatureSpace builds the fixture vocabulary with L2-normalised
// TF-IDF weighting.
func FixtureFeatureSpace() *artifact.FeatureSpace {
	terms := FixtureTerms()
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = fixtureTerms[t][0]
	}
	fs, err := artifact.NewFeatureSpace(vocab, idf, artifact.FeatureOptions{
		Lowercase: true,
		Norm:      artifact.NormL2,
		UseIDF:    true,
		SmoothIDF: true,
	})
	if err != nil {
		panic(err)
	}
	return fs
}

// FixtureModel builds a binary logistic regression over the fixture terms.
func FixtureModel() *artifact.LogisticRegression {
	terms := FixtureTerms()
	coef := make([]float64, len(terms))
	for i, t := range terms {
		coef[i] = fixtureTerms[t][1]
	}
	lr, err := artifact.NewLogisticRegression(models.Labels, [][]float64{coef}, []float64{FixtureIntercept})
	if err != nil {
		panic(err)
	}
	return lr
}

// FixtureArtifacts returns the fixture pair.
func FixtureArtifacts() *artifact.Artifacts {
	arts, err := artifact.New(FixtureFeatureSpace(), FixtureModel())
	if err != nil {
		panic(err)
	}
	return arts
}

// WriteFixture writes the fixture pair as a versioned artifact directory
// under dir and returns the version directory.
func WriteFixture(t testing.TB, dir string) string {
	t.Helper()
	if _, err := artifact.Write(dir, FixtureVersion, FixtureFeatureSpace(), FixtureModel(), map[string]float64{"accuracy": 0.9}); err != nil {
		t.Fatalf("writing fixture artifacts: %v", err)
	}
	return filepath.Join(dir, FixtureVersion)
}

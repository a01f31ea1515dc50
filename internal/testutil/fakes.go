package testutil

import (
	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
)

// OpaqueClassifier is a classifier with no linear decision function. It
// returns a fixed distribution, so it can be paired with any feature space.
type OpaqueClassifier struct {
	Dim   int
	Probs []float64
}

func (c *OpaqueClassifier) Kind() string { return "opaque" }

func (c *OpaqueClassifier) Classes() []models.Label {
	return append([]models.Label(nil), models.Labels...)
}

func (c *OpaqueClassifier) Dimension() int { return c.Dim }

func (c *OpaqueClassifier) Probabilities(artifact.Vector) []float64 {
	return append([]float64(nil), c.Probs...)
}

// OpaqueArtifacts pairs the fixture feature space with an OpaqueClassifier.
func OpaqueArtifacts(probs ...float64) *artifact.Artifacts {
	fs := FixtureFeatureSpace()
	if len(probs) == 0 {
		probs = []float64{0.25, 0.75}
	}
	arts, err := artifact.New(fs, &OpaqueClassifier{Dim: fs.Dimension(), Probs: probs})
	if err != nil {
		panic(err)
	}
	return arts
}

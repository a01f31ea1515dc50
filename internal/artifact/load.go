package artifact

import (
	"fmt"
	"os"

	"sentiment-service/internal/models"
)

// Artifacts is a compatible feature space and classifier pair.
type Artifacts struct {
	Features   *FeatureSpace
	Classifier Classifier
	Manifest   *Manifest // nil when loaded from explicit paths
}

// Explainable reports whether the classifier supports additive attribution.
func (a *Artifacts) Explainable() bool {
	_, ok := a.Classifier.(Linear)
	return ok
}

// Info describes the loaded artifacts.
func (a *Artifacts) Info() models.ModelInfo {
	info := models.ModelInfo{
		Version:      "unversioned",
		Kind:         a.Classifier.Kind(),
		Classes:      a.Classifier.Classes(),
		FeatureCount: a.Features.Dimension(),
		Explainable:  a.Explainable(),
	}
	if a.Manifest != nil {
		info.Version = a.Manifest.Version
		info.Metrics = a.Manifest.Metrics
	}
	return info
}

// New pairs a feature space with a classifier after checking that they share
// dimensionality and that the classifier predicts exactly the known labels.
func New(fs *FeatureSpace, c Classifier) (*Artifacts, error) {
	if fs == nil || c == nil {
		return nil, &LoadError{Reason: "feature space and classifier are required"}
	}
	if fs.Dimension() != c.Dimension() {
		return nil, &LoadError{Reason: fmt.Sprintf(
			"feature space has %d features, classifier expects %d", fs.Dimension(), c.Dimension())}
	}

	classes := c.Classes()
	if len(classes) != len(models.Labels) {
		return nil, &LoadError{Reason: fmt.Sprintf("classifier has %d classes, want %d", len(classes), len(models.Labels))}
	}
	for _, cl := range classes {
		if !cl.IsKnown() {
			return nil, &LoadError{Reason: fmt.Sprintf("classifier predicts unknown class %q", cl)}
		}
	}

	return &Artifacts{Features: fs, Classifier: c}, nil
}

// Load reads a serialized vectorizer and classifier and checks that they
// are compatible. It has no side effects beyond reading the two files.
func Load(vectorizerPath, modelPath string) (*Artifacts, error) {
	vf, err := os.Open(vectorizerPath)
	if err != nil {
		return nil, loadErrorf(vectorizerPath, err, "failed to open vectorizer")
	}
	defer vf.Close()

	fs, err := decodeFeatureSpace(vf)
	if err != nil {
		return nil, loadErrorf(vectorizerPath, err, "corrupt vectorizer")
	}

	mf, err := os.Open(modelPath)
	if err != nil {
		return nil, loadErrorf(modelPath, err, "failed to open model")
	}
	defer mf.Close()

	clf, err := decodeClassifier(mf)
	if err != nil {
		return nil, loadErrorf(modelPath, err, "corrupt model")
	}

	arts, err := New(fs, clf)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = modelPath
		}
		return nil, err
	}
	return arts, nil
}

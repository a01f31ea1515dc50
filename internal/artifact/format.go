package artifact

import (
	"encoding/json"
	"fmt"
	"io"

	"sentiment-service/internal/models"
)

const (
	vectorizerFormat = "tfidf-vectorizer"
	modelFormat      = "linear-classifier"
	formatVersion    = 1
)

// vectorizerFile is the on-disk form of a fitted TF-IDF transformer.
type vectorizerFile struct {
	Format      string         `json:"format"`
	Version     int            `json:"version"`
	Lowercase   bool           `json:"lowercase"`
	Norm        string         `json:"norm"`
	UseIDF      bool           `json:"use_idf"`
	SmoothIDF   bool           `json:"smooth_idf"`
	SublinearTF bool           `json:"sublinear_tf"`
	MaxFeatures int            `json:"max_features,omitempty"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf,omitempty"`
}

// modelFile is the on-disk form of a fitted linear classifier.
type modelFile struct {
	Format    string      `json:"format"`
	Version   int         `json:"version"`
	Kind      string      `json:"kind"`
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func decodeFeatureSpace(r io.Reader) (*FeatureSpace, error) {
	var f vectorizerFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode vectorizer: %w", err)
	}
	if f.Format != vectorizerFormat {
		return nil, fmt.Errorf("unexpected format %q, want %q", f.Format, vectorizerFormat)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported vectorizer version %d", f.Version)
	}

	return NewFeatureSpace(f.Vocabulary, f.IDF, FeatureOptions{
		Lowercase:   f.Lowercase,
		Norm:        Norm(f.Norm),
		UseIDF:      f.UseIDF,
		SmoothIDF:   f.SmoothIDF,
		SublinearTF: f.SublinearTF,
		MaxFeatures: f.MaxFeatures,
	})
}

func decodeClassifier(r io.Reader) (Classifier, error) {
	var f modelFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if f.Format != modelFormat {
		return nil, fmt.Errorf("unexpected format %q, want %q", f.Format, modelFormat)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported model version %d", f.Version)
	}
	if f.Kind != KindLogisticRegression {
		return nil, fmt.Errorf("unsupported classifier kind %q", f.Kind)
	}

	classes := make([]models.Label, len(f.Classes))
	for i, c := range f.Classes {
		classes[i] = models.Label(c)
	}
	return NewLogisticRegression(classes, f.Coef, f.Intercept)
}

func encodeFeatureSpace(w io.Writer, fs *FeatureSpace) error {
	opts := fs.Options()
	f := vectorizerFile{
		Format:      vectorizerFormat,
		Version:     formatVersion,
		Lowercase:   opts.Lowercase,
		Norm:        string(opts.Norm),
		UseIDF:      opts.UseIDF,
		SmoothIDF:   opts.SmoothIDF,
		SublinearTF: opts.SublinearTF,
		MaxFeatures: opts.MaxFeatures,
		Vocabulary:  fs.Vocabulary(),
	}
	if opts.UseIDF {
		f.IDF = append([]float64(nil), fs.idf...)
	}
	return json.NewEncoder(w).Encode(f)
}

func encodeClassifier(w io.Writer, lr *LogisticRegression) error {
	coef, intercept := lr.Coefficients()
	classes := make([]string, len(lr.classes))
	for i, c := range lr.classes {
		classes[i] = string(c)
	}
	return json.NewEncoder(w).Encode(modelFile{
		Format:    modelFormat,
		Version:   formatVersion,
		Kind:      lr.Kind(),
		Classes:   classes,
		Coef:      coef,
		Intercept: intercept,
	})
}

package artifact

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the manifest inside a version directory.
const ManifestFile = "manifest.yaml"

const (
	defaultVectorizerFile = "tfidf_vectorizer.json"
	defaultModelFile      = "sentiment_model.json"
)

// FileRef names an artifact file and its expected digest.
type FileRef struct {
	Path       string `yaml:"path"`
	BLAKE2b256 string `yaml:"blake2b_256"`
}

// Manifest describes one versioned artifact directory.
type Manifest struct {
	Version    string             `yaml:"version"`
	CreatedAt  time.Time          `yaml:"created_at"`
	Vectorizer FileRef            `yaml:"vectorizer"`
	Model      FileRef            `yaml:"model"`
	Metrics    map[string]float64 `yaml:"metrics,omitempty"`
}

// LoadManifest loads the artifacts of a version directory, verifying each
// file against the digest recorded in its manifest.
func LoadManifest(dir string) (*Artifacts, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, loadErrorf(manifestPath, err, "failed to read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, loadErrorf(manifestPath, err, "corrupt manifest")
	}
	if m.Vectorizer.Path == "" || m.Model.Path == "" {
		return nil, loadErrorf(manifestPath, nil, "manifest must name both vectorizer and model")
	}

	vecPath := resolve(dir, m.Vectorizer.Path)
	modelPath := resolve(dir, m.Model.Path)
	if err := verifyDigest(vecPath, m.Vectorizer.BLAKE2b256); err != nil {
		return nil, err
	}
	if err := verifyDigest(modelPath, m.Model.BLAKE2b256); err != nil {
		return nil, err
	}

	arts, err := Load(vecPath, modelPath)
	if err != nil {
		return nil, err
	}
	arts.Manifest = &m
	return arts, nil
}

// Write serialises a trained pair into dir/version and records a manifest.
func Write(dir, version string, fs *FeatureSpace, lr *LogisticRegression, metrics map[string]float64) (*Manifest, error) {
	if _, err := New(fs, lr); err != nil {
		return nil, err
	}

	out := filepath.Join(dir, version)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	var vecBuf, modelBuf bytes.Buffer
	if err := encodeFeatureSpace(&vecBuf, fs); err != nil {
		return nil, fmt.Errorf("failed to encode vectorizer: %w", err)
	}
	if err := encodeClassifier(&modelBuf, lr); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}

	if err := os.WriteFile(filepath.Join(out, defaultVectorizerFile), vecBuf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write vectorizer: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, defaultModelFile), modelBuf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write model: %w", err)
	}

	m := &Manifest{
		Version:    version,
		CreatedAt:  time.Now().UTC(),
		Vectorizer: FileRef{Path: defaultVectorizerFile, BLAKE2b256: digest(vecBuf.Bytes())},
		Model:      FileRef{Path: defaultModelFile, BLAKE2b256: digest(modelBuf.Bytes())},
		Metrics:    metrics,
	}

	raw, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, ManifestFile), raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return m, nil
}

func verifyDigest(path, want string) error {
	if want == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return loadErrorf(path, err, "failed to read artifact")
	}
	if got := digest(data); got != want {
		return loadErrorf(path, nil, "checksum mismatch: got %s, manifest records %s", got, want)
	}
	return nil
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

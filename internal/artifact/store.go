package artifact

import (
	"sync"

	"go.uber.org/zap"
)

// Store loads artifacts once and serves the same immutable pair for the
// lifetime of the process. A failed load is remembered too; there is no
// reload without restart.
type Store struct {
	source string
	load   func() (*Artifacts, error)
	logger *zap.Logger

	once sync.Once
	arts *Artifacts
	err  error
}

// NewStore returns a store backed by explicit vectorizer and model paths.
func NewStore(vectorizerPath, modelPath string, logger *zap.Logger) *Store {
	return &Store{
		source: modelPath,
		load:   func() (*Artifacts, error) { return Load(vectorizerPath, modelPath) },
		logger: logger,
	}
}

// NewVersionedStore returns a store backed by a manifest directory.
func NewVersionedStore(dir string, logger *zap.Logger) *Store {
	return &Store{
		source: dir,
		load:   func() (*Artifacts, error) { return LoadManifest(dir) },
		logger: logger,
	}
}

// NewStaticStore wraps artifacts that are already in memory.
func NewStaticStore(arts *Artifacts) *Store {
	return &Store{
		source: "memory",
		load:   func() (*Artifacts, error) { return arts, nil },
		logger: zap.NewNop(),
	}
}

// Artifacts returns the loaded pair, loading it on first use.
func (s *Store) Artifacts() (*Artifacts, error) {
	s.once.Do(func() {
		s.arts, s.err = s.load()
		if s.err != nil {
			s.logger.Error("Failed to load artifacts", zap.String("source", s.source), zap.Error(s.err))
			return
		}
		info := s.arts.Info()
		s.logger.Info("Artifacts loaded",
			zap.String("source", s.source),
			zap.String("version", info.Version),
			zap.Int("features", info.FeatureCount),
			zap.Bool("explainable", info.Explainable))
	})
	return s.arts, s.err
}

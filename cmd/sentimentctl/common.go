package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/dataset"
	"sentiment-service/internal/repository"
)

// openRepository connects to the configured dataset database and migrates it.
func openRepository() (repository.DatasetRepository, func() error, error) {
	if cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	// Storage internals log through zap; the CLI reports progress itself.
	logger := zap.NewNop()
	db, err := repository.NewDB(cfg.Database.Type, cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := repository.Migrate(db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewDatasetRepository(db), db.Close, nil
}

func artifactStore() *artifact.Store {
	if cfg.ExplicitArtifacts() {
		return artifact.NewStore(cfg.Artifacts.VectorizerPath, cfg.Artifacts.ModelPath, zap.NewNop())
	}
	return artifact.NewVersionedStore(cfg.VersionDir(), zap.NewNop())
}

func configuredSources() []dataset.Source {
	sources := make([]dataset.Source, len(cfg.Dataset.Sources))
	for i, s := range cfg.Dataset.Sources {
		sources[i] = dataset.Source{
			Name:        s.Name,
			Path:        s.Path,
			TextColumn:  s.TextColumn,
			LabelColumn: s.LabelColumn,
		}
	}
	return sources
}

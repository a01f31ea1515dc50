package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sentiment-service/internal/dataset"
	"sentiment-service/internal/models"
	"sentiment-service/internal/training"
)

var trainFlags struct {
	csv     string
	version string
	dir     string
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model and write a versioned artifact directory",
	Long:  "Train fits the TF-IDF vectorizer and logistic regression on the stored\ndataset (or a merged CSV), evaluates on a stratified hold-out split and\nwrites <dir>/<version>/ with a manifest.",
	RunE:  runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&trainFlags.csv, "csv", "", "Train from a text,label CSV instead of the database")
	f.StringVar(&trainFlags.version, "model-version", "", "Artifact version to write (default: artifacts.version)")
	f.StringVar(&trainFlags.dir, "dir", "", "Artifact root directory (default: artifacts.dir)")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	entries, err := trainingEntries(cmd)
	if err != nil {
		return err
	}
	logrus.Infof("Training on %d entries", len(entries))

	res, err := training.Run(ctx, entries, training.Options{
		MaxFeatures: cfg.Training.MaxFeatures,
		TestSize:    cfg.Training.TestSize,
		Seed:        cfg.Training.Seed,
		Logistic: training.LogisticOptions{
			C:         cfg.Training.C,
			MaxIter:   cfg.Training.MaxIter,
			Tolerance: cfg.Training.Tolerance,
		},
	})
	if err != nil {
		return err
	}
	if !res.Converged {
		logrus.Warnf("Optimiser stopped after %d iterations without converging", res.Iterations)
	}

	dir := cfg.Artifacts.Dir
	if trainFlags.dir != "" {
		dir = trainFlags.dir
	}
	version := cfg.Artifacts.Version
	if trainFlags.version != "" {
		version = trainFlags.version
	}

	manifest, err := res.Save(dir, version)
	if err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"version":  manifest.Version,
		"accuracy": res.Evaluation.Accuracy,
	}).Infof("Artifacts written to %s", filepath.Join(dir, version))

	return res.Render(cmd.OutOrStdout())
}

func trainingEntries(cmd *cobra.Command) ([]*models.DatasetEntry, error) {
	if trainFlags.csv == "" {
		repo, closeDB, err := openRepository()
		if err != nil {
			return nil, err
		}
		defer closeDB()
		return repo.GetAllEntries(cmd.Context())
	}

	normalizer, err := dataset.NewNormalizer(cfg.Dataset.LabelAliases)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(trainFlags.csv)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src := dataset.Source{Name: filepath.Base(trainFlags.csv), Path: trainFlags.csv, TextColumn: "text", LabelColumn: "label"}
	return dataset.ReadCSV(cmd.Context(), file, src, normalizer)
}

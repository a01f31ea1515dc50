package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sentiment-service/internal/dataset"
)

var importFlags struct {
	out     string
	noStore bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load, normalise and store the configured dataset sources",
	RunE:  runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.out, "out", "", "Also write the merged dataset to this CSV file (rows with non-canonical labels are dropped)")
	f.BoolVar(&importFlags.noStore, "no-store", false, "Skip writing entries to the database")
}

func runImport(cmd *cobra.Command, _ []string) error {
	sources := configuredSources()
	if len(sources) == 0 {
		return fmt.Errorf("no dataset sources configured")
	}

	normalizer, err := dataset.NewNormalizer(cfg.Dataset.LabelAliases)
	if err != nil {
		return fmt.Errorf("label aliases: %w", err)
	}

	entries, err := dataset.LoadSources(cmd.Context(), sources, normalizer)
	if err != nil {
		return err
	}

	canonical := dataset.FilterCanonical(entries)
	if dropped := len(entries) - len(canonical); dropped > 0 {
		logrus.Warnf("Dropping %d rows with labels outside the taxonomy", dropped)
	}
	logrus.WithField("sources", len(sources)).Infof("Loaded %d labeled rows", len(canonical))

	if importFlags.out != "" {
		file, err := os.Create(importFlags.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", importFlags.out, err)
		}
		if err := dataset.WriteCSV(file, canonical); err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", importFlags.out, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
		logrus.Infof("Merged dataset written to %s", importFlags.out)
	}

	if !importFlags.noStore {
		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		batchID, err := repo.SaveEntries(cmd.Context(), canonical)
		if err != nil {
			return err
		}
		logrus.WithField("batch_id", batchID).Infof("Stored %d entries", len(canonical))
	}

	printStats(cmd.OutOrStdout(), dataset.Stats(canonical))
	return nil
}

// Package dataset reads labeled text sources and merges them into a single
// training set with canonical labels.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"sentiment-service/internal/models"
)

// Source is a CSV file with a header row naming its text and label columns.
type Source struct {
	Name        string
	Path        string
	TextColumn  string
	LabelColumn string
}

func (s Source) name() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

// LoadSources reads every source concurrently and concatenates the rows in
// source order. Rows with a blank text or label are dropped.
func LoadSources(ctx context.Context, sources []Source, n *Normalizer) ([]*models.DatasetEntry, error) {
	results := make([][]*models.DatasetEntry, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			entries, err := LoadSource(ctx, src, n)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.name(), err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []*models.DatasetEntry
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// LoadSource reads a single CSV source.
func LoadSource(ctx context.Context, src Source, n *Normalizer) ([]*models.DatasetEntry, error) {
	file, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	return ReadCSV(ctx, file, src, n)
}

// ReadCSV parses CSV data for src from r.
func ReadCSV(ctx context.Context, r io.Reader, src Source, n *Normalizer) ([]*models.DatasetEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	textIdx, labelIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch col {
		case src.TextColumn:
			textIdx = i
		case src.LabelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("header %v lacks columns %q and %q", header, src.TextColumn, src.LabelColumn)
	}

	var entries []*models.DatasetEntry
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}
		if textIdx >= len(record) || labelIdx >= len(record) {
			continue
		}

		text := record[textIdx]
		rawLabel := record[labelIdx]
		if strings.TrimSpace(text) == "" || strings.TrimSpace(rawLabel) == "" {
			continue
		}

		entries = append(entries, &models.DatasetEntry{
			Text:        text,
			Label:       n.Normalize(rawLabel),
			Source:      src.name(),
			SourceLabel: rawLabel,
		})
	}

	return entries, nil
}

// WriteCSV writes entries as a text,label CSV with a header row.
func WriteCSV(w io.Writer, entries []*models.DatasetEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"text", "label"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Text, e.Label}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FilterCanonical keeps only entries whose label is in the closed taxonomy.
func FilterCanonical(entries []*models.DatasetEntry) []*models.DatasetEntry {
	out := make([]*models.DatasetEntry, 0, len(entries))
	for _, e := range entries {
		if models.Label(e.Label).IsKnown() {
			out = append(out, e)
		}
	}
	return out
}

// Stats counts entries per label.
func Stats(entries []*models.DatasetEntry) models.DatasetStats {
	stats := models.DatasetStats{Total: len(entries), ByLabel: make(map[string]int)}
	for _, e := range entries {
		stats.ByLabel[e.Label]++
	}
	return stats
}

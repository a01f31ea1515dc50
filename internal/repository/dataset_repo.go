package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sentiment-service/internal/models"
)

// DatasetRepository handles database operations for labeled dataset entries.
type DatasetRepository interface {
	SaveEntries(ctx context.Context, entries []*models.DatasetEntry) (string, error)
	GetAllEntries(ctx context.Context) ([]*models.DatasetEntry, error)
	GetEntriesByLabel(ctx context.Context, label string) ([]*models.DatasetEntry, error)
	GetStats(ctx context.Context) (models.DatasetStats, error)
}

type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository.
func NewDatasetRepository(db *sqlx.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

const entryColumns = `id, text, label, source, source_label, batch_id, imported_at`

// SaveEntries stores entries in one transaction under a fresh batch id and
// fills in their ID, BatchID and ImportedAt fields.
func (r *datasetRepository) SaveEntries(ctx context.Context, entries []*models.DatasetEntry) (string, error) {
	batchID := uuid.NewString()
	importedAt := time.Now().UTC().Truncate(time.Second)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO dataset_entries (text, label, source, source_label, batch_id, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`))
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var id int64
		err := stmt.QueryRowxContext(ctx, e.Text, e.Label, e.Source, e.SourceLabel, batchID, importedAt).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("failed to insert entry: %w", err)
		}
		e.ID = id
		e.BatchID = batchID
		e.ImportedAt = importedAt
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit entries: %w", err)
	}
	return batchID, nil
}

// GetAllEntries returns all entries in insertion order.
func (r *datasetRepository) GetAllEntries(ctx context.Context) ([]*models.DatasetEntry, error) {
	var entries []*models.DatasetEntry
	err := r.db.SelectContext(ctx, &entries, `SELECT `+entryColumns+` FROM dataset_entries ORDER BY id`)
	return entries, err
}

// GetEntriesByLabel returns entries with the given canonical label.
func (r *datasetRepository) GetEntriesByLabel(ctx context.Context, label string) ([]*models.DatasetEntry, error) {
	var entries []*models.DatasetEntry
	query := r.db.Rebind(`SELECT ` + entryColumns + ` FROM dataset_entries WHERE label = ? ORDER BY id`)
	err := r.db.SelectContext(ctx, &entries, query, label)
	return entries, err
}

// GetStats counts stored entries per label.
func (r *datasetRepository) GetStats(ctx context.Context) (models.DatasetStats, error) {
	stats := models.DatasetStats{ByLabel: make(map[string]int)}

	var rows []struct {
		Label string `db:"label"`
		Count int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT label, COUNT(*) AS count
		FROM dataset_entries
		GROUP BY label
		ORDER BY label
	`)
	if err != nil {
		return stats, err
	}

	for _, row := range rows {
		stats.ByLabel[row.Label] = row.Count
		stats.Total += row.Count
	}
	return stats, nil
}

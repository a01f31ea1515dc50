package models

import "time"

// DatasetEntry is a single labeled text used for training.
type DatasetEntry struct {
	ID int64 `db:"id" json:"id"`

	Text  string `db:"text" json:"text"`
	Label string `db:"label" json:"label"`

	// Where the row came from and how it was labeled before normalisation
	Source      string `db:"source" json:"source"`
	SourceLabel string `db:"source_label" json:"source_label"`

	BatchID    string    `db:"batch_id" json:"batch_id"`
	ImportedAt time.Time `db:"imported_at" json:"imported_at"`
}

// CreateEntryRequest adds a manually labeled entry.
type CreateEntryRequest struct {
	Text   string `json:"text" binding:"required"`
	Label  string `json:"label" binding:"required"`
	Source string `json:"source"`
}

// DatasetStats summarises the stored dataset.
type DatasetStats struct {
	Total   int            `json:"total"`
	ByLabel map[string]int `json:"by_label"`
}

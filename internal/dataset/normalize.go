package dataset

import (
	"fmt"
	"strings"

	"sentiment-service/internal/models"
)

// Normalizer maps source label spellings onto the canonical labels.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a normalizer from an alias table. Keys are matched
// case-insensitively after trimming; every target must be a canonical label.
func NewNormalizer(aliases map[string]string) (*Normalizer, error) {
	table := make(map[string]string, len(aliases))
	for from, to := range aliases {
		label, err := models.ParseLabel(to)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", from, err)
		}
		table[clean(from)] = string(label)
	}
	return &Normalizer{aliases: table}, nil
}

// Normalize lower-cases and trims raw, then applies the alias table. Labels
// without an alias are returned cleaned but otherwise unchanged.
func (n *Normalizer) Normalize(raw string) string {
	label := clean(raw)
	if to, ok := n.aliases[label]; ok {
		return to
	}
	return label
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

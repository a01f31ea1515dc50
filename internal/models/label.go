package models

import (
	"fmt"
	"strings"
)

// Label is one of the closed set of sentiment classes the classifier predicts.
type Label string

const (
	NonSuicidal Label = "non-suicidal"
	Suicidal    Label = "suicidal"
)

// Labels lists the known classes in priority order. The order is alphabetical
// and is used to break ties between equal scores.
var Labels = []Label{NonSuicidal, Suicidal}

// IsKnown reports whether l belongs to the closed taxonomy.
func (l Label) IsKnown() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLabel maps a canonical label spelling to a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsKnown() {
		return "", fmt.Errorf("unknown label %q", s)
	}
	return l, nil
}

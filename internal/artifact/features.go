package artifact

import (
	"fmt"
	"math"

	"sentiment-service/internal/textproc"
)

// Norm is the vector normalisation applied after TF-IDF weighting.
type Norm string

const (
	NormL2   Norm = "l2"
	NormL1   Norm = "l1"
	NormNone Norm = ""
)

// FeatureOptions describes how raw text is weighted into a vector.
type FeatureOptions struct {
	Lowercase   bool
	Norm        Norm
	UseIDF      bool
	SmoothIDF   bool
	SublinearTF bool
	MaxFeatures int
}

// FeatureSpace is a frozen vocabulary with per-feature IDF weights.
// It is immutable after construction and safe for concurrent use.
type FeatureSpace struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	opts       FeatureOptions
}

// Entry is one non-zero component of a projected text.
type Entry struct {
	Index         int
	Term          string
	Value         float64
	FirstPosition int // position of the term's first occurrence in the token stream
}

// Vector is a sparse projection of a text, ordered by first occurrence.
type Vector struct {
	Entries []Entry
}

// Dot returns the inner product of v with a dense weight row.
func (v Vector) Dot(weights []float64) float64 {
	var sum float64
	for _, e := range v.Entries {
		sum += e.Value * weights[e.Index]
	}
	return sum
}

// NewFeatureSpace validates a vocabulary and its IDF weights. Indices must
// cover 0..n-1 exactly once; idf must have n entries when UseIDF is set.
func NewFeatureSpace(vocabulary map[string]int, idf []float64, opts FeatureOptions) (*FeatureSpace, error) {
	n := len(vocabulary)
	if n == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	terms := make([]string, n)
	vocab := make(map[string]int, n)
	for term, idx := range vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("term %q has index %d outside [0,%d)", term, idx, n)
		}
		if terms[idx] != "" {
			return nil, fmt.Errorf("index %d assigned to both %q and %q", idx, terms[idx], term)
		}
		if term == "" {
			return nil, fmt.Errorf("empty term at index %d", idx)
		}
		terms[idx] = term
		vocab[term] = idx
	}

	if opts.UseIDF {
		if len(idf) != n {
			return nil, fmt.Errorf("idf has %d weights for %d terms", len(idf), n)
		}
		for i, w := range idf {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return nil, fmt.Errorf("idf weight %d is invalid: %v", i, w)
			}
		}
		idf = append([]float64(nil), idf...)
	} else {
		idf = nil
	}

	switch opts.Norm {
	case NormL2, NormL1, NormNone:
	default:
		return nil, fmt.Errorf("unsupported norm %q", opts.Norm)
	}

	return &FeatureSpace{vocabulary: vocab, terms: terms, idf: idf, opts: opts}, nil
}

// Dimension returns the number of features.
func (fs *FeatureSpace) Dimension() int { return len(fs.terms) }

// Options returns the weighting options.
func (fs *FeatureSpace) Options() FeatureOptions { return fs.opts }

// Term returns the token for feature i.
func (fs *FeatureSpace) Term(i int) string { return fs.terms[i] }

// Index returns the feature index of term.
func (fs *FeatureSpace) Index(term string) (int, bool) {
	i, ok := fs.vocabulary[term]
	return i, ok
}

// IDF returns the weight of feature i, or 1 when IDF is disabled.
func (fs *FeatureSpace) IDF(i int) float64 {
	if fs.idf == nil {
		return 1
	}
	return fs.idf[i]
}

// Vocabulary returns a copy of the term to index mapping.
func (fs *FeatureSpace) Vocabulary() map[string]int {
	out := make(map[string]int, len(fs.vocabulary))
	for k, v := range fs.vocabulary {
		out[k] = v
	}
	return out
}

// Transform projects text into the feature space. Terms outside the
// vocabulary are dropped.
func (fs *FeatureSpace) Transform(text string) Vector {
	tokens := textproc.Tokenize(text, fs.opts.Lowercase)

	counts := make(map[int]int)
	var entries []Entry
	for _, tok := range tokens {
		idx, ok := fs.vocabulary[tok.Text]
		if !ok {
			continue
		}
		if counts[idx] == 0 {
			entries = append(entries, Entry{Index: idx, Term: tok.Text, FirstPosition: tok.Position})
		}
		counts[idx]++
	}

	var norm float64
	for i := range entries {
		tf := float64(counts[entries[i].Index])
		if fs.opts.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		v := tf * fs.IDF(entries[i].Index)
		entries[i].Value = v
		switch fs.opts.Norm {
		case NormL2:
			norm += v * v
		case NormL1:
			norm += math.Abs(v)
		}
	}

	if fs.opts.Norm == NormL2 {
		norm = math.Sqrt(norm)
	}
	if fs.opts.Norm != NormNone && norm > 0 {
		for i := range entries {
			entries[i].Value /= norm
		}
	}

	return Vector{Entries: entries}
}

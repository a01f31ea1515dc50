// Package training fits the TF-IDF feature space and the logistic regression
// classifier that the inference engine serves.
package training

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/textproc"
)

// DefaultFeatureOptions matches the weighting the served artifacts expect.
var DefaultFeatureOptions = artifact.FeatureOptions{
	Lowercase: true,
	Norm:      artifact.NormL2,
	UseIDF:    true,
	SmoothIDF: true,
}

// FitVectorizer learns a vocabulary and IDF weights from docs. When
// maxFeatures is positive only the most frequent terms across the corpus are
// kept, ties going to the alphabetically smaller term. Feature indices follow
// alphabetical term order.
func FitVectorizer(docs []string, maxFeatures int) (*artifact.FeatureSpace, error) {
	opts := DefaultFeatureOptions
	opts.MaxFeatures = maxFeatures

	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range textproc.Words(doc, opts.Lowercase) {
			counts[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("empty vocabulary; documents contain no terms")
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	if maxFeatures > 0 && len(terms) > maxFeatures {
		slices.SortStableFunc(terms, func(a, b string) int {
			return counts[b] - counts[a]
		})
		terms = terms[:maxFeatures]
		slices.Sort(terms)
	}

	n := float64(len(docs))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return artifact.NewFeatureSpace(vocabulary, idf, opts)
}

// Transform projects every document into fs.
func Transform(fs *artifact.FeatureSpace, docs []string) []artifact.Vector {
	out := make([]artifact.Vector, len(docs))
	for i, doc := range docs {
		out[i] = fs.Transform(doc)
	}
	return out
}

// topTerms returns up to n terms whose weight has the requested sign,
// heaviest first. It is used by the report.
func topTerms(fs *artifact.FeatureSpace, weights []float64, n int, positive bool) []string {
	var idx []int
	for i, w := range weights {
		if (positive && w > 0) || (!positive && w < 0) {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		wa, wb := weights[a], weights[b]
		if !positive {
			wa, wb = -wa, -wb
		}
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return strings.Compare(fs.Term(a), fs.Term(b))
	})
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fs.Term(idx[i])
	}
	return out
}

// Package textproc splits raw text into the unigram tokens the TF-IDF
// feature space is built from.
//
// Tokens are maximal runs of word characters (letters, numbers of any
// Unicode number category and the underscore) that are at least two
// characters long, lower-cased when the feature space asks for it. Single-character runs are discarded, so "I" and
// "a" never become features. This is the same scheme the training pipeline
// applies, which keeps features identical between fit and transform.
//
// All functions are safe for concurrent use by multiple goroutines.
package textproc

import (
	"strings"
	"unicode"
)

// minTokenRunes is the shortest run of word characters kept as a token.
const minTokenRunes = 2

// Token is a word extracted from the input.
type Token struct {
	Text     string
	Position int // index of the token in the token stream
}

// Tokenize returns the tokens of text in order of appearance.
func Tokenize(text string, lowercase bool) []Token {
	if lowercase {
		text = strings.ToLower(text)
	}

	var tokens []Token
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= minTokenRunes {
			tokens = append(tokens, Token{Text: text[start:end], Position: len(tokens)})
		}
		start = -1
		runes = 0
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

// Words is a convenience wrapper returning only token texts.
func Words(text string, lowercase bool) []string {
	tokens := Tokenize(text, lowercase)
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return words
}

// IsBlank reports whether text has no non-whitespace characters.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

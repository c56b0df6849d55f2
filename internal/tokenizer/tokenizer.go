// Package tokenizer turns free text into an ordered sequence of lexical
// tokens for vector resolution and inference.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into an ordered sequence of lexical tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Simple is a whitespace/punctuation splitter. It performs no lexical
// normalization and serves as the fallback when no morphological dictionary
// is wanted.
type Simple struct{}

// Tokenize splits on anything that is neither letter nor digit.
func (Simple) Tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if tokens == nil {
		return []string{}
	}
	return tokens
}

package engine

import (
	"strings"
	"unicode"
)

type TokenizerInterface interface {
	Tokenize(s string) []string
}

type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits s into runs of letters and digits.
func (t *Tokenizer) Tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// IsStemmable reports whether token only holds ASCII letters, the alphabet
// the Porter rules are written for.
func IsStemmable(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

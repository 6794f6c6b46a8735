package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type FilterInterface interface {
	Fold(tokens []string) []string
	Lowercase(tokens []string) []string
	RemoveStopWords(tokens []string) []string
}

// DefaultStopWords are the hundred most common English words.
var DefaultStopWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
	"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
	"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
}

type Filterer struct {
	StopWords map[string]struct{}
}

// NewFilterer builds a filterer for the given stop words, or for
// DefaultStopWords when none are given.
func NewFilterer(stopWords ...string) *Filterer {
	if len(stopWords) == 0 {
		stopWords = DefaultStopWords
	}
	words := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		words[strings.ToLower(w)] = struct{}{}
	}
	return &Filterer{StopWords: words}
}

func isRemovable(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Fold strips combining marks so that "naïve" and "naive" become the same
// token. Tokens that are only marks are dropped.
func (f *Filterer) Fold(tokens []string) []string {
	// A chained transformer keeps state, so each call gets its own.
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isRemovable), norm.NFC)
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		folded, _, err := transform.String(t, token)
		if err != nil {
			folded = token
		}
		if folded != "" {
			newTokens = append(newTokens, folded)
		}
	}
	return newTokens
}

func (f *Filterer) Lowercase(tokens []string) []string {
	for idx := range tokens {
		tokens[idx] = strings.ToLower(tokens[idx])
	}
	return tokens
}

func (f *Filterer) RemoveStopWords(tokens []string) []string {
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, exist := f.StopWords[token]; !exist {
			newTokens = append(newTokens, token)
		}
	}
	return newTokens
}

func (f *Filterer) IsStopWord(token string) bool {
	_, exist := f.StopWords[strings.ToLower(token)]
	return exist
}

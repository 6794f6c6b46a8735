package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kljensen/snowball"
	"github.com/xkmsoft/porterstemmer/pkg/porter"
)

const (
	AlgorithmPorter   = "porter"
	AlgorithmSnowball = "snowball"
)

var ErrUnknownAlgorithm = errors.New("unknown stemming algorithm")

type StemmerInterface interface {
	Stem(tokens []string) []string
	StemWord(word string) string
}

// Stemmer stems tokens with either the Porter algorithm or the Snowball
// English (Porter2) stemmer. It is safe for concurrent use.
type Stemmer struct {
	Algorithm string
	pool      sync.Pool
}

func NewStemmer(algorithm string) (*Stemmer, error) {
	if algorithm == "" {
		algorithm = AlgorithmPorter
	}
	if err := ValidateAlgorithm(algorithm); err != nil {
		return nil, err
	}
	s := &Stemmer{Algorithm: algorithm}
	s.pool.New = func() interface{} {
		return porter.NewStemmer()
	}
	return s, nil
}

func ValidateAlgorithm(algorithm string) error {
	switch algorithm {
	case AlgorithmPorter, AlgorithmSnowball:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

// StemWord returns the stem of word. Words holding anything but ASCII
// letters are returned as they are.
func (s *Stemmer) StemWord(word string) string {
	if !IsStemmable(word) {
		return word
	}
	if s.Algorithm == AlgorithmSnowball {
		stemmed, err := snowball.Stem(word, "english", false)
		if err != nil {
			return word
		}
		return stemmed
	}
	ps := s.pool.Get().(*porter.Stemmer)
	defer s.pool.Put(ps)
	return ps.Stem(word)
}

func (s *Stemmer) Stem(tokens []string) []string {
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		newTokens = append(newTokens, s.StemWord(token))
	}
	return newTokens
}

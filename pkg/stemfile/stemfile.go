// Package stemfile rewrites a text stream with every word replaced by its
// stem. Runs of ASCII letters are lower-cased and stemmed, all other bytes
// are copied through unchanged.
package stemfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// StemFunc returns the stem of a lower case word.
type StemFunc func(word string) string

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// Process copies r to w, stemming each word with stem.
func Process(r io.Reader, w io.Writer, stem StemFunc) error {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)
	word := make([]byte, 0, 64)

	flush := func() error {
		if len(word) == 0 {
			return nil
		}
		_, err := out.WriteString(stem(string(word)))
		word = word[:0]
		return err
	}

	for {
		c, err := in.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if isLetter(c) {
			word = append(word, toLower(c))
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := out.WriteByte(c); err != nil {
			return err
		}
	}
	if err := flush(); err != nil {
		return err
	}
	return out.Flush()
}

// ProcessFile stems the file at path into w.
func ProcessFile(path string, w io.Writer, stem StemFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file %s: %s\n", path, err.Error())
		}
	}(f)
	return Process(f, w, stem)
}

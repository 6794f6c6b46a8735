// Package porter implements the Porter stemming algorithm as published in
// M.F. Porter, "An algorithm for suffix stripping", Program 14(3), 1980,
// following the canonical ANSI C release by the author.
//
// Only lower case ASCII letters are meaningful to the algorithm. Other input
// is accepted and never causes a panic or a longer result, but the stem it
// produces is unspecified.
package porter

import "unicode"

type StemmerInterface interface {
	Stem(word string) string
}

// Stemmer holds the working buffer of the word being stemmed. The letters are
// in b[0] ... b[k]; k moves downwards as suffixes are stripped.
//
// A Stemmer reuses its buffer between calls and must not be shared between
// goroutines. Use Stem for a one-off call.
type Stemmer struct {
	b []rune
	k int
}

func NewStemmer() *Stemmer {
	return &Stemmer{b: make([]rune, 0, 32)}
}

// Stem returns the stem of word using a freshly allocated buffer.
// It is safe for concurrent use.
func Stem(word string) string {
	var s Stemmer
	return s.Stem(word)
}

// Stem lower-cases word and returns its stem. Words of one or two letters
// are returned unchanged.
func (s *Stemmer) Stem(word string) string {
	if word == "" {
		return ""
	}
	s.load(word)
	if s.k <= 1 {
		return string(s.b)
	}

	s.step1ab()
	// A one letter result (ied -> i, aing -> a) is left alone, steps 2 and 4
	// look at the letter before the last one.
	if s.k > 0 {
		s.step1c()
		s.step2()
		s.step3()
		s.step4()
		s.step5()
	}
	return string(s.b[:s.k+1])
}

func (s *Stemmer) load(word string) {
	s.b = s.b[:0]
	for _, r := range word {
		s.b = append(s.b, unicode.ToLower(r))
	}
	s.k = len(s.b) - 1
}

// cons reports whether b[i] is a consonant. y is a consonant at the start of
// the word and otherwise the opposite of the letter before it.
func (s *Stemmer) cons(i int) bool {
	flip := false
	for ; s.b[i] == 'y'; i-- {
		if i == 0 {
			return !flip
		}
		flip = !flip
	}
	switch s.b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return flip
	}
	return !flip
}

// measure counts the consonant sequences in b[0..j]. With c a consonant
// sequence and v a vowel sequence:
//
//	<c><v>       gives 0
//	<c>vc<v>     gives 1
//	<c>vcvc<v>   gives 2
func (s *Stemmer) measure(j int) int {
	n := 0
	i := 0
	for {
		if i > j {
			return n
		}
		if !s.cons(i) {
			break
		}
		i++
	}
	i++
	for {
		for {
			if i > j {
				return n
			}
			if s.cons(i) {
				break
			}
			i++
		}
		i++
		n++
		for {
			if i > j {
				return n
			}
			if !s.cons(i) {
				break
			}
			i++
		}
		i++
	}
}

func (s *Stemmer) vowelInStem(j int) bool {
	for i := 0; i <= j; i++ {
		if !s.cons(i) {
			return true
		}
	}
	return false
}

// doublec reports whether b[i-1], b[i] is a double consonant.
func (s *Stemmer) doublec(i int) bool {
	if i < 1 || s.b[i] != s.b[i-1] {
		return false
	}
	return s.cons(i)
}

// cvc reports whether b[i-2], b[i-1], b[i] has the form consonant - vowel -
// consonant and the last consonant is not w, x or y. It restores an e at the
// end of a short word: cav(e), lov(e), hop(e), crim(e), but snow, box, tray.
func (s *Stemmer) cvc(i int) bool {
	if i < 2 || !s.cons(i) || s.cons(i-1) || !s.cons(i-2) {
		return false
	}
	switch s.b[i] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

// ends reports whether b[0..k] ends with suffix. On a match j is the index
// just before the suffix, which may be -1 when the suffix is the whole word.
func (s *Stemmer) ends(suffix string) (j int, ok bool) {
	n := len(suffix)
	if n > s.k+1 {
		return 0, false
	}
	off := s.k + 1 - n
	for i := 0; i < n; i++ {
		if s.b[off+i] != rune(suffix[i]) {
			return 0, false
		}
	}
	return s.k - n, true
}

// setTo writes r into b[j+1...] and moves k to the end of it.
func (s *Stemmer) setTo(j int, r string) {
	for i := 0; i < len(r); i++ {
		s.b[j+1+i] = rune(r[i])
	}
	s.k = j + len(r)
}

func (s *Stemmer) replaceIfMeasured(j int, r string) {
	if s.measure(j) > 0 {
		s.setTo(j, r)
	}
}

// step1ab gets rid of plurals and -ed or -ing.
//
//	caresses  ->  caress
//	ponies    ->  poni
//	ties      ->  ti
//	caress    ->  caress
//	cats      ->  cat
//
//	feed      ->  feed
//	agreed    ->  agree
//	disabled  ->  disable
//
//	matting   ->  mat
//	mating    ->  mate
//	meeting   ->  meet
//	milling   ->  mill
//	messing   ->  mess
//
//	meetings  ->  meet
func (s *Stemmer) step1ab() {
	if s.b[s.k] == 's' {
		if _, ok := s.ends("sses"); ok {
			s.k -= 2
		} else if j, ok := s.ends("ies"); ok {
			s.setTo(j, "i")
		} else if s.b[s.k-1] != 's' {
			s.k--
		}
	}

	if j, ok := s.ends("eed"); ok {
		if s.measure(j) > 0 {
			s.k--
		}
		return
	}

	j, ok := s.ends("ed")
	if !ok {
		j, ok = s.ends("ing")
	}
	if !ok || !s.vowelInStem(j) {
		return
	}

	s.k = j
	if j, ok := s.ends("at"); ok {
		s.setTo(j, "ate")
	} else if j, ok := s.ends("bl"); ok {
		s.setTo(j, "ble")
	} else if j, ok := s.ends("iz"); ok {
		s.setTo(j, "ize")
	} else if s.doublec(s.k) {
		switch s.b[s.k] {
		case 'l', 's', 'z':
		default:
			s.k--
		}
	} else if s.measure(s.k) == 1 && s.cvc(s.k) {
		s.setTo(s.k, "e")
	}
}

// step1c turns a terminal y to i when there is another vowel in the stem.
func (s *Stemmer) step1c() {
	if j, ok := s.ends("y"); ok && s.vowelInStem(j) {
		s.b[s.k] = 'i'
	}
}

type rule struct {
	suffix      string
	replacement string
}

// step2Rules are keyed by the penultimate letter of the suffix.
var step2Rules = map[rune][]rule{
	'a': {{"ational", "ate"}, {"tional", "tion"}},
	'c': {{"enci", "ence"}, {"anci", "ance"}},
	'e': {{"izer", "ize"}},
	'l': {{"bli", "ble"}, {"alli", "al"}, {"entli", "ent"}, {"eli", "e"}, {"ousli", "ous"}},
	'o': {{"ization", "ize"}, {"ation", "ate"}, {"ator", "ate"}},
	's': {{"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"}, {"ousness", "ous"}},
	't': {{"aliti", "al"}, {"iviti", "ive"}, {"biliti", "ble"}},
	'g': {{"logi", "log"}},
}

// step3Rules are keyed by the last letter of the suffix.
var step3Rules = map[rune][]rule{
	'e': {{"icate", "ic"}, {"ative", ""}, {"alize", "al"}},
	'i': {{"iciti", "ic"}},
	'l': {{"ical", "ic"}, {"ful", ""}},
	's': {{"ness", ""}},
}

// step4Suffixes are keyed by the penultimate letter of the suffix.
var step4Suffixes = map[rune][]string{
	'a': {"al"},
	'c': {"ance", "ence"},
	'e': {"er"},
	'i': {"ic"},
	'l': {"able", "ible"},
	'n': {"ant", "ement", "ment", "ent"},
	'o': {"ion", "ou"},
	's': {"ism"},
	't': {"ate", "iti"},
	'u': {"ous"},
	'v': {"ive"},
	'z': {"ize"},
}

// replaceFirst applies the first rule whose suffix matches. A matched suffix
// ends the search even when the stem is too short to be rewritten.
func (s *Stemmer) replaceFirst(rules []rule) {
	for _, r := range rules {
		if j, ok := s.ends(r.suffix); ok {
			s.replaceIfMeasured(j, r.replacement)
			return
		}
	}
}

// step2 maps double suffixes to single ones when m > 0, so -ization
// (= -ize plus -ation) maps to -ize.
func (s *Stemmer) step2() {
	if s.k <= 0 {
		return
	}
	s.replaceFirst(step2Rules[s.b[s.k-1]])
}

// step3 deals with -ic-, -full, -ness etc.
func (s *Stemmer) step3() {
	s.replaceFirst(step3Rules[s.b[s.k]])
}

// step4 takes off -ant, -ence etc. in context <c>vcvc<v>.
func (s *Stemmer) step4() {
	if s.k <= 0 {
		return
	}
	for _, suffix := range step4Suffixes[s.b[s.k-1]] {
		j, ok := s.ends(suffix)
		if !ok {
			continue
		}
		if suffix == "ion" && (j < 0 || (s.b[j] != 's' && s.b[j] != 't')) {
			continue
		}
		if s.measure(j) > 1 {
			s.k = j
		}
		return
	}
}

// step5 removes a final -e if m > 1 and changes -ll to -l if m > 1.
func (s *Stemmer) step5() {
	j := s.k
	if s.b[s.k] == 'e' {
		a := s.measure(j)
		if a > 1 || (a == 1 && !s.cvc(s.k-1)) {
			s.k--
		}
	}
	if s.b[s.k] == 'l' && s.doublec(s.k) && s.measure(j) > 1 {
		s.k--
	}
}

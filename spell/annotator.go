package spell

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/unilibs/uniwidth"
)

// WordSpan is one word of an annotated text. Start and End are byte offsets
// into the text; StartCol and EndCol are display columns.
type WordSpan struct {
	Start      int
	End        int
	StartCol   int
	EndCol     int
	Word       string
	Misspelled bool
}

// linkPrefixes mark words that are never checked.
var linkPrefixes = []string{"http", "ftp:", "irc:"}

// Annotator classifies the words of input text. It keeps no state between
// calls except the session ignore set.
type Annotator struct {
	adapter *Adapter
	ignores map[string]struct{}
	enabled bool
}

// NewAnnotator creates an enabled annotator. A nil adapter behaves like an
// unavailable provider.
func NewAnnotator(adapter *Adapter) *Annotator {
	if adapter == nil {
		adapter = NewAdapter()
	}
	return &Annotator{
		adapter: adapter,
		ignores: make(map[string]struct{}),
		enabled: true,
	}
}

// Adapter returns the underlying dictionary adapter.
func (a *Annotator) Adapter() *Adapter {
	return a.adapter
}

// SetEnabled turns classification on or off. A disabled annotator still
// tokenizes but reports every word correct.
func (a *Annotator) SetEnabled(enabled bool) {
	a.enabled = enabled
}

// Enabled reports whether classification is on.
func (a *Annotator) Enabled() bool {
	return a.enabled
}

// Tokenize yields the words of text in order, each classified. The sequence
// can be ranged over any number of times and yields the same spans until the
// ignore set or dictionaries change.
func (a *Annotator) Tokenize(text string) iter.Seq[WordSpan] {
	return func(yield func(WordSpan) bool) {
		col := 0
		i := 0
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsLetter(r) {
				col += uniwidth.RuneWidth(r)
				i += size
				continue
			}

			start, startCol := i, col
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if !isWordRune(r) {
					break
				}
				col += uniwidth.RuneWidth(r)
				i += size
			}

			word := text[start:i]
			span := WordSpan{
				Start:      start,
				End:        i,
				StartCol:   startCol,
				EndCol:     col,
				Word:       word,
				Misspelled: !a.CheckWord(word),
			}
			if !yield(span) {
				return
			}
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\'' || r == '-'
}

// Words returns every span of text.
func (a *Annotator) Words(text string) []WordSpan {
	var spans []WordSpan
	for span := range a.Tokenize(text) {
		spans = append(spans, span)
	}
	return spans
}

// Misspelled returns only the misspelled spans of text.
func (a *Annotator) Misspelled(text string) []WordSpan {
	var spans []WordSpan
	for span := range a.Tokenize(text) {
		if span.Misspelled {
			spans = append(spans, span)
		}
	}
	return spans
}

// CheckWord reports whether word is treated as correct. Link-like words, words
// not starting with a letter and ignored words are always correct; otherwise any
// loaded dictionary may accept it.
func (a *Annotator) CheckWord(word string) bool {
	if !a.enabled || word == "" {
		return true
	}
	if len(word) >= 4 {
		lower := strings.ToLower(word[:4])
		for _, p := range linkPrefixes {
			if strings.HasPrefix(lower, p) {
				return true
			}
		}
	}
	if r, _ := utf8.DecodeRuneInString(word); !unicode.IsLetter(r) {
		return true
	}
	if _, ok := a.ignores[word]; ok {
		return true
	}
	return a.adapter.Check(word)
}

// IgnoreWord treats word as correct for the rest of the process. It is also
// added to the session vocabulary of every loaded dictionary.
func (a *Annotator) IgnoreWord(word string) {
	if word == "" {
		return
	}
	a.ignores[word] = struct{}{}
	a.adapter.AddToSession(word)
}

// Ignored reports whether word is in the ignore set.
func (a *Annotator) Ignored(word string) bool {
	_, ok := a.ignores[word]
	return ok
}

// ClearIgnores empties the ignore set. Dictionary session vocabularies are kept.
func (a *Annotator) ClearIgnores() {
	clear(a.ignores)
}

// AddToDictionary adds word to the persistent vocabulary of every loaded dictionary.
func (a *Annotator) AddToDictionary(word string) {
	a.adapter.AddToPersonal(word)
}

// Suggest returns at most MaxSuggestions distinct replacements for word.
func (a *Annotator) Suggest(word string) []string {
	return a.adapter.Suggest(word)
}

// WordAt returns the span covering byte offset off, if any.
func (a *Annotator) WordAt(text string, off int) (WordSpan, bool) {
	for span := range a.Tokenize(text) {
		if off >= span.Start && off < span.End {
			return span, true
		}
		if span.Start > off {
			break
		}
	}
	return WordSpan{}, false
}

package spell

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// wordListExtensions are tried in order for each language tag.
var wordListExtensions = []string{".dic", ".txt"}

// WordListCandidate loads dictionaries from plain or hunspell word lists in dir.
// The candidate fails to load when dir does not exist. A nil store keeps the
// personal vocabulary in memory.
func WordListCandidate(dir string, store PersonalStore) Candidate {
	return Candidate{
		Name: "wordlist:" + dir,
		Load: func() (Provider, error) {
			info, err := os.Stat(dir)
			if err != nil {
				return nil, fmt.Errorf("word list dir: %w", err)
			}
			if !info.IsDir() {
				return nil, fmt.Errorf("word list dir %s: not a directory", dir)
			}
			return &wordListProvider{dir: dir, store: store}, nil
		},
	}
}

type wordListProvider struct {
	dir   string
	store PersonalStore
}

func (p *wordListProvider) Name() string {
	return "wordlist (" + p.dir + ")"
}

func (p *wordListProvider) NewBroker() (Broker, error) {
	return NewWordListBroker(p.dir, p.store), nil
}

// WordListBroker serves dictionaries read from "<tag>.dic" or "<tag>.txt" files.
type WordListBroker struct {
	dir       string
	store     PersonalStore
	ownsStore bool
	logger    zerolog.Logger
}

// NewWordListBroker creates a broker for dir. A nil store keeps personal words in
// memory. A non-nil store stays owned by the caller and is not closed by Close.
func NewWordListBroker(dir string, store PersonalStore) *WordListBroker {
	b := &WordListBroker{dir: dir, store: store, logger: zerolog.Nop()}
	if store == nil {
		b.store = NewMemoryStore()
		b.ownsStore = true
	}
	return b
}

// SetLogger sets the logger for personal store errors.
func (b *WordListBroker) SetLogger(l zerolog.Logger) {
	b.logger = l
}

// RequestDict loads the word list for tag. When no file matches the tag itself,
// the base language is tried ("en_GB" falls back to "en").
func (b *WordListBroker) RequestDict(tag string) (Dictionary, error) {
	for _, name := range tagFileNames(tag) {
		for _, ext := range wordListExtensions {
			path := filepath.Join(b.dir, name+ext)
			words, err := readWordList(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return b.newDict(tag, words), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, tag)
}

func (b *WordListBroker) newDict(tag string, words []string) *wordListDict {
	d := &wordListDict{
		lang:     tag,
		words:    make(map[string]struct{}, len(words)),
		list:     words,
		session:  make(map[string]struct{}),
		personal: make(map[string]struct{}),
		store:    b.store,
		logger:   b.logger,
	}
	for _, w := range words {
		d.words[w] = struct{}{}
	}
	stored, err := b.store.Words(tag)
	if err != nil {
		b.logger.Debug().Str("lang", tag).Err(err).Msg("load personal words failed")
	}
	for _, w := range stored {
		d.personal[w] = struct{}{}
	}
	return d
}

// FreeDict is a no-op: word lists hold no external resources.
func (b *WordListBroker) FreeDict(d Dictionary) {}

// Close releases the personal store if the broker created it.
func (b *WordListBroker) Close() error {
	if !b.ownsStore {
		return nil
	}
	return b.store.Close()
}

// tagFileNames returns the file base names tried for tag, most specific first.
func tagFileNames(tag string) []string {
	names := []string{tag}
	add := func(n string) {
		for _, existing := range names {
			if existing == n {
				return
			}
		}
		names = append(names, n)
	}
	add(strings.ReplaceAll(tag, "-", "_"))
	add(strings.ReplaceAll(tag, "_", "-"))

	if t, err := language.Parse(tag); err == nil {
		if base, conf := t.Base(); conf != language.No {
			add(base.String())
		}
	}
	return names
}

// readWordList reads one word per line. A leading hunspell count line and
// "/FLAGS" suffixes are dropped, as are blank lines and "#" comments.
func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '/'); i >= 0 {
			line = line[:i]
		}
		if line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return words, nil
}

func isCount(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type wordListDict struct {
	lang     string
	words    map[string]struct{}
	list     []string
	session  map[string]struct{}
	personal map[string]struct{}
	store    PersonalStore
	logger   zerolog.Logger
}

func (d *wordListDict) Lang() string {
	return d.lang
}

func (d *wordListDict) known(w string) bool {
	if _, ok := d.words[w]; ok {
		return true
	}
	if _, ok := d.session[w]; ok {
		return true
	}
	_, ok := d.personal[w]
	return ok
}

// Check accepts an exact match, or the lowercase form of a Title-case or
// ALL-CAPS word.
func (d *wordListDict) Check(word string) bool {
	if word == "" || d.known(word) {
		return true
	}
	if isTitleCase(word) || isUpperCase(word) {
		return d.known(strings.ToLower(word))
	}
	return false
}

// Suggest returns words within edit distance 2, closest first, ties in list order.
func (d *wordListDict) Suggest(word string) []string {
	const maxDistance = 2

	target := []rune(strings.ToLower(word))
	type scored struct {
		word  string
		dist  int
		order int
	}
	var hits []scored
	consider := func(w string, order int) {
		dist := editDistance(target, []rune(strings.ToLower(w)), maxDistance)
		if dist <= maxDistance && w != word {
			hits = append(hits, scored{word: w, dist: dist, order: order})
		}
	}
	for i, w := range d.list {
		consider(w, i)
	}
	extra := make([]string, 0, len(d.personal)+len(d.session))
	for w := range d.personal {
		extra = append(extra, w)
	}
	for w := range d.session {
		extra = append(extra, w)
	}
	sort.Strings(extra)
	for i, w := range extra {
		if _, inList := d.words[w]; !inList {
			consider(w, len(d.list)+i)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].order < hits[j].order
	})

	seen := make(map[string]struct{})
	out := make([]string, 0, MaxSuggestions)
	for _, h := range hits {
		if _, dup := seen[h.word]; dup {
			continue
		}
		seen[h.word] = struct{}{}
		out = append(out, h.word)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func (d *wordListDict) AddToPersonal(word string) {
	if word == "" {
		return
	}
	d.personal[word] = struct{}{}
	if err := d.store.Add(d.lang, word); err != nil {
		d.logger.Debug().Str("lang", d.lang).Str("word", word).Err(err).Msg("store personal word failed")
	}
}

func (d *wordListDict) AddToSession(word string) {
	if word != "" {
		d.session[word] = struct{}{}
	}
}

func isTitleCase(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, r := range w[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isUpperCase(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Ensure implementations satisfy their interfaces
var _ Broker = (*WordListBroker)(nil)
var _ Dictionary = (*wordListDict)(nil)
var _ Provider = (*wordListProvider)(nil)

package spell

import "errors"

var (
	// ErrUnavailable is returned when no provider could be loaded.
	ErrUnavailable = errors.New("spell: no dictionary provider available")
	// ErrDictionaryNotFound is returned by a broker that has no dictionary for a language.
	ErrDictionaryNotFound = errors.New("spell: dictionary not found")
	// ErrSymbolMissing is returned when a shared library lacks a required symbol.
	ErrSymbolMissing = errors.New("spell: symbol missing")
)

// Dictionary is one loaded language dictionary. Handles are owned by the Adapter
// that requested them and released on teardown.
type Dictionary interface {
	// Lang returns the language tag the dictionary was requested with.
	Lang() string
	// Check reports whether word is spelled correctly.
	Check(word string) bool
	// Suggest returns replacement candidates, best first.
	Suggest(word string) []string
	// AddToPersonal adds word to the persistent user vocabulary.
	AddToPersonal(word string)
	// AddToSession adds word to the vocabulary of this process only.
	AddToSession(word string)
}

// Broker hands out dictionaries by language tag.
type Broker interface {
	// RequestDict loads the dictionary for tag.
	RequestDict(tag string) (Dictionary, error)
	// FreeDict releases a dictionary obtained from RequestDict.
	FreeDict(d Dictionary)
	// Close releases the broker.
	Close() error
}

// Provider is a loaded spell-checking implementation.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// NewBroker creates a broker.
	NewBroker() (Broker, error)
}

// Candidate is one way of loading a Provider, tried in order during a probe.
type Candidate struct {
	Name string
	Load func() (Provider, error)
}

// Checker is the spelling capability seen by callers. The Adapter returns a
// NullChecker when no provider or dictionary is available.
type Checker interface {
	Check(word string) bool
	Suggest(word string) []string
	AddToPersonal(word string)
	AddToSession(word string)
}

// NullChecker reports every word as correct and has no suggestions.
type NullChecker struct{}

func (NullChecker) Check(word string) bool       { return true }
func (NullChecker) Suggest(word string) []string { return nil }
func (NullChecker) AddToPersonal(word string)    {}
func (NullChecker) AddToSession(word string)     {}

// DefaultCandidates returns the Enchant candidates followed by a word-list
// candidate for dir. An empty dir adds no word-list candidate.
func DefaultCandidates(dir string, store PersonalStore) []Candidate {
	candidates := EnchantCandidates()
	if dir != "" {
		candidates = append(candidates, WordListCandidate(dir, store))
	}
	return candidates
}

// Ensure implementations satisfy their interfaces
var _ Checker = (*NullChecker)(nil)
var _ Checker = (*dictionarySet)(nil)

package spell

import (
	"strings"

	"github.com/rs/zerolog"
)

// State is the lifecycle state of an Adapter.
type State int

const (
	// StateUnprobed means Probe has not run yet.
	StateUnprobed State = iota
	// StateUnavailable means no candidate loaded. It is permanent.
	StateUnavailable
	// StateAvailable means a provider is loaded.
	StateAvailable
)

func (s State) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateAvailable:
		return "available"
	default:
		return "unprobed"
	}
}

// DomainTerms are added to the session vocabulary of every loaded dictionary.
var DomainTerms = []string{"HexChat", "FlexChat", "IRC"}

// FallbackLanguage is requested when none of the configured languages load.
const FallbackLanguage = "en"

// Adapter owns the optional dictionary provider, its broker and every loaded
// dictionary. All methods are safe to call in any state; without dictionaries
// they behave like NullChecker.
type Adapter struct {
	state    State
	provider Provider
	broker   Broker
	dicts    []Dictionary
	logger   zerolog.Logger
}

// AdapterOption configures an Adapter during construction.
type AdapterOption func(*Adapter)

// WithLogger sets the logger for probe and dictionary diagnostics.
func WithLogger(l zerolog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = l
	}
}

// NewAdapter creates an unprobed adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current state.
func (a *Adapter) State() State {
	return a.state
}

// ProviderName returns the name of the loaded provider, or "" if none.
func (a *Adapter) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// Probe tries candidates in order and keeps the first that loads. It runs once:
// later calls return the settled state without retrying.
func (a *Adapter) Probe(candidates []Candidate) State {
	if a.state != StateUnprobed {
		return a.state
	}
	for _, c := range candidates {
		if c.Load == nil {
			continue
		}
		p, err := c.Load()
		if err != nil {
			a.logger.Debug().Str("candidate", c.Name).Err(err).Msg("spell provider candidate failed")
			continue
		}
		a.provider = p
		a.state = StateAvailable
		a.logger.Debug().Str("candidate", c.Name).Str("provider", p.Name()).Msg("spell provider loaded")
		return a.state
	}
	a.state = StateUnavailable
	a.logger.Debug().Int("candidates", len(candidates)).Msg("no spell provider found, spell checking disabled")
	return a.state
}

// Init loads one dictionary per language in languages, a list separated by
// commas, spaces or tabs. Languages that fail to load are skipped. If none load,
// FallbackLanguage is tried once. Every loaded dictionary is seeded with
// DomainTerms. Returns the number of loaded dictionaries. Init is a no-op when
// dictionaries are already loaded; use Reload to change languages.
func (a *Adapter) Init(languages string) int {
	if a.state != StateAvailable || len(a.dicts) > 0 {
		return len(a.dicts)
	}
	if a.broker == nil {
		b, err := a.provider.NewBroker()
		if err != nil {
			a.logger.Debug().Err(err).Msg("spell broker init failed")
			return 0
		}
		a.broker = b
	}

	for _, lang := range ParseLanguages(languages) {
		a.request(lang)
	}
	if len(a.dicts) == 0 {
		a.request(FallbackLanguage)
	}
	return len(a.dicts)
}

// Reload releases the loaded dictionaries and loads languages again.
func (a *Adapter) Reload(languages string) int {
	a.releaseDicts()
	return a.Init(languages)
}

func (a *Adapter) request(lang string) {
	d, err := a.broker.RequestDict(lang)
	if err != nil || d == nil {
		a.logger.Debug().Str("lang", lang).Err(err).Msg("dictionary unavailable")
		return
	}
	for _, term := range DomainTerms {
		d.AddToSession(term)
	}
	a.dicts = append(a.dicts, d)
	a.logger.Debug().Str("lang", lang).Msg("dictionary loaded")
}

// ParseLanguages splits a language list on commas, spaces and tabs, dropping
// empty tokens.
func ParseLanguages(languages string) []string {
	return strings.FieldsFunc(languages, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Teardown releases every dictionary and the broker. It is safe to call when
// never initialised and safe to call twice. A later Init creates a new broker.
func (a *Adapter) Teardown() {
	a.releaseDicts()
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.logger.Debug().Err(err).Msg("spell broker close failed")
		}
		a.broker = nil
	}
}

func (a *Adapter) releaseDicts() {
	if a.broker != nil {
		for _, d := range a.dicts {
			a.broker.FreeDict(d)
		}
	}
	a.dicts = nil
}

// Dictionaries returns the loaded dictionaries in load order.
func (a *Adapter) Dictionaries() []Dictionary {
	out := make([]Dictionary, len(a.dicts))
	copy(out, a.dicts)
	return out
}

// Languages returns the tags of the loaded dictionaries.
func (a *Adapter) Languages() []string {
	langs := make([]string, 0, len(a.dicts))
	for _, d := range a.dicts {
		langs = append(langs, d.Lang())
	}
	return langs
}

// Checker returns the active capability: the loaded dictionaries, or a
// NullChecker when there are none.
func (a *Adapter) Checker() Checker {
	if a.state != StateAvailable || len(a.dicts) == 0 {
		return NullChecker{}
	}
	return dictionarySet(a.dicts)
}

// Check reports whether any loaded dictionary accepts word.
func (a *Adapter) Check(word string) bool {
	return a.Checker().Check(word)
}

// Suggest returns merged suggestions from every loaded dictionary.
func (a *Adapter) Suggest(word string) []string {
	return a.Checker().Suggest(word)
}

// AddToPersonal adds word to every dictionary's persistent vocabulary.
func (a *Adapter) AddToPersonal(word string) {
	a.Checker().AddToPersonal(word)
}

// AddToSession adds word to every dictionary's session vocabulary.
func (a *Adapter) AddToSession(word string) {
	a.Checker().AddToSession(word)
}

// dictionarySet fans a Checker call out to several dictionaries.
type dictionarySet []Dictionary

func (s dictionarySet) Check(word string) bool {
	if word == "" {
		return true
	}
	for _, d := range s {
		if d.Check(word) {
			return true
		}
	}
	return false
}

func (s dictionarySet) Suggest(word string) []string {
	return Suggest(word, s)
}

func (s dictionarySet) AddToPersonal(word string) {
	if word == "" {
		return
	}
	for _, d := range s {
		d.AddToPersonal(word)
	}
}

func (s dictionarySet) AddToSession(word string) {
	if word == "" {
		return
	}
	for _, d := range s {
		d.AddToSession(word)
	}
}

package spell

import (
	"errors"
	"fmt"
)

type fakeDict struct {
	lang        string
	words       map[string]bool
	suggestions []string
	session     []string
	personal    []string
	freed       bool
}

func newFakeDict(lang string, words ...string) *fakeDict {
	d := &fakeDict{lang: lang, words: make(map[string]bool)}
	for _, w := range words {
		d.words[w] = true
	}
	return d
}

func (d *fakeDict) Lang() string { return d.lang }

func (d *fakeDict) Check(word string) bool { return d.words[word] }

func (d *fakeDict) Suggest(word string) []string { return d.suggestions }

func (d *fakeDict) AddToPersonal(word string) {
	d.personal = append(d.personal, word)
	d.words[word] = true
}

func (d *fakeDict) AddToSession(word string) {
	d.session = append(d.session, word)
	d.words[word] = true
}

type fakeBroker struct {
	dicts     map[string]*fakeDict
	requested []string
	closed    int
}

func newFakeBroker(dicts ...*fakeDict) *fakeBroker {
	b := &fakeBroker{dicts: make(map[string]*fakeDict)}
	for _, d := range dicts {
		b.dicts[d.lang] = d
	}
	return b
}

func (b *fakeBroker) RequestDict(tag string) (Dictionary, error) {
	b.requested = append(b.requested, tag)
	d, ok := b.dicts[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, tag)
	}
	return d, nil
}

func (b *fakeBroker) FreeDict(d Dictionary) {
	d.(*fakeDict).freed = true
}

func (b *fakeBroker) Close() error {
	b.closed++
	return nil
}

type fakeProvider struct {
	broker *fakeBroker
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) NewBroker() (Broker, error) { return p.broker, nil }

func fakeCandidate(broker *fakeBroker) Candidate {
	return Candidate{
		Name: "fake",
		Load: func() (Provider, error) { return &fakeProvider{broker: broker}, nil },
	}
}

func failingCandidate(name string, loads *int) Candidate {
	return Candidate{
		Name: name,
		Load: func() (Provider, error) {
			*loads++
			return nil, errors.New("not installed")
		},
	}
}

// availableAdapter returns an adapter initialised with the given dictionaries.
func availableAdapter(languages string, dicts ...*fakeDict) (*Adapter, *fakeBroker) {
	broker := newFakeBroker(dicts...)
	a := NewAdapter()
	a.Probe([]Candidate{fakeCandidate(broker)})
	a.Init(languages)
	return a, broker
}

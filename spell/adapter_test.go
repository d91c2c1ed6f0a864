package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterProbeUnavailableIsPermanent(t *testing.T) {
	loads := 0
	a := NewAdapter()

	state := a.Probe([]Candidate{failingCandidate("a", &loads), failingCandidate("b", &loads)})
	assert.Equal(t, StateUnavailable, state)
	assert.Equal(t, 2, loads)

	state = a.Probe([]Candidate{fakeCandidate(newFakeBroker())})
	assert.Equal(t, StateUnavailable, state)
	assert.Equal(t, 2, loads, "probe must not retry")
	assert.Equal(t, "", a.ProviderName())
}

func TestAdapterProbeFirstSuccessWins(t *testing.T) {
	loads := 0
	a := NewAdapter()
	state := a.Probe([]Candidate{
		{Name: "nil loader"},
		failingCandidate("missing", &loads),
		fakeCandidate(newFakeBroker()),
		failingCandidate("never", &loads),
	})
	assert.Equal(t, StateAvailable, state)
	assert.Equal(t, 1, loads)
	assert.Equal(t, "fake", a.ProviderName())
	assert.Equal(t, "available", a.State().String())
}

func TestAdapterInitSkipsUnknownLanguages(t *testing.T) {
	en := newFakeDict("en_US", "hello")
	de := newFakeDict("de", "hallo")
	a, broker := availableAdapter("en_US,,xx\tde  ", en, de)

	assert.Equal(t, []string{"en_US", "de"}, a.Languages())
	assert.Equal(t, []string{"en_US", "xx", "de"}, broker.requested)
}

func TestAdapterInitFallsBackToEnglish(t *testing.T) {
	en := newFakeDict("en", "hello")
	a, broker := availableAdapter("fr, pt", en)

	assert.Equal(t, []string{"en"}, a.Languages())
	assert.Equal(t, []string{"fr", "pt", "en"}, broker.requested)
}

func TestAdapterInitSeedsDomainTerms(t *testing.T) {
	en := newFakeDict("en")
	a, _ := availableAdapter("en", en)

	assert.Equal(t, DomainTerms, en.session)
	for _, term := range DomainTerms {
		assert.True(t, a.Check(term), term)
	}
}

func TestAdapterCheckIsLogicalOr(t *testing.T) {
	en := newFakeDict("en", "colour")
	us := newFakeDict("en_US", "color")
	a, _ := availableAdapter("en en_US", en, us)

	assert.True(t, a.Check("colour"))
	assert.True(t, a.Check("color"))
	assert.False(t, a.Check("kolor"))
}

func TestAdapterFailOpen(t *testing.T) {
	a := NewAdapter()
	assert.True(t, a.Check("zzzqx"))
	assert.Empty(t, a.Suggest("zzzqx"))
	a.AddToPersonal("x")
	a.AddToSession("x")
	assert.Equal(t, 0, a.Init("en"))
	assert.IsType(t, NullChecker{}, a.Checker())

	// available but no dictionary resolved
	b, _ := availableAdapter("fr")
	assert.Empty(t, b.Dictionaries())
	assert.True(t, b.Check("zzzqx"))
}

func TestAdapterTeardownIdempotent(t *testing.T) {
	NewAdapter().Teardown()

	en := newFakeDict("en", "hello")
	a, broker := availableAdapter("en", en)
	a.Teardown()
	a.Teardown()

	assert.True(t, en.freed)
	assert.Equal(t, 1, broker.closed)
	assert.Empty(t, a.Dictionaries())
	assert.True(t, a.Check("anything"))
}

func TestAdapterReload(t *testing.T) {
	en := newFakeDict("en", "hello")
	de := newFakeDict("de", "hallo")
	a, _ := availableAdapter("en", en, de)
	require.Equal(t, []string{"en"}, a.Languages())

	assert.Equal(t, 1, a.Reload("de"))
	assert.True(t, en.freed)
	assert.Equal(t, []string{"de"}, a.Languages())
}

func TestParseLanguages(t *testing.T) {
	assert.Equal(t, []string{"en_US", "de", "fr"}, ParseLanguages(" en_US,de\t, fr,"))
	assert.Empty(t, ParseLanguages(" ,\t"))
}

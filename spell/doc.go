// Package spell flags misspelled words in chat input.
//
// Dictionaries come from an optional provider discovered once at startup. When
// no provider is found every word is reported correct, so callers never branch
// on availability:
//
//	adapter := spell.NewAdapter()
//	adapter.Probe(spell.DefaultCandidates("/usr/share/hunspell", nil))
//	adapter.Init("en_US, de")
//	defer adapter.Teardown()
//
//	annotator := spell.NewAnnotator(adapter)
//	for span := range annotator.Tokenize("teh quick fox") {
//	    if span.Misspelled {
//	        fmt.Println(span.Word, annotator.Suggest(span.Word))
//	    }
//	}
//
// # Providers
//
// A [Candidate] names one way to load a provider. [EnchantCandidates] tries the
// Enchant C library through dlopen; [WordListCandidate] reads plain or hunspell
// word lists from a directory. The first candidate that loads wins and the
// probe is never repeated.
package spell

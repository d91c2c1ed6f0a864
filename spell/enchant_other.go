//go:build !(darwin || freebsd || linux)

package spell

// EnchantLibraryNames lists the shared library names tried in order.
// Enchant is not loaded on this platform.
func EnchantLibraryNames() []string {
	return nil
}

// EnchantCandidates returns no candidates on this platform.
func EnchantCandidates() []Candidate {
	return nil
}

package spell

// MaxSuggestions caps both the per-dictionary list and the merged result.
const MaxSuggestions = 10

// Suggest queries dicts in order and merges their candidates, keeping the first
// occurrence of each string. Each dictionary contributes at most MaxSuggestions
// entries, and the merged list stops at MaxSuggestions.
func Suggest(word string, dicts []Dictionary) []string {
	if word == "" {
		return nil
	}
	var result []string
	seen := make(map[string]struct{})
	for _, d := range dicts {
		candidates := d.Suggest(word)
		if len(candidates) > MaxSuggestions {
			candidates = candidates[:MaxSuggestions]
		}
		for _, c := range candidates {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			result = append(result, c)
			if len(result) == MaxSuggestions {
				return result
			}
		}
	}
	return result
}

// editDistance returns the optimal string alignment distance between a and b
// (insertions, deletions, substitutions and adjacent transpositions), or
// limit+1 once the distance is known to exceed limit.
func editDistance(a, b []rune, limit int) int {
	if d := len(a) - len(b); d > limit || -d > limit {
		return limit + 1
	}
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				v = min(v, prev2[j-2]+1)
			}
			cur[j] = v
			rowMin = min(rowMin, v)
		}
		if rowMin > limit {
			return limit + 1
		}
		prev2, prev, cur = prev, cur, prev2
	}
	if prev[len(b)] > limit {
		return limit + 1
	}
	return prev[len(b)]
}

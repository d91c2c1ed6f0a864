package chatmarkup

import "strings"

// URLPrefixes lists the scheme prefixes recognised as the start of a hyperlink.
// Matching is ASCII case-insensitive.
var URLPrefixes = []string{
	"http://",
	"https://",
	"ftp://",
	"irc://",
	"ircs://",
	"www.",
}

// IsURLPrefix reports whether s begins with one of URLPrefixes.
func IsURLPrefix(s string) bool {
	for _, p := range URLPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return true
		}
	}
	return false
}

// urlEnd returns the end of the hyperlink starting at s[start]: the maximal run of
// bytes that are neither ASCII whitespace nor control bytes. Trailing punctuation
// is kept.
func urlEnd(s string, start int) int {
	i := start
	for i < len(s) && !isURLStop(s[i]) {
		i++
	}
	return i
}

func isURLStop(b byte) bool {
	return b < 0x20 || b == ' ' || b == 0x7f
}

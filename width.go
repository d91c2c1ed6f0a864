package chatmarkup

import "github.com/unilibs/uniwidth"

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// ColumnAt returns the display column of byte offset off in s.
// Offsets past the end are clamped.
func ColumnAt(s string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(s) {
		off = len(s)
	}
	return StringWidth(s[:off])
}

package chatmarkup

import (
	"image/color"

	"golang.org/x/image/font"
)

// DefaultFontSize is used when a non-positive font size is requested.
const DefaultFontSize = 12

// FontStyle selects the face variant of a style slot.
type FontStyle uint8

const (
	FontRegular FontStyle = iota
	FontBold
	FontItalic
)

// StyleEntry holds the render attributes of one style slot. Color is a palette
// index so a table stays valid when the palette changes.
type StyleEntry struct {
	Color     int
	Font      FontStyle
	Underline bool
	Size      int
}

// StyleTable maps every style slot to render attributes for one font size.
// A table is never mutated after construction; build a new one when the font
// size changes.
type StyleTable struct {
	size    int
	entries [NumStyles]StyleEntry
}

// Fixed colors of the special slots (palette indices).
const (
	actionColor    = 3  // green
	ctcpColor      = 2  // blue
	hyperlinkColor = 12 // light blue
)

// NewStyleTable builds the table for fontSize. Sizes <= 0 use DefaultFontSize.
func NewStyleTable(fontSize int) *StyleTable {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	t := &StyleTable{size: fontSize}

	set := func(s Style, colorIndex int, f FontStyle, underline bool) {
		t.entries[s] = StyleEntry{Color: colorIndex, Font: f, Underline: underline, Size: fontSize}
	}

	set(StyleDefault, ColorFg, FontRegular, false)
	set(StyleAction, actionColor, FontItalic, false)
	set(StyleCTCP, ctcpColor, FontBold, false)
	for i := 0; i < NumColors; i++ {
		set(ColorStyle(i), i, FontRegular, false)
	}

	// Bold region. Slots 20 and 21 are never produced and reuse the region default.
	for s := StyleBoldRegion; s < StyleUnderlineRegion; s++ {
		set(s, ColorFg, FontBold, false)
	}
	for i := 0; i < NumColors; i++ {
		set(ColorStyle(i).Bold(), i, FontBold, false)
	}

	// Underline region, same layout.
	for s := StyleUnderlineRegion; s < StyleHyperlink; s++ {
		set(s, ColorFg, FontRegular, true)
	}
	for i := 0; i < NumColors; i++ {
		set(ColorStyle(i).Underline(), i, FontRegular, true)
	}

	set(StyleHyperlink, hyperlinkColor, FontRegular, true)
	return t
}

// FontSize returns the size the table was built for.
func (t *StyleTable) FontSize() int {
	return t.size
}

// Len returns the number of slots.
func (t *StyleTable) Len() int {
	return NumStyles
}

// Entry returns the attributes of slot s. Out of range slots return the default entry.
func (t *StyleTable) Entry(s Style) StyleEntry {
	if int(s) >= NumStyles {
		return t.entries[StyleDefault]
	}
	return t.entries[s]
}

// Color resolves the foreground of slot s against p.
func (t *StyleTable) Color(s Style, p *Palette) color.RGBA {
	return p.RGBA(t.Entry(s).Color)
}

// Face returns the face of slot s from fonts.
func (t *StyleTable) Face(s Style, fonts *FontSet) font.Face {
	return fonts.Face(t.Entry(s).Font)
}

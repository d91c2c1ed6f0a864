package chatmarkup

// Style is one slot of the fixed style alphabet a text position is tagged with.
// Slots are resolved to render attributes through a StyleTable.
type Style uint8

const (
	// StyleDefault is the base style for plain text.
	StyleDefault Style = 0
	// StyleAction styles "/me" action lines.
	StyleAction Style = 1
	// StyleCTCP styles text inside CTCP delimiters.
	StyleCTCP Style = 2
	// StyleColorBase is the first of 16 plain mIRC color slots (3..18).
	StyleColorBase Style = 3
	// StyleBoldRegion is the offset of the bold region (19 = bold default, 22..37 bold colors).
	StyleBoldRegion Style = 19
	// StyleUnderlineRegion is the offset of the underline region (38 = underline default, 41..56 underline colors).
	StyleUnderlineRegion Style = 38
	// StyleHyperlink styles detected URLs.
	StyleHyperlink Style = 57

	// NumStyles is the size of the style alphabet.
	NumStyles = 58

	// NumColors is the number of mIRC colors with a dedicated style slot.
	NumColors = 16
)

// StyleTagBase is the byte used to encode StyleDefault in a tag string.
// Slot n is encoded as StyleTagBase+n.
const StyleTagBase byte = 'A'

// Tag returns the byte encoding of the style.
func (s Style) Tag() byte {
	return StyleTagBase + byte(s)
}

// StyleFromTag decodes a tag byte. Out of range bytes decode to StyleDefault.
func StyleFromTag(b byte) Style {
	if b < StyleTagBase || b >= StyleTagBase+NumStyles {
		return StyleDefault
	}
	return Style(b - StyleTagBase)
}

// ColorStyle returns the plain style slot for mIRC color index c (0-15).
func ColorStyle(c int) Style {
	if c < 0 || c >= NumColors {
		return StyleDefault
	}
	return StyleColorBase + Style(c)
}

// Bold returns the bold-region equivalent of a default or color slot.
func (s Style) Bold() Style {
	return s.base() + StyleBoldRegion
}

// Underline returns the underline-region equivalent of a default or color slot.
func (s Style) Underline() Style {
	return s.base() + StyleUnderlineRegion
}

// Color returns the mIRC color index carried by the slot, or -1 for slots without one.
func (s Style) Color() int {
	b := s.base()
	if b >= StyleColorBase && b < StyleColorBase+NumColors {
		return int(b - StyleColorBase)
	}
	return -1
}

// IsBold reports whether the slot belongs to the bold region.
func (s Style) IsBold() bool {
	return s >= StyleBoldRegion && s < StyleUnderlineRegion
}

// IsUnderline reports whether the slot belongs to the underline region.
func (s Style) IsUnderline() bool {
	return s >= StyleUnderlineRegion && s < StyleHyperlink
}

// base strips the bold/underline region offset.
func (s Style) base() Style {
	switch {
	case s.IsBold():
		return s - StyleBoldRegion
	case s.IsUnderline():
		return s - StyleUnderlineRegion
	case s >= StyleColorBase && s < StyleColorBase+NumColors:
		return s
	default:
		return StyleDefault
	}
}

// parseState is the formatting state of one message scan. It is created fresh for
// every message.
type parseState struct {
	bold      bool
	underline bool
	fg        int // -1 when no foreground is set
	inCTCP    bool
}

func newParseState() parseState {
	return parseState{fg: -1}
}

func (p *parseState) reset() {
	p.fg = -1
	p.bold = false
	p.underline = false
}

// style resolves the slot for a visible byte. fg overrides the state's
// foreground for this position only (nick coloring); pass -1 to keep it.
// Bold wins over underline when both are active: there is no combined slot.
func (p *parseState) style(hyperlink bool, fgOverride int) Style {
	if hyperlink {
		return StyleHyperlink
	}
	fg := p.fg
	if fgOverride >= 0 {
		fg = fgOverride
	}
	if p.inCTCP && fg < 0 && !p.bold && !p.underline {
		return StyleCTCP
	}
	base := StyleDefault
	if fg >= 0 && fg < NumColors {
		base = ColorStyle(fg)
	}
	switch {
	case p.bold:
		return base.Bold()
	case p.underline:
		return base.Underline()
	default:
		return base
	}
}

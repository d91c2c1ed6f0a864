package chatmarkup

import "strings"

// Line is one transcoded message: visible bytes and a parallel run of style tags.
// Lines are only produced by the transcoder, so len(Text) == len(Styles) always holds.
type Line struct {
	text        []byte
	styles      []byte
	highlighted bool
}

// Text returns the visible text.
func (l Line) Text() string {
	return string(l.text)
}

// Styles returns the style tag string, one tag byte per text byte.
func (l Line) Styles() string {
	return string(l.styles)
}

// Len returns the length in bytes of both the text and the tag string.
func (l Line) Len() int {
	return len(l.text)
}

// StyleAt returns the style of byte i, or StyleDefault if i is out of range.
func (l Line) StyleAt(i int) Style {
	if i < 0 || i >= len(l.styles) {
		return StyleDefault
	}
	return StyleFromTag(l.styles[i])
}

// Highlighted reports whether the message mentions the context nick or a highlight word.
func (l Line) Highlighted() bool {
	return l.highlighted
}

// lineBuilder is the only writer of Line. Every method appends text and tags together.
type lineBuilder struct {
	line Line
}

func (b *lineBuilder) appendByte(c byte, s Style) {
	b.line.text = append(b.line.text, c)
	b.line.styles = append(b.line.styles, s.Tag())
}

func (b *lineBuilder) appendString(str string, s Style) {
	b.line.text = append(b.line.text, str...)
	tag := s.Tag()
	for i := 0; i < len(str); i++ {
		b.line.styles = append(b.line.styles, tag)
	}
}

func (b *lineBuilder) endsWithNewline() bool {
	n := len(b.line.text)
	return n > 0 && b.line.text[n-1] == '\n'
}

func (b *lineBuilder) finish() Line {
	if !b.endsWithNewline() {
		b.appendByte('\n', StyleDefault)
	}
	return b.line
}

// TextBuffer is an append-only pair of visible text and style tags.
// The two halves always have equal length.
type TextBuffer struct {
	text     strings.Builder
	styles   strings.Builder
	starts   []int // byte offset of each line start
	hasDirty bool
}

// NewTextBuffer creates an empty buffer.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{}
}

// Append adds a transcoded line to the end of the buffer and marks the buffer dirty.
func (b *TextBuffer) Append(l Line) {
	if len(l.text) == 0 {
		return
	}
	offset := b.text.Len()
	if len(b.starts) == 0 {
		b.starts = append(b.starts, 0)
	}
	b.text.Write(l.text)
	b.styles.Write(l.styles)

	for i, c := range l.text {
		if c == '\n' && offset+i+1 < b.text.Len() {
			b.starts = append(b.starts, offset+i+1)
		}
	}
	if l.text[len(l.text)-1] == '\n' {
		b.starts = append(b.starts, b.text.Len())
	}
	b.hasDirty = true
}

// Len returns the byte length of the text (equal to the tag length).
func (b *TextBuffer) Len() int {
	return b.text.Len()
}

// Text returns the full visible text.
func (b *TextBuffer) Text() string {
	return b.text.String()
}

// Styles returns the full style tag string.
func (b *TextBuffer) Styles() string {
	return b.styles.String()
}

// LineCount returns the number of newline-terminated lines.
func (b *TextBuffer) LineCount() int {
	if len(b.starts) == 0 {
		return 0
	}
	return len(b.starts) - 1
}

// LineAt returns the text and tags of line i without the trailing newline.
// Returns empty strings if i is out of range.
func (b *TextBuffer) LineAt(i int) (text, styles string) {
	if i < 0 || i >= b.LineCount() {
		return "", ""
	}
	start, end := b.starts[i], b.starts[i+1]-1
	return b.text.String()[start:end], b.styles.String()[start:end]
}

// HasDirty returns true if lines were appended since the last ClearDirty call.
func (b *TextBuffer) HasDirty() bool {
	return b.hasDirty
}

// ClearDirty resets dirty tracking.
func (b *TextBuffer) ClearDirty() {
	b.hasDirty = false
}

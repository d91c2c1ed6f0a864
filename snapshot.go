package chatmarkup

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
)

// Snapshot represents the rendered content of a TextBuffer.
type Snapshot struct {
	FontSize int            `json:"font_size"`
	Lines    []SnapshotLine `json:"lines"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
}

// SnapshotSegment represents a run of text sharing one style slot.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Style      int           `json:"style"`
	Column     int           `json:"column"`
	Fg         string        `json:"fg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  bool          `json:"hyperlink,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
}

// Snapshot creates a snapshot of every line in the buffer. Styled snapshots
// resolve each segment against table and palette; either may be nil, in which
// case a default table or palette is used.
func (b *TextBuffer) Snapshot(detail SnapshotDetail, table *StyleTable, palette *Palette) *Snapshot {
	if table == nil {
		table = NewStyleTable(DefaultFontSize)
	}
	if palette == nil {
		palette = NewPalette()
	}

	snap := &Snapshot{
		FontSize: table.FontSize(),
		Lines:    make([]SnapshotLine, b.LineCount()),
	}
	for i := range snap.Lines {
		text, styles := b.LineAt(i)
		line := SnapshotLine{Text: text}
		if detail == SnapshotDetailStyled {
			line.Segments = lineToSegments(text, styles, table, palette)
		}
		snap.Lines[i] = line
	}
	return snap
}

// lineToSegments converts a line to styled segments (runs of the same tag).
// Every byte of a codepoint carries the same tag, so runs never split a rune.
func lineToSegments(text, styles string, table *StyleTable, palette *Palette) []SnapshotSegment {
	var segments []SnapshotSegment
	start := 0
	for i := 1; i <= len(styles); i++ {
		if i < len(styles) && styles[i] == styles[start] {
			continue
		}
		s := StyleFromTag(styles[start])
		entry := table.Entry(s)
		segments = append(segments, SnapshotSegment{
			Text:   text[start:i],
			Style:  int(s),
			Column: ColumnAt(text, start),
			Fg:     palette.Hex(entry.Color),
			Attributes: SnapshotAttrs{
				Bold:      entry.Font == FontBold,
				Italic:    entry.Font == FontItalic,
				Underline: entry.Underline,
			},
			Hyperlink: s == StyleHyperlink,
		})
		start = i
	}
	return segments
}

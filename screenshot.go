package chatmarkup

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/danielgatis/go-chatmarkup/spell"
)

// ScreenshotConfig controls how a TextBuffer is rendered to an image.
type ScreenshotConfig struct {
	// Table maps style slots to colors and faces. If nil, a table for the font
	// set size (or DefaultFontSize) is used.
	Table *StyleTable

	// Fonts supplies the faces. If nil, basicfont.Face7x13 is used for every slot.
	Fonts *FontSet

	// Palette resolves slot colors. If nil, DefaultPalette is used.
	Palette *Palette

	// Spell underlines misspelled words in the ColorSpell role. Optional.
	Spell *spell.Annotator

	// Width is the image width in pixels. If zero, the widest line plus padding.
	Width int

	// Padding is the margin around the text in pixels.
	Padding int
}

// Screenshot renders the buffer with basicfont and the default palette.
func (b *TextBuffer) Screenshot() *image.RGBA {
	return b.ScreenshotWithConfig(&ScreenshotConfig{})
}

// ScreenshotWithConfig renders every line of the buffer to an RGBA image, one
// row of text per line, with the colors, faces and underlines of each slot.
func (b *TextBuffer) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	fonts := cfg.Fonts
	if fonts == nil {
		fonts = NewFontSetFromFaces(DefaultFontSize, nil, nil, nil)
	}
	table := cfg.Table
	if table == nil {
		table = NewStyleTable(int(fonts.Size()))
	}
	palette := cfg.Palette
	if palette == nil {
		palette = NewPalette()
	}

	metrics := fonts.Face(FontRegular).Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight == 0 {
		lineHeight = 13 // basicfont fallback
	}
	ascent := metrics.Ascent.Ceil()

	lines := make([]renderedLine, b.LineCount())
	widest := 0
	for i := range lines {
		text, styles := b.LineAt(i)
		lines[i] = layoutLine(text, styles, table, fonts)
		widest = max(widest, lines[i].width.Ceil())
	}

	width := cfg.Width
	if width == 0 {
		width = widest + 2*cfg.Padding
	}
	height := len(lines)*lineHeight + 2*cfg.Padding
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))

	// Fill background
	draw.Draw(img, img.Bounds(), image.NewUniform(palette.RGBA(ColorBg)), image.Point{}, draw.Src)

	spellColor := palette.RGBA(ColorSpell)
	for row, line := range lines {
		y := cfg.Padding + row*lineHeight
		baseline := y + ascent

		for _, run := range line.runs {
			fg := table.Color(run.style, palette)
			x := cfg.Padding + run.x.Round()

			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: run.face,
				Dot:  fixed.P(x, baseline),
			}
			d.DrawString(run.text)

			if table.Entry(run.style).Underline {
				hline(img, x, x+run.width.Round(), baseline+2, fg)
			}
		}

		if cfg.Spell != nil && cfg.Spell.Enabled() {
			for _, span := range cfg.Spell.Misspelled(line.text) {
				x0 := cfg.Padding + line.xAt(span.Start).Round()
				x1 := cfg.Padding + line.xAt(span.End).Round()
				squiggle(img, x0, x1, baseline+2, spellColor)
			}
		}
	}

	return img
}

// renderedLine is a line split into runs of one style, with pen positions.
type renderedLine struct {
	text  string
	runs  []renderedRun
	width fixed.Int26_6
}

type renderedRun struct {
	start int
	text  string
	style Style
	face  font.Face
	x     fixed.Int26_6
	width fixed.Int26_6
}

func layoutLine(text, styles string, table *StyleTable, fonts *FontSet) renderedLine {
	line := renderedLine{text: text}
	var pen fixed.Int26_6
	start := 0
	for i := 1; i <= len(styles); i++ {
		if i < len(styles) && styles[i] == styles[start] {
			continue
		}
		s := StyleFromTag(styles[start])
		face := table.Face(s, fonts)
		run := renderedRun{
			start: start,
			text:  text[start:i],
			style: s,
			face:  face,
			x:     pen,
			width: font.MeasureString(face, text[start:i]),
		}
		pen += run.width
		line.runs = append(line.runs, run)
		start = i
	}
	line.width = pen
	return line
}

// xAt returns the pen position of byte offset off.
func (l renderedLine) xAt(off int) fixed.Int26_6 {
	for _, run := range l.runs {
		if off <= run.start+len(run.text) {
			return run.x + font.MeasureString(run.face, run.text[:off-run.start])
		}
	}
	return l.width
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

// squiggle draws a two-pixel zigzag from x0 to x1.
func squiggle(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		yy := y
		if (x-x0)/2%2 == 1 {
			yy++
		}
		if yy >= 0 && yy < img.Bounds().Dy() {
			img.SetRGBA(x, yy, c)
		}
	}
}

package spell

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Extent is the horizontal pixel range of a span drawn with a face.
type Extent struct {
	Span  WordSpan
	Start fixed.Int26_6
	End   fixed.Int26_6
}

// Width returns the extent width in pixels, rounded.
func (e Extent) Width() int {
	return (e.End - e.Start).Round()
}

// Measure returns the pixel extents of spans within text when drawn with face,
// for placing error underlines. Spans outside text are skipped.
func Measure(text string, spans []WordSpan, face font.Face) []Extent {
	extents := make([]Extent, 0, len(spans))
	for _, span := range spans {
		if span.Start < 0 || span.End > len(text) || span.Start > span.End {
			continue
		}
		start := font.MeasureString(face, text[:span.Start])
		extents = append(extents, Extent{
			Span:  span,
			Start: start,
			End:   start + font.MeasureString(face, text[span.Start:span.End]),
		})
	}
	return extents
}

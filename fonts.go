package chatmarkup

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontFinder locates font files by name (useful for avoiding font library dependencies).
type FontFinder interface {
	// Find returns the filesystem path to a font file matching the given name.
	Find(name string) (string, error)
}

// FontSet holds the regular, bold and italic faces for one font size.
type FontSet struct {
	size    float64
	regular font.Face
	bold    font.Face
	italic  font.Face
}

// NewFontSet builds a FontSet from the embedded Go Mono faces.
// Sizes <= 0 use DefaultFontSize.
func NewFontSet(size float64) (*FontSet, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	regular, err := parseFace(gomono.TTF, size)
	if err != nil {
		return nil, fmt.Errorf("regular face: %w", err)
	}
	bold, err := parseFace(gomonobold.TTF, size)
	if err != nil {
		return nil, fmt.Errorf("bold face: %w", err)
	}
	italic, err := parseFace(gomonoitalic.TTF, size)
	if err != nil {
		return nil, fmt.Errorf("italic face: %w", err)
	}
	return &FontSet{size: size, regular: regular, bold: bold, italic: italic}, nil
}

// NewFontSetFromFaces wraps existing faces. Nil faces fall back to regular, and a
// nil regular face falls back to basicfont.Face7x13.
func NewFontSetFromFaces(size float64, regular, bold, italic font.Face) *FontSet {
	if regular == nil {
		regular = basicfont.Face7x13
	}
	if bold == nil {
		bold = regular
	}
	if italic == nil {
		italic = regular
	}
	return &FontSet{size: size, regular: regular, bold: bold, italic: italic}
}

// FindFontSet loads the faces named name, name+" Bold" and name+" Italic" through
// finder. Missing bold or italic variants fall back to the regular face.
func FindFontSet(finder FontFinder, name string, size float64) (*FontSet, error) {
	path, err := finder.Find(name)
	if err != nil {
		return nil, fmt.Errorf("find font %q: %w", name, err)
	}
	regular, err := LoadFont(path, size)
	if err != nil {
		return nil, err
	}
	variant := func(suffix string) font.Face {
		p, err := finder.Find(name + " " + suffix)
		if err != nil {
			return nil
		}
		face, err := LoadFont(p, size)
		if err != nil {
			return nil
		}
		return face
	}
	return NewFontSetFromFaces(size, regular, variant("Bold"), variant("Italic")), nil
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return parseFace(data, size)
}

func parseFace(data []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Size returns the point size of the set.
func (fs *FontSet) Size() float64 {
	return fs.size
}

// Face returns the face for style.
func (fs *FontSet) Face(style FontStyle) font.Face {
	switch style {
	case FontBold:
		return fs.bold
	case FontItalic:
		return fs.italic
	default:
		return fs.regular
	}
}

// Advance returns the pixel width of s drawn with the face of style.
func (fs *FontSet) Advance(s string, style FontStyle) fixed.Int26_6 {
	return font.MeasureString(fs.Face(style), s)
}

// Close releases the faces.
func (fs *FontSet) Close() error {
	if fs == nil {
		return nil
	}
	var first error
	seen := make(map[font.Face]bool, 3)
	for _, face := range []font.Face{fs.regular, fs.bold, fs.italic} {
		if face == nil || seen[face] || face == basicfont.Face7x13 {
			continue
		}
		seen[face] = true
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

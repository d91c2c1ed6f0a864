package chatmarkup

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Palette indices for UI roles that follow the 32 mIRC colors.
const (
	ColorMarkFg     = 32 // Selection foreground
	ColorMarkBg     = 33 // Selection background
	ColorFg         = 34 // Text foreground
	ColorBg         = 35 // Text background
	ColorMarker     = 36 // Marker line
	ColorNewData    = 37 // Tab with new data
	ColorHighlight  = 38 // Tab with a highlight
	ColorNewMessage = 39 // Tab with a new message
	ColorAway       = 40 // Away user
	ColorSpell      = 41 // Spelling error underline

	// MaxColor is the highest palette index.
	MaxColor = 41

	// NumMIRCColors is the number of mIRC color entries (0-31).
	NumMIRCColors = 32

	// paletteRoleFileOffset is where UI roles start in the palette file.
	paletteRoleFileOffset = 256
)

// DefaultPalette holds the default mIRC colors (duplicated for 16-31) and UI role colors.
var DefaultPalette = [MaxColor + 1]color.RGBA{
	// mIRC colors 0-15
	{211, 215, 207, 255}, // 0 white
	{46, 52, 54, 255},    // 1 black
	{52, 101, 164, 255},  // 2 blue
	{78, 154, 6, 255},    // 3 green
	{204, 0, 0, 255},     // 4 red
	{143, 57, 2, 255},    // 5 brown
	{92, 53, 102, 255},   // 6 purple
	{206, 92, 0, 255},    // 7 orange
	{196, 160, 0, 255},   // 8 yellow
	{115, 210, 22, 255},  // 9 light green
	{17, 168, 121, 255},  // 10 cyan
	{88, 161, 157, 255},  // 11 light cyan
	{87, 121, 158, 255},  // 12 light blue
	{160, 66, 101, 255},  // 13 pink
	{85, 87, 83, 255},    // 14 grey
	{136, 138, 133, 255}, // 15 light grey

	// mIRC colors 16-31
	// Filled from 0-15 below

	// UI roles 32-41
	ColorMarkFg:     {211, 215, 207, 255},
	ColorMarkBg:     {32, 74, 135, 255},
	ColorFg:         {37, 41, 43, 255},
	ColorBg:         {250, 250, 248, 255},
	ColorMarker:     {143, 57, 2, 255},
	ColorNewData:    {52, 101, 164, 255},
	ColorHighlight:  {78, 154, 6, 255},
	ColorNewMessage: {206, 92, 0, 255},
	ColorAway:       {136, 138, 133, 255},
	ColorSpell:      {164, 0, 0, 255},
}

func init() {
	for i := 0; i < 16; i++ {
		DefaultPalette[16+i] = DefaultPalette[i]
	}
}

// Palette is the in-memory color table. The first mutation captures a copy of the
// current colors so Reset can always restore them.
type Palette struct {
	colors        [MaxColor + 1]color.RGBA
	defaults      [MaxColor + 1]color.RGBA
	defaultsSaved bool
	logger        zerolog.Logger
}

// PaletteOption configures a Palette during construction.
type PaletteOption func(*Palette)

// WithPaletteLogger sets the logger used for skipped lines and load diagnostics.
func WithPaletteLogger(l zerolog.Logger) PaletteOption {
	return func(p *Palette) {
		p.logger = l
	}
}

// NewPalette creates a palette initialised with DefaultPalette.
func NewPalette(opts ...PaletteOption) *Palette {
	p := &Palette{
		colors: DefaultPalette,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Palette) saveDefaults() {
	if !p.defaultsSaved {
		p.defaults = p.colors
		p.defaultsSaved = true
	}
}

// Get returns the color at index. ok is false if index is out of range.
func (p *Palette) Get(index int) (c color.RGBA, ok bool) {
	if index < 0 || index > MaxColor {
		return color.RGBA{}, false
	}
	return p.colors[index], true
}

// RGBA returns the color at index, or the text foreground for out of range indices.
func (p *Palette) RGBA(index int) color.RGBA {
	if c, ok := p.Get(index); ok {
		return c
	}
	return p.colors[ColorFg]
}

// Hex returns the color at index as "#rrggbb".
func (p *Palette) Hex(index int) string {
	c := p.RGBA(index)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Set replaces the color at index. Out of range indices are ignored.
func (p *Palette) Set(index int, r, g, b uint8) bool {
	if index < 0 || index > MaxColor {
		return false
	}
	p.saveDefaults()
	p.colors[index] = color.RGBA{R: r, G: g, B: b, A: 255}
	return true
}

// Reset restores the colors captured before the first mutation.
func (p *Palette) Reset() {
	if p.defaultsSaved {
		p.colors = p.defaults
	}
}

// Load reads "color_<n> = <r> <g> <b>" lines from path. File indices >= 256 map to
// UI roles starting at 32. Malformed lines are skipped. A missing file leaves the
// palette unchanged and is not an error.
func (p *Palette) Load(path string) error {
	p.saveDefaults()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug().Str("path", path).Msg("palette file not found, using defaults")
			return nil
		}
		return fmt.Errorf("open palette: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		index, c, ok := parsePaletteLine(scanner.Text())
		if !ok {
			if strings.TrimSpace(scanner.Text()) != "" {
				p.logger.Debug().Str("path", path).Int("line", lineNo).Msg("skipping malformed palette line")
			}
			continue
		}
		p.colors[index] = c
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read palette: %w", err)
	}
	return nil
}

// parsePaletteLine parses one palette file line into an internal index and color.
func parsePaletteLine(line string) (int, color.RGBA, bool) {
	var index, r, g, b int
	if n, err := fmt.Sscanf(strings.TrimSpace(line), "color_%d = %d %d %d", &index, &r, &g, &b); err != nil || n != 4 {
		return 0, color.RGBA{}, false
	}
	if index >= paletteRoleFileOffset {
		index = NumMIRCColors + (index - paletteRoleFileOffset)
	}
	if index < 0 || index > MaxColor {
		return 0, color.RGBA{}, false
	}
	if !isChannel(r) || !isChannel(g) || !isChannel(b) {
		return 0, color.RGBA{}, false
	}
	return index, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, true
}

func isChannel(v int) bool {
	return v >= 0 && v <= 255
}

// Save writes every entry to path: mIRC colors as color_0..color_31 and UI roles
// as color_256 and up.
func (p *Palette) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create palette: %w", err)
	}

	w := bufio.NewWriter(f)
	for i := 0; i <= MaxColor; i++ {
		fileIndex := i
		if i >= NumMIRCColors {
			fileIndex = paletteRoleFileOffset + (i - NumMIRCColors)
		}
		c := p.colors[i]
		fmt.Fprintf(w, "color_%d = %d %d %d\n", fileIndex, c.R, c.G, c.B)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write palette: %w", err)
	}
	return f.Close()
}

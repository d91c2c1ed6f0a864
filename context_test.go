package chatmarkup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgatis/go-chatmarkup/spell"
)

func TestRenderContextCloseNeverInitialised(t *testing.T) {
	c := NewRenderContext()
	if err := c.Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("expected nil on second close, got %v", err)
	}
	if c.Palette() != nil || c.Annotator() != nil {
		t.Error("expected nil accessors before Init")
	}
	if line := c.Transcode(Message{Raw: "x"}, MessageContext{}); line.Text() != "x\n" {
		t.Errorf("expected transcoding to work before Init, got %q", line.Text())
	}
	if err := c.SetFontSize(14); err == nil {
		t.Error("expected SetFontSize to fail before Init")
	}
}

func TestRenderContextLifecycle(t *testing.T) {
	dir := t.TempDir()
	palettePath := filepath.Join(dir, "colors.conf")
	if err := os.WriteFile(palettePath, []byte("color_4 = 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wordDir := filepath.Join(dir, "words")
	if err := os.Mkdir(wordDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wordDir, "en.txt"), []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewRenderContext(WithSpellCandidates([]spell.Candidate{spell.WordListCandidate(wordDir, nil)}))
	cfg := RenderConfig{
		FontSize:           0,
		PalettePath:        palettePath,
		SpellEnabled:       true,
		SpellLanguages:     "en_US",
		PersonalDictionary: filepath.Join(dir, "personal.db"),
		MaxURLs:            10,
		Preferences:        Preferences{ColorNicks: true},
	}
	if err := c.Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := c.Init(cfg); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if !c.Initialized() {
		t.Fatal("expected initialised context")
	}
	defer c.Close()

	if c.StyleTable().FontSize() != DefaultFontSize {
		t.Errorf("expected default font size, got %d", c.StyleTable().FontSize())
	}
	if got := c.Palette().RGBA(4); got.R != 1 || got.G != 2 || got.B != 3 {
		t.Errorf("expected palette loaded, got %v", got)
	}

	line := c.Transcode(Message{Raw: "<bob> see http://x.org"}, MessageContext{})
	if line.StyleAt(1) != ColorStyle(NickColor("bob")) {
		t.Errorf("expected nick color from preferences, got %d", line.StyleAt(1))
	}
	if c.URLs().Len() != 1 {
		t.Errorf("expected grabbed url, got %d", c.URLs().Len())
	}

	if c.Spell().State() != spell.StateAvailable {
		t.Fatalf("expected spell checking available, got %s", c.Spell().State())
	}
	misspelled := c.Annotator().Misspelled("hello wrld")
	if len(misspelled) != 1 || misspelled[0].Word != "wrld" {
		t.Errorf("expected wrld flagged, got %+v", misspelled)
	}
	extents := c.MeasureMisspelled("hello wrld")
	if len(extents) != 1 || extents[0].Start <= 0 || extents[0].Width() <= 0 {
		t.Errorf("unexpected extents %+v", extents)
	}

	oldTable := c.StyleTable()
	if err := c.SetFontSize(20); err != nil {
		t.Fatal(err)
	}
	if c.StyleTable() == oldTable || c.StyleTable().FontSize() != 20 || c.Fonts().Size() != 20 {
		t.Error("expected a rebuilt table and font set")
	}
	if oldTable.FontSize() != DefaultFontSize {
		t.Error("expected the old table to be left intact")
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if c.Initialized() || c.Palette() != nil {
		t.Error("expected released components after Close")
	}
}

func TestRenderContextSpellDisabled(t *testing.T) {
	loaded := false
	c := NewRenderContext(WithSpellCandidates([]spell.Candidate{{
		Name: "tracking",
		Load: func() (spell.Provider, error) {
			loaded = true
			return nil, spell.ErrUnavailable
		},
	}}))
	if err := c.Init(RenderConfig{}); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if loaded {
		t.Error("expected no probe when spell checking is disabled")
	}
	if len(c.Annotator().Misspelled("zzzqx")) != 0 {
		t.Error("expected no misspellings when disabled")
	}
}

func TestRenderContextDegradedFonts(t *testing.T) {
	c := NewRenderContext()
	err := c.Init(RenderConfig{FontPath: filepath.Join(t.TempDir(), "missing.ttf"), FontSize: 11})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Fonts() == nil || c.Fonts().Size() != 11 {
		t.Error("expected fallback font set")
	}
}

func TestRenderContextScreenshot(t *testing.T) {
	b := NewTextBuffer()
	b.Append(transcode("hi"))

	c := NewRenderContext()
	if img := c.Screenshot(b, 0); img.Bounds().Dx() != 2*7 {
		t.Errorf("expected basicfont width before Init, got %d", img.Bounds().Dx())
	}

	if err := c.Init(RenderConfig{FontSize: 14}); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	img := c.Screenshot(b, 3)
	wantHeight := c.Fonts().Face(FontRegular).Metrics().Height.Ceil() + 6
	if img.Bounds().Dy() != wantHeight {
		t.Errorf("expected height %d, got %d", wantHeight, img.Bounds().Dy())
	}
	if got := img.RGBAAt(0, 0); got != c.Palette().RGBA(ColorBg) {
		t.Errorf("expected background %v, got %v", c.Palette().RGBA(ColorBg), got)
	}
}

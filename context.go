package chatmarkup

import (
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/danielgatis/go-chatmarkup/spell"
)

// RenderConfig configures a RenderContext.
type RenderConfig struct {
	// FontSize is the point size of the style table and fonts.
	FontSize int
	// FontPath is an optional TrueType/OpenType file used instead of Go Mono.
	FontPath string

	// PalettePath is the palette file. Empty keeps the defaults.
	PalettePath string
	// WatchPalette reloads the palette when PalettePath changes. Requires Scheduler.
	WatchPalette bool
	// Scheduler runs palette reloads. Optional.
	Scheduler Scheduler

	// SpellEnabled turns the spell annotator on.
	SpellEnabled bool
	// SpellLanguages is the language list, separated by commas, spaces or tabs.
	SpellLanguages string
	// WordListDir holds "<lang>.dic" or "<lang>.txt" word lists.
	WordListDir string
	// PersonalDictionary is the SQLite file for personal words. Empty keeps them in memory.
	PersonalDictionary string

	// MaxURLs caps the URL grabber. Zero or less means unlimited.
	MaxURLs int

	Preferences Preferences
}

// RenderContext owns the process-wide rendering state: palette, style table,
// fonts, spell checker and captured URLs. Create one per process, Init it, and
// pass it to everything that renders. Accessors return nil before Init.
type RenderContext struct {
	cfg         RenderConfig
	initialized bool

	logger     zerolog.Logger
	bell       BellProvider
	clock      func() time.Time
	candidates []spell.Candidate

	palette    *Palette
	table      *StyleTable
	fonts      *FontSet
	store      spell.PersonalStore
	adapter    *spell.Adapter
	annotator  *spell.Annotator
	urls       *MemoryURLGrabber
	transcoder *Transcoder
	watcher    *PaletteWatcher
}

// RenderOption configures a RenderContext during construction.
type RenderOption func(*RenderContext)

// WithRenderLogger sets the logger passed to every component.
func WithRenderLogger(l zerolog.Logger) RenderOption {
	return func(c *RenderContext) {
		c.logger = l
	}
}

// WithRenderBell sets the bell handler of the transcoder.
func WithRenderBell(p BellProvider) RenderOption {
	return func(c *RenderContext) {
		c.bell = p
	}
}

// WithRenderClock sets the transcoder clock.
func WithRenderClock(clock func() time.Time) RenderOption {
	return func(c *RenderContext) {
		c.clock = clock
	}
}

// WithSpellCandidates replaces the default provider candidates.
func WithSpellCandidates(candidates []spell.Candidate) RenderOption {
	return func(c *RenderContext) {
		c.candidates = candidates
	}
}

// NewRenderContext creates an uninitialised context.
func NewRenderContext(opts ...RenderOption) *RenderContext {
	c := &RenderContext{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init builds every component from cfg. Missing palette files, fonts or
// dictionaries degrade to defaults and are only logged. Calling Init on an
// initialised context does nothing; Close it first to reconfigure.
func (c *RenderContext) Init(cfg RenderConfig) error {
	if c.initialized {
		return nil
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	c.cfg = cfg

	c.palette = NewPalette(WithPaletteLogger(c.logger))
	if cfg.PalettePath != "" {
		if err := c.palette.Load(cfg.PalettePath); err != nil {
			c.logger.Debug().Err(err).Str("path", cfg.PalettePath).Msg("palette load failed, using defaults")
		}
	}

	c.table = NewStyleTable(cfg.FontSize)
	c.fonts = c.buildFonts(cfg.FontSize)

	c.initSpell(cfg)

	c.urls = NewMemoryURLGrabber(cfg.MaxURLs)
	opts := []TranscoderOption{WithURLGrabber(c.urls), WithBell(c.bell)}
	if c.clock != nil {
		opts = append(opts, WithClock(c.clock))
	}
	c.transcoder = NewTranscoder(opts...)

	if cfg.WatchPalette && cfg.PalettePath != "" && cfg.Scheduler != nil {
		w, err := NewPaletteWatcher(c.palette, cfg.PalettePath, cfg.Scheduler, WithWatcherLogger(c.logger))
		if err != nil {
			c.logger.Debug().Err(err).Str("path", cfg.PalettePath).Msg("palette watch failed")
		} else {
			c.watcher = w
		}
	}

	c.initialized = true
	return nil
}

func (c *RenderContext) buildFonts(size int) *FontSet {
	if c.cfg.FontPath != "" {
		face, err := LoadFont(c.cfg.FontPath, float64(size))
		if err == nil {
			return NewFontSetFromFaces(float64(size), face, nil, nil)
		}
		c.logger.Debug().Err(err).Str("path", c.cfg.FontPath).Msg("font load failed, using Go Mono")
	}
	fonts, err := NewFontSet(float64(size))
	if err != nil {
		c.logger.Debug().Err(err).Msg("Go Mono load failed, using basic font")
		return NewFontSetFromFaces(float64(size), nil, nil, nil)
	}
	return fonts
}

func (c *RenderContext) initSpell(cfg RenderConfig) {
	c.store = spell.NewMemoryStore()
	if cfg.PersonalDictionary != "" {
		store, err := spell.OpenSQLiteStore(cfg.PersonalDictionary)
		if err != nil {
			c.logger.Debug().Err(err).Str("path", cfg.PersonalDictionary).Msg("personal dictionary unavailable")
		} else {
			c.store = store
		}
	}

	c.adapter = spell.NewAdapter(spell.WithLogger(c.logger))
	c.annotator = spell.NewAnnotator(c.adapter)
	c.annotator.SetEnabled(cfg.SpellEnabled)
	if !cfg.SpellEnabled {
		return
	}

	candidates := c.candidates
	if candidates == nil {
		candidates = spell.DefaultCandidates(cfg.WordListDir, c.store)
	}
	if c.adapter.Probe(candidates) == spell.StateAvailable {
		n := c.adapter.Init(cfg.SpellLanguages)
		c.logger.Debug().Str("provider", c.adapter.ProviderName()).Int("dictionaries", n).Msg("spell checking ready")
	}
}

// Initialized reports whether Init has run since the last Close.
func (c *RenderContext) Initialized() bool {
	return c.initialized
}

// Config returns the active configuration.
func (c *RenderContext) Config() RenderConfig {
	return c.cfg
}

// Palette returns the color palette.
func (c *RenderContext) Palette() *Palette {
	return c.palette
}

// StyleTable returns the table for the current font size.
func (c *RenderContext) StyleTable() *StyleTable {
	return c.table
}

// Fonts returns the faces for the current font size.
func (c *RenderContext) Fonts() *FontSet {
	return c.fonts
}

// Spell returns the dictionary adapter.
func (c *RenderContext) Spell() *spell.Adapter {
	return c.adapter
}

// Annotator returns the spell annotator.
func (c *RenderContext) Annotator() *spell.Annotator {
	return c.annotator
}

// URLs returns the hyperlinks captured by the transcoder.
func (c *RenderContext) URLs() *MemoryURLGrabber {
	return c.urls
}

// Transcoder returns the message transcoder.
func (c *RenderContext) Transcoder() *Transcoder {
	return c.transcoder
}

// Preferences returns the current preference snapshot.
func (c *RenderContext) Preferences() Preferences {
	return c.cfg.Preferences
}

// SetPreferences replaces the preference snapshot used by Transcode.
func (c *RenderContext) SetPreferences(p Preferences) {
	c.cfg.Preferences = p
}

// Transcode renders msg with the current preferences.
func (c *RenderContext) Transcode(msg Message, ctx MessageContext) Line {
	if c.transcoder == nil {
		return NewTranscoder().Transcode(msg, ctx, c.cfg.Preferences)
	}
	return c.transcoder.Transcode(msg, ctx, c.cfg.Preferences)
}

// MeasureMisspelled returns the pixel extents of the misspelled words of input
// text, drawn with the regular face. Nil before Init.
func (c *RenderContext) MeasureMisspelled(text string) []spell.Extent {
	if !c.initialized {
		return nil
	}
	return spell.Measure(text, c.annotator.Misspelled(text), c.fonts.Face(FontRegular))
}

// Screenshot renders buf with the context's table, fonts and palette, and
// squiggles misspelled words when spell checking is enabled. Before Init it
// falls back to buf.Screenshot.
func (c *RenderContext) Screenshot(buf *TextBuffer, padding int) *image.RGBA {
	if !c.initialized {
		return buf.Screenshot()
	}
	return buf.ScreenshotWithConfig(&ScreenshotConfig{
		Table:   c.table,
		Fonts:   c.fonts,
		Palette: c.palette,
		Spell:   c.annotator,
		Padding: padding,
	})
}

// SetFontSize replaces the style table and fonts with new ones built for size.
// Existing tables are never mutated.
func (c *RenderContext) SetFontSize(size int) error {
	if !c.initialized {
		return errors.New("render context not initialised")
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	if size == c.cfg.FontSize {
		return nil
	}
	c.cfg.FontSize = size
	old := c.fonts
	c.table = NewStyleTable(size)
	c.fonts = c.buildFonts(size)
	if old != nil {
		old.Close()
	}
	return nil
}

// Close releases every component. It is safe to call when never initialised
// and safe to call twice.
func (c *RenderContext) Close() error {
	if !c.initialized {
		return nil
	}
	var errs []error
	if c.watcher != nil {
		errs = append(errs, c.watcher.Close())
		c.watcher = nil
	}
	if c.adapter != nil {
		c.adapter.Teardown()
	}
	if c.store != nil {
		errs = append(errs, c.store.Close())
		c.store = nil
	}
	if c.fonts != nil {
		errs = append(errs, c.fonts.Close())
		c.fonts = nil
	}
	c.palette = nil
	c.table = nil
	c.adapter = nil
	c.annotator = nil
	c.urls = nil
	c.transcoder = nil
	c.initialized = false
	return errors.Join(errs...)
}

// Package config loads chatmarkup settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	chatmarkup "github.com/danielgatis/go-chatmarkup"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config is the full settings file.
type Config struct {
	Display DisplayConfig `toml:"display" yaml:"display"`
	Spell   SpellConfig   `toml:"spell" yaml:"spell"`
	Palette PaletteConfig `toml:"palette" yaml:"palette"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// DisplayConfig controls message rendering.
type DisplayConfig struct {
	FontSize        int    `toml:"font_size" yaml:"font_size" validate:"gte=4,lte=96"`
	FontPath        string `toml:"font_path" yaml:"font_path"`
	ShowTimestamps  bool   `toml:"show_timestamps" yaml:"show_timestamps"`
	TimestampFormat string `toml:"timestamp_format" yaml:"timestamp_format" validate:"required_if=ShowTimestamps true"`
	ColorNicks      bool   `toml:"color_nicks" yaml:"color_nicks"`
	MaxURLs         int    `toml:"max_urls" yaml:"max_urls" validate:"gte=0"`
}

// SpellConfig controls the spell annotator.
type SpellConfig struct {
	Enabled            bool   `toml:"enabled" yaml:"enabled"`
	Languages          string `toml:"languages" yaml:"languages"`
	WordListDir        string `toml:"wordlist_dir" yaml:"wordlist_dir"`
	PersonalDictionary string `toml:"personal_dictionary" yaml:"personal_dictionary"`
}

// PaletteConfig locates the palette file.
type PaletteConfig struct {
	Path  string `toml:"path" yaml:"path"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level         string `toml:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	HumanReadable bool   `toml:"human_readable" yaml:"human_readable"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			FontSize:        chatmarkup.DefaultFontSize,
			ShowTimestamps:  false,
			TimestampFormat: chatmarkup.DefaultTimestampFormat,
			ColorNicks:      true,
			MaxURLs:         500,
		},
		Spell: SpellConfig{
			Enabled:   true,
			Languages: "en",
		},
		Log: LogConfig{
			Level:         "info",
			HumanReadable: true,
		},
	}
}

// Load reads path over the defaults. The decoder is chosen by extension: .toml,
// .yaml or .yml. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in the format given by its extension.
func (c *Config) Save(path string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return fmt.Errorf("encode toml config: %w", err)
		}
		data = []byte(sb.String())
	case ".yaml", ".yml":
		out, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode yaml config: %w", err)
		}
		data = out
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Preferences returns the transcoder preference snapshot.
func (c *Config) Preferences() chatmarkup.Preferences {
	return chatmarkup.Preferences{
		ShowTimestamps:  c.Display.ShowTimestamps,
		TimestampFormat: c.Display.TimestampFormat,
		ColorNicks:      c.Display.ColorNicks,
	}
}

// RenderConfig converts the settings into a RenderContext configuration.
// sched is used for palette watching and may be nil.
func (c *Config) RenderConfig(sched chatmarkup.Scheduler) chatmarkup.RenderConfig {
	return chatmarkup.RenderConfig{
		FontSize:           c.Display.FontSize,
		FontPath:           c.Display.FontPath,
		PalettePath:        c.Palette.Path,
		WatchPalette:       c.Palette.Watch,
		Scheduler:          sched,
		SpellEnabled:       c.Spell.Enabled,
		SpellLanguages:     c.Spell.Languages,
		WordListDir:        c.Spell.WordListDir,
		PersonalDictionary: c.Spell.PersonalDictionary,
		MaxURLs:            c.Display.MaxURLs,
		Preferences:        c.Preferences(),
	}
}

package config

import (
	"fmt"

	"github.com/dshills/blockdrop/internal/model"
)

// Default configuration values.
const (
	DefaultActivationThreshold = 3.0
	DefaultIndicatorThickness  = 3.0
	DefaultListNestIndent      = 24.0
	DefaultNoteWidth           = 800.0
	DefaultNoteHeight          = 95.0
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "console"
	DefaultServiceName         = "blockdrop"
)

// Config is the complete engine configuration.
type Config struct {
	Drag      DragConfig          `toml:"drag" yaml:"drag"`
	Indicator IndicatorConfig     `toml:"indicator" yaml:"indicator"`
	List      ListConfig          `toml:"list" yaml:"list"`
	Note      NoteConfig          `toml:"note" yaml:"note"`
	Cards     map[string]CardSize `toml:"cards" yaml:"cards"`
	Logging   LoggingConfig       `toml:"logging" yaml:"logging"`
}

// DragConfig configures gesture activation.
type DragConfig struct {
	// ActivationThreshold is the pointer travel, in viewport pixels, that
	// turns a pointer-down into a drag.
	ActivationThreshold float64 `toml:"activation_threshold" yaml:"activation_threshold"`
}

// IndicatorConfig configures the drop indicator.
type IndicatorConfig struct {
	// Thickness is the indicator height at zoom 1.
	Thickness float64 `toml:"thickness" yaml:"thickness"`
}

// ListConfig configures list nesting.
type ListConfig struct {
	// NestIndent is the horizontal offset past a list item's left edge that
	// turns a drop into nesting.
	NestIndent float64 `toml:"nest_indent" yaml:"nest_indent"`
}

// NoteConfig configures notes created to wrap canvas drops.
type NoteConfig struct {
	DefaultWidth  float64 `toml:"default_width" yaml:"default_width"`
	DefaultHeight float64 `toml:"default_height" yaml:"default_height"`
}

// CardSize is the canonical size of a card flavour.
type CardSize struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Format      string `toml:"format" yaml:"format"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
	AddSource   bool   `toml:"add_source" yaml:"add_source"`
	File        string `toml:"file" yaml:"file"`
	MaxSize     int    `toml:"max_size" yaml:"max_size"`
	MaxBackups  int    `toml:"max_backups" yaml:"max_backups"`
	MaxAge      int    `toml:"max_age" yaml:"max_age"`
	Compress    bool   `toml:"compress" yaml:"compress"`
}

// DefaultCardSizes returns the canonical card sizes keyed by flavour name.
func DefaultCardSizes() map[string]CardSize {
	return map[string]CardSize{
		model.FlavourAttachment.String(): {Width: 752, Height: 74},
		model.FlavourBookmark.String():   {Width: 752, Height: 116},
		model.FlavourEmbed.String():      {Width: 752, Height: 444},
		model.FlavourLinkedDoc.String():  {Width: 752, Height: 116},
		model.FlavourSurfaceRef.String(): {Width: 752, Height: 455},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Drag:      DragConfig{ActivationThreshold: DefaultActivationThreshold},
		Indicator: IndicatorConfig{Thickness: DefaultIndicatorThickness},
		List:      ListConfig{NestIndent: DefaultListNestIndent},
		Note:      NoteConfig{DefaultWidth: DefaultNoteWidth, DefaultHeight: DefaultNoteHeight},
		Cards:     DefaultCardSizes(),
		Logging: LoggingConfig{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			ServiceName: DefaultServiceName,
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
		},
	}
}

// CardSize returns the canonical size for a card flavour.
func (c *Config) CardSize(f model.Flavour) (CardSize, bool) {
	size, ok := c.Cards[f.String()]
	return size, ok
}

// Validate checks every value for range and consistency.
func (c *Config) Validate() error {
	if c.Drag.ActivationThreshold < 0 {
		return fmt.Errorf("%w: drag.activation_threshold must be >= 0", ErrInvalidValue)
	}
	if c.Indicator.Thickness <= 0 {
		return fmt.Errorf("%w: indicator.thickness must be > 0", ErrInvalidValue)
	}
	if c.List.NestIndent < 0 {
		return fmt.Errorf("%w: list.nest_indent must be >= 0", ErrInvalidValue)
	}
	if c.Note.DefaultWidth <= 0 || c.Note.DefaultHeight <= 0 {
		return fmt.Errorf("%w: note default size must be positive", ErrInvalidValue)
	}
	for name, size := range c.Cards {
		f, err := model.ParseFlavour(name)
		if err != nil || !f.IsCard() {
			return fmt.Errorf("%w: cards.%s is not a card flavour", ErrInvalidValue, name)
		}
		if size.Width <= 0 || size.Height <= 0 {
			return fmt.Errorf("%w: cards.%s size must be positive", ErrInvalidValue, name)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q (must be console or json)", ErrInvalidValue, c.Logging.Format)
	}
	return nil
}

// fillCards restores default sizes for card flavours a file left out.
func (c *Config) fillCards() {
	if c.Cards == nil {
		c.Cards = make(map[string]CardSize)
	}
	for name, size := range DefaultCardSizes() {
		if _, ok := c.Cards[name]; !ok {
			c.Cards[name] = size
		}
	}
}

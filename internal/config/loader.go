package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "BLOCKDROP_"

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath selects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Loader resolves configuration from defaults, a file and the environment.
type Loader struct {
	readFile  func(string) ([]byte, error)
	lookupEnv func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) LoaderOption {
	return func(l *Loader) {
		l.readFile = fn
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupEnv = fn
	}
}

// NewLoader creates a loader backed by the OS.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		readFile:  os.ReadFile,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves configuration using the OS file system and environment.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Load resolves the configuration. An empty path skips the file layer.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		format, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		data, err := l.readFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// File doesn't exist, not an error
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, format, bytes.NewReader(data), cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.fillCards()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a configuration document over the defaults.
// The environment layer is not applied.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := Default()
	if err := decode("<reader>", format, r, cfg); err != nil {
		return nil, err
	}
	cfg.fillCards()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(source string, format Format, r io.Reader, cfg *Config) error {
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(cfg)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name string
	set  func(cfg *Config, value string) error
}

func floatBinding(name string, field func(*Config) *float64) envBinding {
	return envBinding{name: name, set: func(cfg *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, value)
		}
		*field(cfg) = v
		return nil
	}}
}

func stringBinding(name string, field func(*Config) *string) envBinding {
	return envBinding{name: name, set: func(cfg *Config, value string) error {
		*field(cfg) = value
		return nil
	}}
}

var envBindings = []envBinding{
	floatBinding("DRAG_THRESHOLD", func(c *Config) *float64 { return &c.Drag.ActivationThreshold }),
	floatBinding("INDICATOR_THICKNESS", func(c *Config) *float64 { return &c.Indicator.Thickness }),
	floatBinding("LIST_NEST_INDENT", func(c *Config) *float64 { return &c.List.NestIndent }),
	floatBinding("NOTE_WIDTH", func(c *Config) *float64 { return &c.Note.DefaultWidth }),
	floatBinding("NOTE_HEIGHT", func(c *Config) *float64 { return &c.Note.DefaultHeight }),
	stringBinding("LOG_LEVEL", func(c *Config) *string { return &c.Logging.Level }),
	stringBinding("LOG_FORMAT", func(c *Config) *string { return &c.Logging.Format }),
	stringBinding("LOG_FILE", func(c *Config) *string { return &c.Logging.File }),
}

func (l *Loader) applyEnv(cfg *Config) error {
	for _, b := range envBindings {
		value, ok := l.lookupEnv(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(cfg, value); err != nil {
			return err
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrUnsupportedFormat indicates a config file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalidValue indicates a config value outside its allowed range.
	ErrInvalidValue = errors.New("invalid config value")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

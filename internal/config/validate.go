package config

import (
	"fmt"
	"slices"

	"github.com/thoreinstein/matter/internal/errors"
)

var (
	// ErrUnsupportedVersion indicates a version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidValue indicates a key holding a value outside its allowed set.
	ErrInvalidValue = errors.New("invalid value")
)

var (
	inputFormats  = []string{"auto", "toml", "yaml", "json"}
	outputFormats = []string{"json", "yaml", "toml"}
)

// Validate checks cfg and returns every problem found, or nil.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}
	if !slices.Contains(inputFormats, cfg.DefaultFormat) {
		errs = append(errs, &FieldError{Field: "default_format", Value: cfg.DefaultFormat, Err: ErrInvalidValue})
	}
	if !slices.Contains(outputFormats, cfg.Output) {
		errs = append(errs, &FieldError{Field: "output", Value: cfg.Output, Err: ErrInvalidValue})
	}
	if cfg.Workers < 0 {
		errs = append(errs, &FieldError{Field: "workers", Value: fmt.Sprint(cfg.Workers), Err: ErrInvalidValue})
	}

	exts := make([]string, 0, len(cfg.Extensions))
	for ext := range cfg.Extensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	for _, ext := range exts {
		format := cfg.Extensions[ext]
		if format == "auto" || !slices.Contains(inputFormats, format) {
			errs = append(errs, &FieldError{Field: "extensions." + ext, Value: format, Err: ErrInvalidValue})
		}
	}

	return errs
}

// FieldError reports a bad value for one config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/internal/names"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("invalid config")

// Config holds the index definitions of one record type.
type Config struct {
	// DateFormat selects the toDate extension: standard, american or
	// japanese. Empty means standard.
	DateFormat string `yaml:"date_format,omitempty"`

	Indexes []IndexSpec `yaml:"indexes"`
}

// IndexSpec defines one index.
type IndexSpec struct {
	Column string `yaml:"column"`

	// Kind is hash, date or range.
	Kind string `yaml:"kind"`

	// Buckets defaults to index.DefaultBuckets.
	Buckets int `yaml:"buckets,omitempty"`

	// Min and Max bound a range index.
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the definitions without a schema.
func (c *Config) Validate() error {
	if _, err := c.Format(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Indexes))
	for i, spec := range c.Indexes {
		if spec.Column == "" {
			return fmt.Errorf("%w: indexes[%d]: column is required", ErrInvalid, i)
		}
		key := names.Fold(spec.Column)
		if seen[key] {
			return fmt.Errorf("%w: indexes[%d]: column %q indexed twice", ErrInvalid, i, spec.Column)
		}
		seen[key] = true
		kind, ok := index.ParseKind(spec.Kind)
		if !ok {
			return fmt.Errorf("%w: indexes[%d]: unknown kind %q", ErrInvalid, i, spec.Kind)
		}
		if spec.Buckets < 0 {
			return fmt.Errorf("%w: indexes[%d]: buckets must be positive", ErrInvalid, i)
		}
		hasRange := spec.Min != nil || spec.Max != nil
		switch {
		case kind == index.Range && (spec.Min == nil || spec.Max == nil):
			return fmt.Errorf("%w: indexes[%d]: range index %q needs min and max", ErrInvalid, i, spec.Column)
		case kind != index.Range && hasRange:
			return fmt.Errorf("%w: indexes[%d]: %s index %q does not take min or max", ErrInvalid, i, kind, spec.Column)
		}
	}
	return nil
}

// DateSource returns the toDate extension named by DateFormat.
func (c *Config) DateSource() (extension.Source, error) {
	f, err := c.Format()
	if err != nil {
		return nil, err
	}
	return extension.DateSource(f), nil
}

// Format resolves DateFormat.
func (c *Config) Format() (extension.DateFormat, error) {
	switch strings.ToLower(c.DateFormat) {
	case "", extension.StandardFormat.Name:
		return extension.StandardFormat, nil
	case extension.AmericanFormat.Name:
		return extension.AmericanFormat, nil
	case extension.JapaneseFormat.Name:
		return extension.JapaneseFormat, nil
	default:
		return extension.DateFormat{}, fmt.Errorf("%w: unknown date_format %q", ErrInvalid, c.DateFormat)
	}
}

// Options returns the index options of the spec.
func (s IndexSpec) Options() []index.Option {
	var opts []index.Option
	if s.Buckets > 0 {
		opts = append(opts, index.WithBuckets(s.Buckets))
	}
	if s.Min != nil && s.Max != nil {
		opts = append(opts, index.WithRange(*s.Min, *s.Max))
	}
	return opts
}

// BuildSet defines every configured index on a new, empty index.Set.
// Columns are resolved through the schema's accessors.
func BuildSet[R comparable](c *Config, schema *sieve.Schema[R]) (*index.Set[R], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	set := index.NewSet[R]()
	for _, spec := range c.Indexes {
		acc, ok := sieve.IndexAccessor(schema, spec.Column)
		if !ok {
			return nil, fmt.Errorf("%w: column %q is not declared by %s", ErrInvalid, spec.Column, schema.Name())
		}
		kind, _ := index.ParseKind(spec.Kind)
		if _, err := set.Define(kind, spec.Column, acc, spec.Options()...); err != nil {
			return nil, fmt.Errorf("index %q: %w", spec.Column, err)
		}
	}
	return set, nil
}

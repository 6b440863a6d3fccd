// Package config loads the server configuration.
//
// Defaults are embedded from default.yaml. A user file is decoded on top of
// them, so it only needs the fields it changes.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Validation errors.
var (
	ErrApplicationURI   = errors.New("application_uri must not be empty")
	ErrNamespaceURI     = errors.New("namespace_uri must not be empty")
	ErrRegistryCapacity = errors.New("registry_capacity must be at least 1")
	ErrEnumValuesLen    = errors.New("enum_values_len must be at least 1")
	ErrLogLevel         = errors.New("log_level must be debug, info, warn or error")
)

// Config holds the server configuration.
type Config struct {
	ApplicationURI   string `yaml:"application_uri"`
	NamespaceURI     string `yaml:"namespace_uri"`
	RegistryCapacity int    `yaml:"registry_capacity"`
	NodeIDBase       uint32 `yaml:"node_id_base"`
	EnumValuesLen    int    `yaml:"enum_values_len"`
	LogLevel         string `yaml:"log_level"`
	EventLog         string `yaml:"event_log"`
}

// Default returns the embedded default configuration.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Load reads path on top of the defaults and validates the result. An empty
// path yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := c.Decode(data); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, c.Validate()
}

// Decode overlays the YAML document data onto c. Unknown fields are
// rejected.
func (c *Config) Decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks that the configuration can build a model.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.ApplicationURI) == "" {
		err = multierr.Append(err, ErrApplicationURI)
	}
	if strings.TrimSpace(c.NamespaceURI) == "" {
		err = multierr.Append(err, ErrNamespaceURI)
	}
	if c.RegistryCapacity < 1 {
		err = multierr.Append(err, ErrRegistryCapacity)
	}
	if c.EnumValuesLen < 1 {
		err = multierr.Append(err, ErrEnumValuesLen)
	}
	if _, lerr := c.Level(); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

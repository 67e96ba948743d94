// Package config provides configuration management for txml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/texml/internal/input"
)

// Output formats.
const (
	FormatXML      = "xml"
	FormatMarkdown = "markdown"
)

// Config holds the txml configuration.
type Config struct {
	InputEncoding         string `yaml:"input_encoding,omitempty" toml:"input_encoding,omitempty"`
	RawSubfigures         bool   `yaml:"raw_subfigures,omitempty" toml:"raw_subfigures,omitempty"`
	SubfiguresPerRow      int    `yaml:"subfigures_per_row,omitempty" toml:"subfigures_per_row,omitempty"`
	DoubleQuoteAttributes bool   `yaml:"double_quote_attributes,omitempty" toml:"double_quote_attributes,omitempty"`
	OutputFormat          string `yaml:"output_format,omitempty" toml:"output_format,omitempty"`
	Trace                 bool   `yaml:"trace,omitempty" toml:"trace,omitempty"`
	SourceName            string `yaml:"source_name,omitempty" toml:"source_name,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.InputEncoding == "" {
		c.InputEncoding = "utf-8"
	}
	if c.SubfiguresPerRow == 0 {
		c.SubfiguresPerRow = 2
	}
	if c.OutputFormat == "" {
		c.OutputFormat = FormatXML
	}
}

// Validate checks that all fields hold accepted values.
func (c *Config) Validate() error {
	if _, err := input.Lookup(c.InputEncoding); err != nil {
		return err
	}
	switch c.OutputFormat {
	case FormatXML, FormatMarkdown:
	default:
		return fmt.Errorf("invalid output_format %q (valid: xml, markdown)", c.OutputFormat)
	}
	if c.SubfiguresPerRow <= 0 {
		return errors.New("subfigures_per_row must be positive")
	}
	return nil
}

// EnvVars lists the environment variables LoadFromEnv reads.
var EnvVars = []string{"TXML_INPUT_ENCODING", "TXML_OUTPUT_FORMAT", "TXML_RAW_SUBFIGURES", "TXML_TRACE"}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: TXML_* → existing config value
func (c *Config) LoadFromEnv() {
	if enc := os.Getenv("TXML_INPUT_ENCODING"); enc != "" {
		c.InputEncoding = enc
	}
	if format := os.Getenv("TXML_OUTPUT_FORMAT"); format != "" {
		c.OutputFormat = format
	}
	envBool("TXML_RAW_SUBFIGURES", &c.RawSubfigures)
	envBool("TXML_TRACE", &c.Trace)
}

func envBool(name string, dst *bool) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: ignoring %s=%q: not a boolean", name, v)
		return
	}
	*dst = b
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "txml", "config.yml")
	}

	// Fall back to ~/.config/txml/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".txml", "config.yml")
	}

	return filepath.Join(home, ".config", "txml", "config.yml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to the specified path. A .toml path is
// written as TOML, anything else as YAML.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

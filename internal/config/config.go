package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/meigma/renametar/internal/naming"
)

// EnvVar names the environment variable consulted by Load.
const EnvVar = "RENAMETAR_CONFIG"

// Log formats accepted in LogFormat.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	logFormats   = []string{LogFormatAuto, LogFormatText, LogFormatJSON}
	compressions = []string{"auto", "none", "tar", "gzip", "gz", "zstd", "zst", "lz4"}
)

// Config is the full set of settings for one renametar invocation.
type Config struct {
	// Output is the directory receiving renamed files. Optional.
	Output string `yaml:"output"`

	// MappingFile receives one "<original> <safe name>" line per accepted entry.
	MappingFile string `yaml:"mapping_file"`

	// ErrorsFile receives the rejected-entry diagnostics at the end of the run.
	ErrorsFile string `yaml:"errors_file"`

	// CleanPaths enables trimming, character filtering and underscore
	// replacement.
	CleanPaths bool `yaml:"clean_paths"`

	// RemovePrefix is stripped once from the start of every lower-cased path.
	RemovePrefix string `yaml:"remove_prefix"`

	// FilterChars are removed from paths when CleanPaths is set.
	FilterChars string `yaml:"filter_chars"`

	// Compression is one of auto, none, gzip, zstd or lz4.
	Compression string `yaml:"compression"`

	PreserveMode  bool `yaml:"preserve_mode"`
	PreserveTimes bool `yaml:"preserve_times"`

	// Progress toggles the progress bar. It is only drawn on a terminal.
	Progress bool `yaml:"progress"`

	// LogFormat is auto, text or json. Auto picks text on a terminal.
	LogFormat string `yaml:"log_format"`

	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		FilterChars: naming.DefaultFilterChars,
		Compression: "auto",
		Progress:    true,
		LogFormat:   LogFormatAuto,
	}
}

// Load reads the file named by RENAMETAR_CONFIG. When the variable is unset
// it returns Default.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a YAML file and merges it over Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.expandPaths()
	return cfg, nil
}

// expandPaths expands ${VAR} and $VAR references in path fields.
func (c *Config) expandPaths() {
	c.Output = os.ExpandEnv(c.Output)
	c.MappingFile = os.ExpandEnv(c.MappingFile)
	c.ErrorsFile = os.ExpandEnv(c.ErrorsFile)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Output == "" && c.MappingFile == "" {
		errs = append(errs, errors.New("one of output or mapping_file is required"))
	}

	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format must be one of: %v", logFormats))
	}

	if !slices.Contains(compressions, c.Compression) {
		errs = append(errs, fmt.Errorf("compression must be one of: auto, none, gzip, zstd, lz4 (got %q)", c.Compression))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize limits YAML input to prevent memory exhaustion (1 MiB).
const MaxConfigSize = 1 << 20

// Field length limits.
const (
	MaxEncodingLength    = 40  // IANA names stay well below this
	MaxLangLength        = 35  // BCP 47 tag
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
	MaxTimeoutLength     = 20  // "1m30s"
	MaxAddrLength        = 255 // host:port
)

// Margin bounds in inches, mirroring the converter's page validation.
const (
	MinMargin = 0.25
	MaxMargin = 3.0
)

// appDirName is the directory searched under os.UserConfigDir.
const appDirName = "go-csv2pdf"

// Config holds all configuration for document generation.
type Config struct {
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	Page    PageConfig   `yaml:"page"`
	Timeout string       `yaml:"timeout"` // Go duration, e.g. "45s" (empty = converter default)
	Serve   ServeConfig  `yaml:"serve"`
}

// InputConfig defines how data files are read.
type InputConfig struct {
	Encoding    string `yaml:"encoding"`    // Data file encoding (empty = utf-8)
	DoubleQuote bool   `yaml:"doubleQuote"` // Force doubled-quote escaping
}

// OutputConfig defines the produced document.
type OutputConfig struct {
	HTML bool   `yaml:"html"` // Emit HTML instead of PDF
	Lang string `yaml:"lang"` // Document language (empty = "en")
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// ServeConfig defines the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"` // Listen address for --serve without a value
}

// Validate checks field lengths, enums and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.encoding", c.Input.Encoding, MaxEncodingLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.lang", c.Output.Lang, MaxLangLength); err != nil {
		return err
	}
	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}

	// Validate page fields
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
			// valid
		default:
			return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidValue, c.Page.Size)
		}
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
			// valid
		default:
			return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMargin || c.Page.Margin > MaxMargin) {
		return fmt.Errorf("%w: page.margin %.2f (must be between %.2f and %.2f)", ErrInvalidValue, c.Page.Margin, MinMargin, MaxMargin)
	}

	// Validate timeout
	if err := validateFieldLength("timeout", c.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Timeout. Zero means unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidValue, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q must be positive", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every field unset, so flags and
// library defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data. Unknown fields are rejected.
// An empty document yields DefaultConfig.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	cfg := DefaultConfig()
	if strings.TrimSpace(string(data)) != "" {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the files LoadConfig tries for a config name, in order:
// <name>.yaml and <name>.yml in the current directory, then in
// <user config dir>/go-csv2pdf/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-csv2pdf/internal/config"
)

// envPrefix marks the tool's environment variables.
const envPrefix = "CSV2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // CSV2PDF_CONFIG: config file name or path
	Encoding   string // CSV2PDF_ENCODING: data file encoding
	Lang       string // CSV2PDF_LANG: document language
	PageSize   string // CSV2PDF_PAGE_SIZE: a4, letter, legal
	Timeout    string // CSV2PDF_TIMEOUT: PDF generation timeout
}

// knownEnvVars lists valid CSV2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CSV2PDF_CONFIG":    true,
	"CSV2PDF_CONTAINER": true,
	"CSV2PDF_ENCODING":  true,
	"CSV2PDF_LANG":      true,
	"CSV2PDF_PAGE_SIZE": true,
	"CSV2PDF_TIMEOUT":   true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("CSV2PDF_CONFIG"),
		Encoding:   getenv("CSV2PDF_ENCODING"),
		Lang:       getenv("CSV2PDF_LANG"),
		PageSize:   getenv("CSV2PDF_PAGE_SIZE"),
		Timeout:    getenv("CSV2PDF_TIMEOUT"),
	}
}

// warnUnknownEnvVars writes warnings for unrecognized CSV2PDF_* variables.
// Helps catch typos like CSV2PDF_ENCODNG.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// CLI flags are applied afterwards, so: CLI flags > config file > env > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Encoding != "" && cfg.Input.Encoding == "" {
		cfg.Input.Encoding = env.Encoding
	}
	if env.Lang != "" && cfg.Output.Lang == "" {
		cfg.Output.Lang = env.Lang
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Timeout != "" && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout
	}
}

package main

// Notes:
// - loadEnvConfig: we test every CSV2PDF_* variable through an injected getenv.
//   Values are passed through unparsed; config validation rejects bad ones.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test priority behavior (env doesn't override config).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-csv2pdf/internal/config"
)

// mapGetenv returns a getenv backed by vars.
func mapGetenv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("all variables", func(t *testing.T) {
		t.Parallel()

		cfg := loadEnvConfig(mapGetenv(map[string]string{
			"CSV2PDF_CONFIG":    "/path/to/config.yaml",
			"CSV2PDF_ENCODING":  "iso-8859-15",
			"CSV2PDF_LANG":      "fi",
			"CSV2PDF_PAGE_SIZE": "letter",
			"CSV2PDF_TIMEOUT":   "2m",
		}))

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
		}
		if cfg.Encoding != "iso-8859-15" {
			t.Errorf("Encoding = %q, want iso-8859-15", cfg.Encoding)
		}
		if cfg.Lang != "fi" {
			t.Errorf("Lang = %q, want fi", cfg.Lang)
		}
		if cfg.PageSize != "letter" {
			t.Errorf("PageSize = %q, want letter", cfg.PageSize)
		}
		if cfg.Timeout != "2m" {
			t.Errorf("Timeout = %q, want 2m", cfg.Timeout)
		}
	})

	t.Run("empty env returns zero values", func(t *testing.T) {
		t.Parallel()

		cfg := loadEnvConfig(mapGetenv(nil))

		if *cfg != (envConfig{}) {
			t.Errorf("loadEnvConfig() = %+v, want zero value", *cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Unknown variable detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	t.Run("warns on unknown CSV2PDF_ vars", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf, []string{
			"CSV2PDF_ENCODNG=latin1",
			"CSV2PDF_STYLE=x",
		})

		output := buf.String()
		if !strings.Contains(output, "CSV2PDF_ENCODNG") {
			t.Errorf("should warn about CSV2PDF_ENCODNG, got: %s", output)
		}
		if !strings.Contains(output, "CSV2PDF_STYLE") {
			t.Errorf("should warn about CSV2PDF_STYLE, got: %s", output)
		}
		if !strings.Contains(output, "typo?") {
			t.Errorf("should suggest typo, got: %s", output)
		}
	})

	t.Run("no warning for known vars", func(t *testing.T) {
		t.Parallel()

		environ := make([]string, 0, len(knownEnvVars))
		for name := range knownEnvVars {
			environ = append(environ, name+"=value")
		}

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf, environ)

		if buf.Len() > 0 {
			t.Errorf("should not warn for known vars, got: %s", buf.String())
		}
	})

	t.Run("ignores other prefixes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf, []string{"PATH=/bin", "ROD_NO_SANDBOX=1", "MD2PDF_STYLE=x"})

		if buf.Len() > 0 {
			t.Errorf("should ignore non-CSV2PDF vars, got: %s", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority over config values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills empty config fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			Encoding: "cp1252",
			Lang:     "de",
			PageSize: "legal",
			Timeout:  "45s",
		}, cfg)

		if cfg.Input.Encoding != "cp1252" {
			t.Errorf("Input.Encoding = %q, want cp1252", cfg.Input.Encoding)
		}
		if cfg.Output.Lang != "de" {
			t.Errorf("Output.Lang = %q, want de", cfg.Output.Lang)
		}
		if cfg.Page.Size != "legal" {
			t.Errorf("Page.Size = %q, want legal", cfg.Page.Size)
		}
		if cfg.Timeout != "45s" {
			t.Errorf("Timeout = %q, want 45s", cfg.Timeout)
		}
	})

	t.Run("config values win", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{
			Input:   config.InputConfig{Encoding: "utf-8"},
			Output:  config.OutputConfig{Lang: "fi"},
			Page:    config.PageConfig{Size: "a4"},
			Timeout: "1m",
		}
		applyEnvConfig(&envConfig{
			Encoding: "cp1252",
			Lang:     "de",
			PageSize: "legal",
			Timeout:  "45s",
		}, cfg)

		if cfg.Input.Encoding != "utf-8" || cfg.Output.Lang != "fi" || cfg.Page.Size != "a4" || cfg.Timeout != "1m" {
			t.Errorf("env overrode config: %+v", cfg)
		}
	})
}

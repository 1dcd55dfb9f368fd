// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-csv2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large data files, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-csv2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains go-csv2pdf) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-csv2pdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStylesheet returns hints for a missing PDF stylesheet.
func ForStylesheet(cssPath string) string {
	return format("PDF output needs " + cssPath + " next to the template; use --html to preview without it")
}

// ForEncoding returns hints for data files that do not decode.
func ForEncoding() string {
	return format("set --encoding to the file's encoding, e.g. iso-8859-15 or windows-1252")
}

// ForSniff returns hints for data files whose delimiter cannot be detected.
func ForSniff() string {
	return format("data needs at least two columns separated by one of , ; | : or tab, with the same count on every line")
}

// ForUndefinedField returns hints for templates printing a field the data
// lacks. Known fields are listed so typos stand out.
func ForUndefinedField(known []string) string {
	hint := "guard optional fields with {{if .field}}...{{end}}"
	if len(known) > 0 {
		hint += "; data fields: " + strings.Join(known, ", ")
	}
	return format(hint)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// ciVars are the variables whose presence marks a CI run.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// runDoctor checks that PDF output can work on this machine and returns an
// exit code: ExitSuccess when ready or only warnings, ExitGeneral on errors.
func runDoctor(env *Environment, jsonOutput bool) int {
	result := diagnose(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// diagnose performs all checks, reading variables through getenv.
func diagnose(getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: doctorReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEnvironment(result, getenv)
	checkChrome(result, getenv)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = doctorErrors
	} else if len(result.Warnings) > 0 {
		result.Status = doctorWarnings
	}
	return result
}

// sandboxDisabled mirrors the launcher: the sandbox is off with
// ROD_NO_SANDBOX=1, CI=true or an explicit ROD_BROWSER_BIN.
func sandboxDisabled(getenv func(string) string) bool {
	return getenv("ROD_NO_SANDBOX") == "1" || getenv("CI") == "true" || getenv("ROD_BROWSER_BIN") != ""
}

// checkChrome detects the browser used for PDF output.
func checkChrome(result *doctorResult, getenv func(string) string) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN (--html and --serve work without it)")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from LookPath or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = !sandboxDisabled(getenv)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !sandboxDisabled(getenv) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether the process runs in a container and which
// signal said so. Variables are checked before the filesystem marker.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("CSV2PDF_CONTAINER") == "1" {
		return true, "CSV2PDF_CONTAINER=1"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	return false, ""
}

// checkSystem verifies the browser can write its profile and page files.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "csv2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "csv2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF output)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case doctorReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case doctorWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case doctorErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

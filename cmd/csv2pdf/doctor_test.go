package main

// Notes:
// - Variables are injected through Environment.Getenv, so these tests run in
//   parallel without touching the process environment.
// - Chrome detection uses a fake browser script named by ROD_BROWSER_BIN;
//   launcher.LookPath itself depends on the machine and is not asserted.
// - The /.dockerenv marker is checked after every variable, so variable-driven
//   container hints are stable inside Docker too.

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeChrome writes an executable that prints a version line.
func fakeChrome(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script browser stub needs a Unix shell")
	}
	path := filepath.Join(t.TempDir(), "chromium")
	script := "#!/bin/sh\necho 'Chromium 120.0.6099.0'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func doctorJSON(t *testing.T, vars map[string]string) (*doctorResult, int) {
	t.Helper()
	env, stdout, _ := testEnv(&mockConverter{}, vars)

	code := runMain([]string{"--doctor", "--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput was: %s", err, stdout.String())
	}
	return &result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctor_JSONOutput - Structure and exit code
// ---------------------------------------------------------------------------

func TestRunDoctor_JSONOutput(t *testing.T) {
	t.Parallel()

	result, code := doctorJSON(t, nil)

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	validStatuses := map[string]bool{doctorReady: true, doctorWarnings: true, doctorErrors: true}
	if !validStatuses[result.Status] {
		t.Errorf("invalid status %q", result.Status)
	}
	if result.Status == doctorErrors && code != ExitGeneral {
		t.Errorf("exit = %d for errors status, want %d", code, ExitGeneral)
	}
	if result.Status != doctorErrors && code != ExitSuccess {
		t.Errorf("exit = %d for status %q, want %d", code, result.Status, ExitSuccess)
	}
	if !result.System.TempWritable {
		t.Error("temp directory should be writable in normal conditions")
	}
}

func TestRunDoctor_HumanOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&mockConverter{}, nil)
	runMain([]string{"--doctor"}, env)

	output := stdout.String()
	for _, section := range []string{
		"csv2pdf doctor",
		"Chrome/Chromium",
		"Environment",
		"System",
		"Status:",
		runtime.GOOS + "/" + runtime.GOARCH,
	} {
		if !strings.Contains(output, section) {
			t.Errorf("output should contain %q, got %q", section, output)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor_Chrome - Browser detection
// ---------------------------------------------------------------------------

func TestRunDoctor_ChromeFound(t *testing.T) {
	t.Parallel()

	bin := fakeChrome(t)
	result, code := doctorJSON(t, map[string]string{"ROD_BROWSER_BIN": bin})

	if !result.Chrome.Found || result.Chrome.Path != bin {
		t.Errorf("Chrome = %+v, want found at %s", result.Chrome, bin)
	}
	if result.Chrome.Version != "Chromium 120.0.6099.0" {
		t.Errorf("Version = %q", result.Chrome.Version)
	}
	if result.Chrome.Sandbox {
		t.Error("an explicit ROD_BROWSER_BIN disables the sandbox")
	}
	if result.Env.BrowserBin != bin {
		t.Errorf("BrowserBin = %q, want %q", result.Env.BrowserBin, bin)
	}
	if code != ExitSuccess {
		t.Errorf("exit = %d, want %d (errors: %v)", code, ExitSuccess, result.Errors)
	}
}

func TestRunDoctor_ChromeMissing(t *testing.T) {
	t.Parallel()

	bin := filepath.Join(t.TempDir(), "no-such-chrome")
	result, code := doctorJSON(t, map[string]string{"ROD_BROWSER_BIN": bin})

	if result.Chrome.Found {
		t.Error("Chrome should not be found")
	}
	if result.Status != doctorErrors {
		t.Errorf("Status = %q, want %q", result.Status, doctorErrors)
	}
	if code != ExitGeneral {
		t.Errorf("exit = %d, want %d", code, ExitGeneral)
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], bin) {
		t.Errorf("Errors = %v, want one naming %s", result.Errors, bin)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor_Environment - Container, CI and sandbox warnings
// ---------------------------------------------------------------------------

func TestRunDoctor_ContainerDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantHint string
	}{
		{
			name:     "explicit override",
			vars:     map[string]string{"CSV2PDF_CONTAINER": "1"},
			wantHint: "CSV2PDF_CONTAINER=1",
		},
		{
			name:     "podman",
			vars:     map[string]string{"container": "podman"},
			wantHint: "container=podman",
		},
		{
			name:     "kubernetes",
			vars:     map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"},
			wantHint: "KUBERNETES_SERVICE_HOST",
		},
		{
			name:     "override has priority",
			vars:     map[string]string{"CSV2PDF_CONTAINER": "1", "KUBERNETES_SERVICE_HOST": "10.0.0.1"},
			wantHint: "CSV2PDF_CONTAINER=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _ := doctorJSON(t, tt.vars)
			if !result.Env.Container {
				t.Error("Container = false, want true")
			}
			if result.Env.ContainerHint != tt.wantHint {
				t.Errorf("ContainerHint = %q, want %q", result.Env.ContainerHint, tt.wantHint)
			}
		})
	}
}

func TestRunDoctor_CIDetection(t *testing.T) {
	t.Parallel()

	for _, v := range ciVars {
		t.Run(v, func(t *testing.T) {
			t.Parallel()

			result, _ := doctorJSON(t, map[string]string{v: "true", "ROD_NO_SANDBOX": "1"})
			if !result.Env.CI {
				t.Errorf("CI = false with %s set", v)
			}
		})
	}
}

func TestRunDoctor_SandboxWarning(t *testing.T) {
	t.Parallel()

	hasWarning := func(r *doctorResult) bool {
		for _, w := range r.Warnings {
			if strings.Contains(w, "ROD_NO_SANDBOX") {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name string
		vars map[string]string
		want bool
	}{
		{
			name: "container with sandbox on",
			vars: map[string]string{"CSV2PDF_CONTAINER": "1"},
			want: true,
		},
		{
			name: "container with sandbox off",
			vars: map[string]string{"CSV2PDF_CONTAINER": "1", "ROD_NO_SANDBOX": "1"},
			want: false,
		},
		{
			name: "CI=true already disables the sandbox",
			vars: map[string]string{"CI": "true"},
			want: false,
		},
		{
			name: "other CI without sandbox setting",
			vars: map[string]string{"GITLAB_CI": "true"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _ := doctorJSON(t, tt.vars)
			if got := hasWarning(result); got != tt.want {
				t.Errorf("sandbox warning = %v, want %v (warnings: %v)", got, tt.want, result.Warnings)
			}
			if tt.want && result.Status == doctorReady {
				t.Error("Status should not be ready when warnings are present")
			}
		})
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDoctorResult(&buf, &doctorResult{
		Status:   doctorErrors,
		Chrome:   chromeInfo{},
		Env:      envInfo{OS: "linux", Arch: "amd64", Container: true, ContainerHint: "/.dockerenv"},
		Warnings: []string{"careful"},
		Errors:   []string{"Chrome/Chromium not found"},
	})

	output := buf.String()
	for _, want := range []string{
		"[ERROR] Not found",
		"Container: detected (/.dockerenv)",
		"[WARN] careful",
		"[ERROR] Chrome/Chromium not found",
		"[ERROR] Temp directory: not writable",
		"Status: Not ready",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got %q", want, output)
		}
	}
}

//go:build windows

// Package process terminates browser process trees left behind by the PDF
// printer.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills the process tree rooted at pid with taskkill
// (/F force, /T tree). Non-positive PIDs are ignored.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort: the launcher's own Kill runs afterwards.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an integer
}

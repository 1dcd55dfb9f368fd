//go:build !windows

// Package process terminates browser process trees left behind by the PDF
// printer.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with it. Non-positive PIDs are
// ignored: -0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort: the launcher's own Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

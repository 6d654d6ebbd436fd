//go:build !windows

package process

import "syscall"

// KillProcessGroup kills the browser and its helper processes by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best effort: launcher.Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid so that
// Chrome's renderer and GPU children die with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the launcher's own Kill is the primary path.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

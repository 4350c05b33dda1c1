//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; cmd.Wait still reaps the direct child
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// Isolate makes context cancellation kill cmd and its children.
func Isolate(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}

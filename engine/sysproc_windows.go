//go:build windows

package engine

import (
	"os/exec"
	"syscall"
)

// Windows has no POSIX process groups; the reaper channel carries liveness
// and termination is always a hard kill, matching TerminateProcess semantics.
func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func terminateProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func processAlive(cmd *exec.Cmd) bool {
	return cmd != nil && cmd.Process != nil
}

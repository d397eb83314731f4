//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts cmd in its own process group, so a deadline
// expiry can signal the solver and anything it forked without touching
// unrelated processes.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcessGroup sends sig to cmd's process group (negative pid).
func terminateProcessGroup(cmd *exec.Cmd, sig signal) {
	if cmd.Process == nil {
		return
	}
	native := syscall.SIGTERM
	if sig == sigKill {
		native = syscall.SIGKILL
	}
	_ = syscall.Kill(-cmd.Process.Pid, native)
}

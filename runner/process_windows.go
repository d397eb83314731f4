//go:build windows

package runner

import "os/exec"

// configureProcessGroup is a no-op on Windows, which has no Unix process
// group semantics; terminateProcessGroup falls back to killing the direct
// child only, per the driver's documented scope (killing the transitive
// tree on systems without process groups is out of scope).
func configureProcessGroup(cmd *exec.Cmd) {}

func terminateProcessGroup(cmd *exec.Cmd, _ signal) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

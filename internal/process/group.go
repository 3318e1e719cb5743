// Package process manages the lifetime of external tool processes.
package process

import "os/exec"

// Isolate puts cmd in its own process group and makes context cancellation
// kill the whole group instead of only the direct child.
// Must be called before cmd.Start.
func Isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = newGroupAttr()
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}

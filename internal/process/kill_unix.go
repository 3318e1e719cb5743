//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; exec.Cmd.Wait still reaps the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// newGroupAttr starts the child as leader of its own process group so a
// cancellation reaches helpers it forks (pandoc -> xelatex, ebook-convert workers).
func newGroupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

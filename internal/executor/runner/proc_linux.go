//go:build linux

package runner

import "syscall"

// sysProcAttr places the child in its own process group and ties its
// lifetime to the service process.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
}

// killProcessGroup SIGKILLs the child and every descendant it spawned.
func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

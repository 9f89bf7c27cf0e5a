//go:build !windows

package editor

import "syscall"

// detachAttrs puts the editor in its own session so it survives the
// pipeline process exiting.
func detachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

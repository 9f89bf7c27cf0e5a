//go:build windows

package editor

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func detachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// Package editor opens the saved text file in a configured external editor,
// fire-and-forget: the pipeline never waits for the editor to close.
package editor

import (
	"fmt"
	"os/exec"
)

type Launcher struct {
	Command string
}

func New(command string) Launcher {
	return Launcher{Command: command}
}

// Open starts the editor detached from this process. A missing editor
// binary is reported so the caller can log and continue.
func (l Launcher) Open(path string) error {
	if l.Command == "" {
		return fmt.Errorf("no editor configured")
	}

	if _, err := exec.LookPath(l.Command); err != nil {
		return fmt.Errorf("%s not found: %w", l.Command, err)
	}

	cmd := exec.Command(l.Command, path)
	cmd.SysProcAttr = detachAttrs()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", l.Command, err)
	}

	// Reap the child when it exits so it never lingers as a zombie.
	go cmd.Wait()
	return nil
}

//go:build !windows

package clipboard

import (
	"fmt"
	"os/exec"
	"strings"
)

// wlCopy pipes text into the Wayland clipboard tool. Discovered on PATH at
// publish time; its absence is reported, not fatal.
type wlCopy struct{}

func newPublisher() Publisher {
	return wlCopy{}
}

func (wlCopy) Publish(text string) error {
	if text == "" {
		return nil
	}

	if _, err := exec.LookPath("wl-copy"); err != nil {
		return fmt.Errorf("wl-copy not found: %w", err)
	}

	cmd := exec.Command("wl-copy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

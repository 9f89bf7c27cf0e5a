//go:build windows

package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

type nativeClipboard struct{}

var initOnce sync.Once
var initErr error

func newPublisher() Publisher {
	return nativeClipboard{}
}

func (nativeClipboard) Publish(text string) error {
	if text == "" {
		return nil
	}

	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	if initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", initErr)
	}

	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

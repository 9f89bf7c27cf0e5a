package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Backend blocks until the user confirms a screen region or cancels, and
// returns the path of the saved capture. Cancellation is reported as
// ErrCancelled, a normal exit path rather than a technical failure.
type Backend interface {
	Capture(ctx context.Context) (string, error)
}

var (
	// ErrCancelled means the user dismissed region selection.
	ErrCancelled = errors.New("region selection cancelled")

	// ErrUnavailable means the capture mechanism is missing or failed.
	ErrUnavailable = errors.New("screen capture unavailable")
)

// New returns the capture backend for the current platform.
func New(outputDir string, logger zerolog.Logger) Backend {
	return newBackend(outputDir, logger)
}

const timestampLayout = "20060102_150405"

// imagePath builds Screenshot_<timestamp>.png under dir. Timestamp
// granularity is one second, so a counter suffix is appended when a
// same-second capture already exists.
func imagePath(dir string, now time.Time) string {
	base := "Screenshot_" + now.Format(timestampLayout)
	path := filepath.Join(dir, base+".png")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, n))
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

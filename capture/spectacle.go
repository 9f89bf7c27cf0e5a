//go:build !windows

package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// spectacleBackend shells out to KDE's interactive screenshot tool. The
// user draws the rectangle inside spectacle; a non-zero exit or a missing
// output file means the selection was dismissed.
type spectacleBackend struct {
	outputDir string
	log       zerolog.Logger
}

func newBackend(outputDir string, logger zerolog.Logger) Backend {
	return &spectacleBackend{outputDir: outputDir, log: logger}
}

func (b *spectacleBackend) Capture(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("spectacle"); err != nil {
		return "", fmt.Errorf("missing dependency spectacle: %w", ErrUnavailable)
	}

	if err := ensureDir(b.outputDir); err != nil {
		return "", fmt.Errorf("cannot create %s: %v: %w", b.outputDir, err, ErrUnavailable)
	}

	path := imagePath(b.outputDir, time.Now())

	cmd := exec.CommandContext(ctx, "spectacle", "-r", "-b", "-n", "-o", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		b.log.Debug().Err(err).Str("stderr", stderr.String()).Msg("spectacle exited non-zero")
		return "", ErrCancelled
	}

	// spectacle exits zero without writing a file when the region picker
	// is dismissed.
	if _, err := os.Stat(path); err != nil {
		return "", ErrCancelled
	}

	b.log.Debug().Str("path", path).Msg("screenshot saved")
	return path, nil
}

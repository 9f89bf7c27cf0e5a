//go:build windows

package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"screen-ocr-ollama/screenshot"
)

// overlayBackend selects a region with an in-process full-screen overlay
// and captures it directly from the display, no external tool involved.
type overlayBackend struct {
	outputDir string
	log       zerolog.Logger
}

func newBackend(outputDir string, logger zerolog.Logger) Backend {
	return &overlayBackend{outputDir: outputDir, log: logger}
}

func (b *overlayBackend) Capture(ctx context.Context) (string, error) {
	region, ok, err := selectRegion()
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	if !ok {
		return "", ErrCancelled
	}

	b.log.Debug().
		Int("x", region.X).Int("y", region.Y).
		Int("width", region.Width).Int("height", region.Height).
		Msg("region selected")

	data, err := screenshot.CaptureRegion(region)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrUnavailable)
	}

	if err := ensureDir(b.outputDir); err != nil {
		return "", fmt.Errorf("cannot create %s: %v: %w", b.outputDir, err, ErrUnavailable)
	}

	path := imagePath(b.outputDir, time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("cannot save capture: %v: %w", err, ErrUnavailable)
	}

	b.log.Debug().Str("path", path).Msg("screenshot saved")
	return path, nil
}

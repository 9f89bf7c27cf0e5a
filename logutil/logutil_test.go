package logutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func consoleLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(ConsoleWriter(buf))
}

func TestConsoleWriterPrefixes(t *testing.T) {
	var buf bytes.Buffer
	logger := consoleLogger(&buf)

	logger.Info().Msg("Screenshot saved")
	logger.Warn().Msg("Screenshot cancelled. OCR aborted.")
	logger.Error().Msg("daemon returned status 500")
	Success(logger).Msg("Recognition finished successfully")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"[INFO] Screenshot saved",
		"[WARNING] Screenshot cancelled. OCR aborted.",
		"[ERROR] daemon returned status 500",
		"[SUCCESS] Recognition finished successfully",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("Line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestWarnLevelNeverAbbreviated(t *testing.T) {
	// The GUI shell colorizes on the exact [WARNING] prefix; zerolog's
	// native level string is "warn".
	var buf bytes.Buffer
	logger := consoleLogger(&buf)
	logger.Warn().Msg("Image sanitization failed. Using original screenshot.")

	if strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("Console line uses the abbreviated level: %q", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "[WARNING] ") {
		t.Errorf("Expected [WARNING] prefix, got %q", buf.String())
	}
}

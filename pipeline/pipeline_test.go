package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"screen-ocr-ollama/capture"
	"screen-ocr-ollama/editor"
	"screen-ocr-ollama/logutil"
	"screen-ocr-ollama/ollama"
	"screen-ocr-ollama/output"
	"screen-ocr-ollama/sanitize"
)

// fakeCapture saves a placeholder capture, or fails with a canned error.
type fakeCapture struct {
	dir string
	err error
}

func (f *fakeCapture) Capture(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "Screenshot_20250314_150926.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// fakeRecognizer returns fixed text and records the image path it was
// handed.
type fakeRecognizer struct {
	text         string
	preflightErr error
	recognizeErr error
	gotPath      string
	gotMode      ollama.Mode
}

func (f *fakeRecognizer) Preflight(ctx context.Context) error { return f.preflightErr }

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath string, mode ollama.Mode) (string, error) {
	f.gotPath = imagePath
	f.gotMode = mode
	if f.recognizeErr != nil {
		return "", f.recognizeErr
	}
	return f.text, nil
}

// fakeClipboard records what it was asked to publish.
type fakeClipboard struct {
	published []string
	err       error
}

func (f *fakeClipboard) Publish(text string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, text)
	return nil
}

func newTestPipeline(t *testing.T, dir string) (*Pipeline, *fakeCapture, *fakeRecognizer, *fakeClipboard) {
	t.Helper()
	cap := &fakeCapture{dir: dir}
	rec := &fakeRecognizer{text: "recognized text"}
	clip := &fakeClipboard{}
	p := &Pipeline{
		Capture:    cap,
		Sanitizer:  sanitize.Passthrough{},
		Recognizer: rec,
		Clipboard:  clip,
		Editor:     editor.New(""), // degraded on purpose
		Log:        zerolog.Nop(),
	}
	return p, cap, rec, clip
}

func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, clip := newTestPipeline(t, dir)

	res, err := p.Run(t.Context(), ollama.ModeText)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("Expected StateDone, got %v", res.State)
	}
	if res.TextPath != output.TextPath(res.ImagePath) {
		t.Errorf("Text path %q is not the image sibling of %q", res.TextPath, res.ImagePath)
	}

	data, err := os.ReadFile(res.TextPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if string(data) != "recognized text" {
		t.Errorf("Output file contains %q", data)
	}
	if rec.gotMode != ollama.ModeText {
		t.Errorf("Recognizer saw mode %v", rec.gotMode)
	}
	if len(clip.published) != 1 || clip.published[0] != "recognized text" {
		t.Errorf("Clipboard got %v", clip.published)
	}
}

func TestRunCancelledProducesNoFiles(t *testing.T) {
	dir := t.TempDir()
	p, cap, _, clip := newTestPipeline(t, dir)
	cap.err = capture.ErrCancelled

	res, err := p.Run(t.Context(), ollama.ModeText)
	if !errors.Is(err, capture.ErrCancelled) {
		t.Fatalf("Expected ErrCancelled, got %v", err)
	}
	if res.State != StateCancelled {
		t.Errorf("Expected StateCancelled, got %v", res.State)
	}
	if Kind(err) != KindCancelled {
		t.Errorf("Cancellation classified as %v", Kind(err))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Cancelled run left %d files behind", len(entries))
	}
	if len(clip.published) != 0 {
		t.Error("Cancelled run must not touch the clipboard")
	}
}

func TestRunCaptureUnavailable(t *testing.T) {
	dir := t.TempDir()
	p, cap, _, _ := newTestPipeline(t, dir)
	cap.err = fmt.Errorf("missing dependency spectacle: %w", capture.ErrUnavailable)

	res, err := p.Run(t.Context(), ollama.ModeText)
	if Kind(err) != KindCaptureUnavailable {
		t.Errorf("Expected KindCaptureUnavailable, got %v", Kind(err))
	}
	if res.State != StateFailed {
		t.Errorf("Expected StateFailed, got %v", res.State)
	}
}

func TestRunPassthroughSanitizerStillRecognizes(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, _ := newTestPipeline(t, dir)
	p.Sanitizer = sanitize.Passthrough{}

	res, err := p.Run(t.Context(), ollama.ModeText)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rec.gotPath != res.ImagePath {
		t.Errorf("Recognizer should see the unprocessed capture, got %q want %q", rec.gotPath, res.ImagePath)
	}
}

// failingSanitizer simulates the imaging step blowing up at runtime.
type failingSanitizer struct{}

func (failingSanitizer) Sanitize(imagePath string) (string, error) {
	return imagePath, errors.New("decode failed")
}

func TestRunSanitizeFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, _ := newTestPipeline(t, dir)
	p.Sanitizer = failingSanitizer{}

	res, err := p.Run(t.Context(), ollama.ModeText)
	if err != nil {
		t.Fatalf("Sanitize failure must not abort the run: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("Expected StateDone, got %v", res.State)
	}
	if rec.gotPath != res.ImagePath {
		t.Errorf("Expected recognition on the original capture, got %q", rec.gotPath)
	}
}

func TestRunDaemonUnreachableWritesNothing(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, _ := newTestPipeline(t, dir)
	rec.preflightErr = fmt.Errorf("%w: connection refused", ollama.ErrDaemonUnreachable)

	res, err := p.Run(t.Context(), ollama.ModeText)
	if Kind(err) != KindDaemonUnreachable {
		t.Fatalf("Expected KindDaemonUnreachable, got %v (%v)", Kind(err), err)
	}
	if res.State != StateFailed {
		t.Errorf("Expected StateFailed, got %v", res.State)
	}
	if _, statErr := os.Stat(output.TextPath(res.ImagePath)); !os.IsNotExist(statErr) {
		t.Error("No text file may exist after a daemon failure")
	}
}

func TestRunModelMissingDistinctFromUnreachable(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, _ := newTestPipeline(t, dir)
	rec.preflightErr = fmt.Errorf("%w: glm-ocr", ollama.ErrModelMissing)

	_, err := p.Run(t.Context(), ollama.ModeText)
	if Kind(err) != KindModelMissing {
		t.Errorf("Expected KindModelMissing, got %v", Kind(err))
	}
}

func TestRunClipboardAbsentStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	p, _, _, clip := newTestPipeline(t, dir)
	clip.err = errors.New("wl-copy not found")

	res, err := p.Run(t.Context(), ollama.ModeText)
	if err != nil {
		t.Fatalf("Missing clipboard must not fail the run: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("Expected StateDone, got %v", res.State)
	}
	if _, statErr := os.Stat(res.TextPath); statErr != nil {
		t.Errorf("Output file missing: %v", statErr)
	}
}

func TestRunTableScenario(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, clip := newTestPipeline(t, dir)
	rec.text = "| a | b |\n|---|---|"

	res, err := p.Run(t.Context(), ollama.ModeTable)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Markdown output carries no <table> tag, so it is persisted exactly.
	data, err := os.ReadFile(res.TextPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if string(data) != "| a | b |\n|---|---|" {
		t.Errorf("Output file contains %q", data)
	}
	if len(clip.published) != 1 || clip.published[0] != "| a | b |\n|---|---|" {
		t.Errorf("Clipboard got %v", clip.published)
	}
}

func TestRunEmitsSuccessConsoleLine(t *testing.T) {
	dir := t.TempDir()
	p, _, _, _ := newTestPipeline(t, dir)

	var buf bytes.Buffer
	p.Log = zerolog.New(logutil.ConsoleWriter(&buf))

	if _, err := p.Run(t.Context(), ollama.ModeText); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[SUCCESS] Recognition finished successfully") {
		t.Errorf("Console output lacks the [SUCCESS] line:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("Console output uses an abbreviated level:\n%s", buf.String())
	}
}

func TestRunWriteErrorStillPublishesClipboard(t *testing.T) {
	dir := t.TempDir()
	p, cap, _, clip := newTestPipeline(t, dir)

	// Point the capture inside a directory that is then made read-only so
	// the sibling write fails.
	sub := filepath.Join(dir, "ro")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	cap.dir = sub
	if _, err := cap.Capture(t.Context()); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(sub, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(sub, 0o755) })

	res, err := p.Run(t.Context(), ollama.ModeText)
	if Kind(err) != KindWriteError {
		t.Skipf("filesystem did not enforce read-only dir (err=%v)", err)
	}
	if res.State != StateFailed {
		t.Errorf("Expected StateFailed, got %v", res.State)
	}
	if len(clip.published) != 1 {
		t.Errorf("Recovered text should still reach the clipboard, got %v", clip.published)
	}
}

func TestRunNoTextFromModel(t *testing.T) {
	dir := t.TempDir()
	p, _, rec, _ := newTestPipeline(t, dir)
	rec.recognizeErr = ollama.ErrNoText

	res, err := p.Run(t.Context(), ollama.ModeText)
	if Kind(err) != KindNoText {
		t.Errorf("Expected KindNoText, got %v", Kind(err))
	}
	if _, statErr := os.Stat(output.TextPath(res.ImagePath)); !os.IsNotExist(statErr) {
		t.Error("No text file may exist when the model returned nothing")
	}
}

// Package pipeline sequences one capture-to-delivery run: capture a region,
// sanitize the image, recognize it through the local daemon, save the text,
// publish it to the clipboard, and open it in an editor. Steps run strictly
// in order, each attempted exactly once; sanitize, clipboard and editor can
// only degrade, never abort the run.
package pipeline

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"screen-ocr-ollama/capture"
	"screen-ocr-ollama/clipboard"
	"screen-ocr-ollama/editor"
	"screen-ocr-ollama/logutil"
	"screen-ocr-ollama/ollama"
	"screen-ocr-ollama/output"
	"screen-ocr-ollama/postprocess"
	"screen-ocr-ollama/sanitize"
)

// State names the pipeline step in progress or the terminal outcome.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateSanitizing
	StateRecognizing
	StateWriting
	StatePublishing
	StateOpening
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateSanitizing:
		return "sanitizing"
	case StateRecognizing:
		return "recognizing"
	case StateWriting:
		return "writing"
	case StatePublishing:
		return "publishing"
	case StateOpening:
		return "opening"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Recognizer is the recognition daemon surface the pipeline depends on,
// satisfied by *ollama.Client.
type Recognizer interface {
	Preflight(ctx context.Context) error
	Recognize(ctx context.Context, imagePath string, mode ollama.Mode) (string, error)
}

// Pipeline is one capture-to-delivery workflow parameterized over the
// platform capabilities, selected once at process start.
type Pipeline struct {
	Capture    capture.Backend
	Sanitizer  sanitize.Sanitizer
	Recognizer Recognizer
	Clipboard  clipboard.Publisher
	Editor     editor.Launcher
	Log        zerolog.Logger
}

// Result is the terminal outcome of one run.
type Result struct {
	State     State
	Mode      ollama.Mode
	ImagePath string
	TextPath  string
	Text      string
}

// Run executes the pipeline once. Cancelled selection returns a Cancelled
// result with capture.ErrCancelled; fatal steps return their error with a
// Failed result. Degraded steps are logged and the run proceeds.
func (p *Pipeline) Run(ctx context.Context, mode ollama.Mode) (Result, error) {
	res := Result{State: StateIdle, Mode: mode}
	p.Log.Info().Str("mode", mode.String()).Msg("Mode selected")

	// Capture
	res.State = StateCapturing
	imagePath, err := p.Capture.Capture(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrCancelled) {
			res.State = StateCancelled
			p.Log.Warn().Msg("Screenshot cancelled. OCR aborted.")
			return res, err
		}
		res.State = StateFailed
		return res, err
	}
	res.ImagePath = imagePath
	p.Log.Info().Str("path", imagePath).Msg("Screenshot saved")

	// Sanitize: degrade to the original capture on any failure.
	res.State = StateSanitizing
	processingPath, err := p.Sanitizer.Sanitize(imagePath)
	if err != nil {
		p.Log.Warn().Err(err).Msg("Image sanitization failed. Using original screenshot.")
		processingPath = imagePath
	}

	// Recognize
	res.State = StateRecognizing
	p.Log.Info().Str("image", processingPath).Msg("Waiting for OCR result")
	if err := p.Recognizer.Preflight(ctx); err != nil {
		p.removeTemp(processingPath, imagePath)
		res.State = StateFailed
		return res, err
	}
	text, err := p.Recognizer.Recognize(ctx, processingPath, mode)
	p.removeTemp(processingPath, imagePath)
	if err != nil {
		res.State = StateFailed
		return res, err
	}

	text = postprocess.ApplyTableStyling(mode, text)
	res.Text = text

	// Write
	res.State = StateWriting
	textPath, err := output.Write(text, imagePath)
	if err != nil {
		// The recovered text is still worth a clipboard attempt even
		// though the run itself fails.
		if pubErr := p.Clipboard.Publish(text); pubErr != nil {
			p.Log.Warn().Err(pubErr).Msg("Clipboard step failed")
		}
		res.State = StateFailed
		return res, err
	}
	res.TextPath = textPath
	p.Log.Info().Str("path", textPath).Msg("Saved output file")

	// Publish: best-effort.
	res.State = StatePublishing
	if err := p.Clipboard.Publish(text); err != nil {
		p.Log.Warn().Err(err).Msg("Clipboard step skipped")
	}

	// Open: fire-and-forget.
	res.State = StateOpening
	if err := p.Editor.Open(textPath); err != nil {
		p.Log.Warn().Err(err).Msg("File saved but not opened")
	}

	res.State = StateDone
	logutil.Success(p.Log).Str("mode", mode.Instruction()).Msg("Recognition finished successfully")
	return res, nil
}

// removeTemp deletes the sanitizer's scratch file once recognition is done.
func (p *Pipeline) removeTemp(processingPath, imagePath string) {
	if processingPath == imagePath {
		return
	}
	if err := os.Remove(processingPath); err != nil && !os.IsNotExist(err) {
		p.Log.Debug().Err(err).Str("path", processingPath).Msg("could not remove temp image")
	}
}

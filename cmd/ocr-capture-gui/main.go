// ocr-capture-gui is the resident desktop shell: a small window with one
// button per recognition mode, a scrolling status log, a system tray menu,
// and a global hotkey. Each trigger runs the capture pipeline on a single
// background worker so the UI stays responsive and runs never overlap.
package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"screen-ocr-ollama/capture"
	"screen-ocr-ollama/clipboard"
	"screen-ocr-ollama/config"
	"screen-ocr-ollama/editor"
	"screen-ocr-ollama/hotkey"
	"screen-ocr-ollama/logutil"
	"screen-ocr-ollama/ollama"
	"screen-ocr-ollama/pipeline"
	"screen-ocr-ollama/sanitize"
	"screen-ocr-ollama/worker"
)

const maxLogLines = 200

// logView collects console log lines into a bound string so the status
// label updates as the pipeline reports progress.
type logView struct {
	mu    sync.Mutex
	lines []string
	data  binding.String
}

func newLogView() *logView {
	return &logView{data: binding.NewString()}
}

func (v *logView) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			v.lines = append(v.lines, line)
		}
	}
	if len(v.lines) > maxLogLines {
		v.lines = v.lines[len(v.lines)-maxLogLines:]
	}
	v.data.Set(strings.Join(v.lines, "\n"))
	return len(p), nil
}

type shell struct {
	cfg     *config.Config
	log     zerolog.Logger
	pool    *worker.Pool
	pipe    *pipeline.Pipeline
	timeout time.Duration
}

// trigger queues one pipeline run. A second trigger while a run is in
// flight is dropped, not queued.
func (s *shell) trigger(mode ollama.Mode) {
	accepted := s.pool.Submit(func() {
		s.log.Info().Str("mode", mode.String()).Msg("Starting recognition")
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout+time.Minute)
		defer cancel()

		_, err := s.pipe.Run(ctx, mode)
		if err == nil {
			return
		}
		kind := pipeline.Kind(err)
		if kind == pipeline.KindCancelled {
			return
		}
		s.log.Error().Err(err).Msg("Recognition failed")
		if msg := pipeline.Remediation(kind); msg != "" {
			s.log.Error().Msg(msg)
		}
	})
	if !accepted {
		s.log.Warn().Msg("A recognition run is already in progress")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	view := newLogView()
	logger, closeLog, err := logutil.Setup(logutil.Options{
		Level:      cfg.LogLevel,
		Console:    view,
		EnableFile: cfg.EnableFileLogging,
	})
	if err != nil {
		panic(err)
	}
	defer closeLog()

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	s := &shell{
		cfg:     cfg,
		log:     logger,
		pool:    worker.New(1),
		timeout: timeout,
		pipe: &pipeline.Pipeline{
			Capture:   capture.New(cfg.OutputDir, logger),
			Sanitizer: sanitize.New(cfg.DisableSanitize),
			Recognizer: ollama.New(ollama.Config{
				Host:    cfg.OllamaHost,
				Model:   cfg.Model,
				Timeout: timeout,
			}),
			Clipboard: clipboard.New(),
			Editor:    editor.New(cfg.EditorCmd),
			Log:       logger,
		},
	}
	defer s.pool.Close()

	a := app.New()
	w := a.NewWindow("AI Text Recognition")

	status := widget.NewLabelWithData(view.data)
	status.Wrapping = fyne.TextWrapWord
	logScroll := container.NewScroll(status)
	logScroll.SetMinSize(fyne.NewSize(460, 220))

	buttons := container.NewGridWithColumns(3,
		widget.NewButton("Text", func() { s.trigger(ollama.ModeText) }),
		widget.NewButton("Table", func() { s.trigger(ollama.ModeTable) }),
		widget.NewButton("Figure", func() { s.trigger(ollama.ModeFigure) }),
	)

	w.SetContent(container.NewBorder(buttons, nil, nil, nil, logScroll))
	w.Resize(fyne.NewSize(480, 300))

	go systray.Run(s.trayReady(a), func() {})
	hotkey.Listen(cfg.Hotkey, logger, func() { s.trigger(ollama.ModeText) })

	logger.Info().
		Str("model", cfg.Model).
		Str("host", cfg.OllamaHost).
		Str("hotkey", cfg.Hotkey).
		Msg("Ready")

	w.ShowAndRun()
}

func (s *shell) trayReady(a fyne.App) func() {
	return func() {
		systray.SetTitle("AI Text Recognition")
		systray.SetTooltip("Capture a screen region and recognize it")

		mText := systray.AddMenuItem("Recognize Text", "Capture a region and extract plain text")
		mTable := systray.AddMenuItem("Recognize Table", "Capture a region and extract an HTML table")
		mFigure := systray.AddMenuItem("Describe Figure", "Capture a region and describe the figure")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit the application")

		go func() {
			for {
				select {
				case <-mText.ClickedCh:
					s.trigger(ollama.ModeText)
				case <-mTable.ClickedCh:
					s.trigger(ollama.ModeTable)
				case <-mFigure.ClickedCh:
					s.trigger(ollama.ModeFigure)
				case <-mQuit.ClickedCh:
					systray.Quit()
					fyne.Do(a.Quit)
				}
			}
		}()
	}
}

// ocr-capture runs the capture-to-delivery pipeline once: select a screen
// region, recognize it through the local ollama daemon, save the text next
// to the capture, copy it to the clipboard, and open it in an editor.
//
// Progress is emitted as [INFO]/[WARNING]/[ERROR] lines so a GUI wrapper
// can render the stream verbatim.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"screen-ocr-ollama/capture"
	"screen-ocr-ollama/clipboard"
	"screen-ocr-ollama/config"
	"screen-ocr-ollama/editor"
	"screen-ocr-ollama/logutil"
	"screen-ocr-ollama/ollama"
	"screen-ocr-ollama/pipeline"
	"screen-ocr-ollama/sanitize"
)

type cliOptions struct {
	timeoutSeconds int
	verbose        bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		kind := pipeline.Kind(err)
		if kind == pipeline.KindCancelled {
			// A dismissed region picker is a normal exit.
			return 0
		}
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		if msg := pipeline.Remediation(kind); msg != "" {
			fmt.Fprintf(os.Stderr, "[ERROR] %s\n", msg)
		}
		fmt.Fprintf(os.Stderr, "[ERROR] Check %s\n", logutil.DefaultLogPath())
		return pipeline.ExitCode(kind)
	}
	return 0
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr-capture [text|table|figure]",
		Short: "Capture a screen region and recognize it with a local OCR model",
		Long: `Capture a user-selected screen region, send it to a locally hosted OCR
model through the ollama daemon, save the recognized text next to the
capture, copy it to the clipboard, and open it in a text editor.

The optional positional argument selects the recognition mode and
defaults to text.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := ollama.ModeText
			if len(args) > 0 {
				mode = ollama.ParseMode(args[0])
			}
			return runCapture(*opts, mode)
		},
	}

	cmd.Flags().IntVar(&opts.timeoutSeconds, "timeout", 0, "Recognition timeout in seconds (overrides OCR_TIMEOUT_SECONDS)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug detail to the console as well")

	return cmd
}

func runCapture(opts cliOptions, mode ollama.Mode) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.timeoutSeconds > 0 {
		cfg.TimeoutSeconds = opts.timeoutSeconds
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger, closeLog, err := logutil.Setup(logutil.Options{
		Level:      level,
		Console:    os.Stdout,
		EnableFile: cfg.EnableFileLogging,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	// Once recognition starts the run cannot be cancelled, but Ctrl-C
	// during region selection should abort cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	p := &pipeline.Pipeline{
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
	}

	logger.Info().
		Str("model", cfg.Model).
		Str("host", cfg.OllamaHost).
		Dur("timeout", timeout).
		Msg("Running recognition")

	_, err = p.Run(ctx, mode)
	return err
}

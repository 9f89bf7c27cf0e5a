package logutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const logFileName = "ocr_debug.log"

// Options controls where log output goes. Console is the human-facing
// stream (the GUI shell parses its lines); the debug file is append-only
// across runs, never rotated.
type Options struct {
	Level      string
	Console    io.Writer
	EnableFile bool
	FilePath   string // defaults to ~/ocr_debug.log when empty
}

// Setup builds the process-wide logger handle. It is created once at startup
// and passed into each component; the returned closer flushes the debug file
// on shutdown.
func Setup(opts Options) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{ConsoleWriter(console)}
	closer := func() {}

	if opts.EnableFile {
		path := opts.FilePath
		if path == "" {
			path = DefaultLogPath()
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			// Degrade to console-only logging rather than failing startup.
			fmt.Fprintf(os.Stderr, "Failed to open debug log %s: %v\n", path, err)
		} else {
			writers = append(writers, f)
			closer = func() {
				f.Sync()
				f.Close()
			}
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger().Level(level)
	return logger, closer, nil
}

// ConsoleWriter formats events as the "[INFO] message" lines the GUI shell
// colorizes. The shell keys off the exact prefixes [INFO], [WARNING],
// [SUCCESS] and [ERROR], so zerolog's short level names are expanded.
func ConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		FormatLevel: func(i interface{}) string {
			level := strings.ToUpper(fmt.Sprint(i))
			if level == "WARN" {
				level = "WARNING"
			}
			return fmt.Sprintf("[%s]", level)
		},
		FormatTimestamp: func(interface{}) string { return "" },
	}
}

// Success emits a [SUCCESS] console line. zerolog has no such level, so
// the event carries it as an explicit level field that ConsoleWriter
// renders like any other.
func Success(logger zerolog.Logger) *zerolog.Event {
	return logger.Log().Str(zerolog.LevelFieldName, "success")
}

// DefaultLogPath is the per-user append-only debug log location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return logFileName
	}
	return filepath.Join(home, logFileName)
}

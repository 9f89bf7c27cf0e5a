package pipeline

import (
	"errors"

	"screen-ocr-ollama/capture"
	"screen-ocr-ollama/ollama"
	"screen-ocr-ollama/output"
)

// FailKind classifies a terminal pipeline outcome. Fatal kinds abort the
// run; degraded steps never produce a kind, only warnings.
type FailKind int

const (
	KindNone FailKind = iota
	KindCancelled
	KindCaptureUnavailable
	KindDaemonUnreachable
	KindModelMissing
	KindWriteError
	KindNoText
	KindUnknown
)

func (k FailKind) String() string {
	switch k {
	case KindNone:
		return "success"
	case KindCancelled:
		return "cancelled"
	case KindCaptureUnavailable:
		return "capture-unavailable"
	case KindDaemonUnreachable:
		return "daemon-unreachable"
	case KindModelMissing:
		return "model-missing"
	case KindWriteError:
		return "write-error"
	case KindNoText:
		return "no-text"
	default:
		return "unknown"
	}
}

// Kind maps an error from a pipeline run to its failure kind.
func Kind(err error) FailKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, capture.ErrCancelled):
		return KindCancelled
	case errors.Is(err, capture.ErrUnavailable):
		return KindCaptureUnavailable
	case errors.Is(err, ollama.ErrDaemonUnreachable):
		return KindDaemonUnreachable
	case errors.Is(err, ollama.ErrModelMissing):
		return KindModelMissing
	case errors.Is(err, output.ErrWrite):
		return KindWriteError
	case errors.Is(err, ollama.ErrNoText):
		return KindNoText
	default:
		return KindUnknown
	}
}

// Remediation is the actionable message shown for a fatal kind. Daemon and
// model failures get different instructions: start the daemon versus pull
// the model.
func Remediation(k FailKind) string {
	switch k {
	case KindCaptureUnavailable:
		return "Install the screenshot tool for your platform and try again."
	case KindDaemonUnreachable:
		return "Start the ollama daemon (`ollama serve`) and try again."
	case KindModelMissing:
		return "Pull the OCR model (`ollama pull <model>`) and try again."
	case KindWriteError:
		return "Check permissions and free space in the output directory."
	case KindNoText:
		return "Try a larger or sharper capture region."
	default:
		return ""
	}
}

// ExitCode maps a run outcome to the process exit status. Success and
// user cancellation both exit zero.
func ExitCode(k FailKind) int {
	switch k {
	case KindNone, KindCancelled:
		return 0
	case KindCaptureUnavailable:
		return 1
	case KindDaemonUnreachable:
		return 2
	case KindModelMissing:
		return 3
	case KindWriteError:
		return 4
	case KindNoText:
		return 5
	default:
		return 99
	}
}

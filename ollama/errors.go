package ollama

import "errors"

var (
	// ErrDaemonUnreachable is returned when the local daemon cannot be
	// contacted at all. Remediation: start `ollama serve`.
	ErrDaemonUnreachable = errors.New("ollama daemon is not reachable")

	// ErrModelMissing is returned when the daemon is up but the OCR model
	// is not loaded. Remediation: `ollama pull <model>`.
	ErrModelMissing = errors.New("model is not available in ollama")

	// ErrNoText is returned when recognition succeeds but the model
	// produced an empty result.
	ErrNoText = errors.New("model returned no text")
)

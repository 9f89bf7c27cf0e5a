// Package clipboard publishes recognized text to the system clipboard,
// best-effort: a missing clipboard mechanism degrades the run instead of
// failing it.
package clipboard

// Publisher copies text to the system clipboard. An error means the copy
// did not happen; callers log it as a warning and continue.
type Publisher interface {
	Publish(text string) error
}

// New returns the clipboard publisher for the current platform.
func New() Publisher {
	return newPublisher()
}

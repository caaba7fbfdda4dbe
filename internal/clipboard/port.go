// Package clipboard abstracts OS clipboard access behind the Port interface.
// Build constraints select the implementation:
//
//	port_darwin.go   — pbpaste/pbcopy via atotto + osascript PNG probe
//	port_windows.go  — atotto + powershell Get-Clipboard/Set-Clipboard
//	port_linux.go    — golang.design/x/clipboard (X11/Wayland)
//	port_unsupported.go — everything else
//
// Image content crosses the Port boundary as a base64 data URI, never as raw
// bytes.
package clipboard

import (
	"errors"
	"fmt"
)

// SampleKind describes what one clipboard read produced.
type SampleKind int

const (
	KindNone SampleKind = iota // clipboard empty or unreadable
	KindText
	KindImage
)

// Sample is the ephemeral result of one clipboard read, before
// classification.
type Sample struct {
	Kind    SampleKind
	Content string
}

// Port is the platform clipboard primitive. Read and the write methods are
// blocking, bounded only by the underlying OS mechanism; callers must not
// hold locks across them.
type Port interface {
	// Read returns the current clipboard content. An empty clipboard yields
	// a KindNone sample, not an error.
	Read() (Sample, error)

	// WriteText replaces the clipboard content with the given text.
	WriteText(content string) error

	// WriteImageFile replaces the clipboard content with the image stored at
	// path. It fails with ErrNotFound, before any OS call, if path does not
	// exist.
	WriteImageFile(path string) error

	// Close releases resources held by the port (probe files).
	Close() error
}

var (
	// ErrUnavailable means the current platform has no clipboard support.
	ErrUnavailable = errors.New("clipboard: unsupported platform")
	// ErrNotFound means a referenced image file does not exist.
	ErrNotFound = errors.New("clipboard: image file not found")
)

// ExecError reports a failed OS clipboard call with its captured diagnostic
// output.
type ExecError struct {
	Utility string // the OS utility or API involved
	Stderr  string // captured diagnostic text, may be empty
	Err     error
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("clipboard: %s failed: %v: %s", e.Utility, e.Err, e.Stderr)
	}
	return fmt.Sprintf("clipboard: %s failed: %v", e.Utility, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

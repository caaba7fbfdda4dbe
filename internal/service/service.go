// Package service exposes the clipboard operations the host UI calls:
// monitoring lifecycle, history access, and clipboard writes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lajidonggua/ClipBox/internal/clipboard"
	"github.com/lajidonggua/ClipBox/internal/datauri"
	"github.com/lajidonggua/ClipBox/internal/history"
	"github.com/lajidonggua/ClipBox/internal/monitor"
)

// ClipboardError wraps a failed operation with enough detail for the caller
// to render a meaningful message.
type ClipboardError struct {
	Op      string
	Message string
	Err     error
}

func (e *ClipboardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Service ties the monitor, history store, and clipboard port together.
type Service struct {
	port    clipboard.Port
	store   *history.Store
	monitor *monitor.Monitor
}

// New builds a service over the given port, with a history store of the given
// capacity and the given polling interval (zero values pick the defaults).
func New(port clipboard.Port, capacity int, interval time.Duration) *Service {
	store := history.NewStore(capacity)
	return &Service{
		port:    port,
		store:   store,
		monitor: monitor.New(port, store, interval),
	}
}

// Start begins clipboard monitoring. A second call returns an error wrapping
// monitor.ErrAlreadyRunning.
func (s *Service) Start(ctx context.Context) error {
	if err := s.monitor.Start(ctx); err != nil {
		return &ClipboardError{Op: "Start", Message: "failed to start clipboard monitor", Err: err}
	}
	return nil
}

// Wait joins the monitor goroutine after the Start context is cancelled.
func (s *Service) Wait() { s.monitor.Wait() }

// OnChange registers a handler invoked for each newly recorded entry.
func (s *Service) OnChange(h monitor.ChangeHandler) { s.monitor.OnChange(h) }

// History returns an ordered snapshot, newest first.
func (s *Service) History() []history.Entry { return s.store.Snapshot() }

// ReplaceHistory atomically overwrites the history, e.g. when the host
// restores persisted state. Sequences beyond capacity are truncated.
func (s *Service) ReplaceHistory(entries []history.Entry) { s.store.Replace(entries) }

// RemoveEntry deletes one entry by id.
func (s *Service) RemoveEntry(id string) error {
	if !s.store.RemoveByID(id) {
		return &ClipboardError{Op: "RemoveEntry", Message: fmt.Sprintf("no entry with id %s", id)}
	}
	return nil
}

// WriteText replaces the clipboard content with text.
func (s *Service) WriteText(content string) error {
	if err := s.port.WriteText(content); err != nil {
		return &ClipboardError{Op: "WriteText", Message: "failed to write clipboard", Err: err}
	}
	return nil
}

// WriteImageFile replaces the clipboard content with the image at path.
func (s *Service) WriteImageFile(path string) error {
	if err := s.port.WriteImageFile(path); err != nil {
		return &ClipboardError{Op: "WriteImageFile", Message: "failed to copy image " + path, Err: err}
	}
	return nil
}

// WriteImageDataURI decodes uri to a temporary file, puts that image on the
// clipboard, and removes the file on every exit path.
func (s *Service) WriteImageDataURI(uri string) error {
	path, err := datauri.DecodeToTempFile(uri)
	if err != nil {
		return &ClipboardError{Op: "WriteImageDataURI", Message: "failed to decode image", Err: err}
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove temp image", "path", path, "err", err)
		}
	}()
	return s.WriteImageFile(path)
}

// ImageDataURI returns the image at path encoded as a data URI.
func (s *Service) ImageDataURI(path string) (string, error) {
	uri, err := datauri.EncodeFile(path)
	if err != nil {
		return "", &ClipboardError{Op: "ImageDataURI", Message: "failed to encode image " + path, Err: err}
	}
	return uri, nil
}

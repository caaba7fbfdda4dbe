// Package storage defines host-side persistence for the clipboard history.
// The core never persists by itself; the serve command loads a saved history
// on boot and writes it back as entries arrive.
package storage

import "github.com/lajidonggua/ClipBox/internal/history"

// HistoryStore persists an ordered history sequence. Order is preserved
// verbatim in both directions, front (newest) first.
type HistoryStore interface {
	// Load returns the persisted history, or an empty slice when nothing has
	// been saved yet.
	Load() ([]history.Entry, error)

	// Save overwrites the persisted history with entries.
	Save(entries []history.Entry) error
}

// Config holds storage configuration.
type Config struct {
	DBPath string // path to the SQLite database
}

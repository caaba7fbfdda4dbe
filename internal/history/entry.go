// Package history holds the bounded, ordered record of observed clipboard
// contents. The store is most-recent-first: the front is the newest entry.
package history

import (
	"strconv"
	"sync"
	"time"
)

// Kind discriminates what an entry's content represents.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Entry is one recorded clipboard snapshot. Image entries carry their content
// as a base64 data URI; ImagePath is set only when the entry additionally has
// a materialized on-disk representation.
type Entry struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"timestamp"`
	Kind      Kind   `json:"item_type"`
	ImagePath string `json:"image_path,omitempty"`
}

var (
	idMu   sync.Mutex
	lastID int64
)

// nextID returns a millisecond timestamp, bumped past the previous value so
// that IDs stay unique even when entries are created within the same tick.
func nextID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}

// NewEntry builds an entry for freshly observed content.
func NewEntry(content string, kind Kind) Entry {
	return Entry{
		ID:        nextID(),
		Content:   content,
		CreatedAt: time.Now().Unix(),
		Kind:      kind,
	}
}

package history

import "sync"

// DefaultCapacity is the history bound used by the daemon.
const DefaultCapacity = 100

// Store is a bounded most-recent-first collection of entries. All methods are
// safe for concurrent use; the monitor loop writes while UI-facing callers
// read and replace.
type Store struct {
	mu   sync.Mutex
	buf  []Entry // ring buffer
	head int     // index of the front (newest) entry when n > 0
	n    int
}

// NewStore returns an empty store bounded to capacity entries. A capacity of
// zero or less falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{buf: make([]Entry, capacity)}
}

// Capacity returns the fixed bound of the store.
func (s *Store) Capacity() int { return len(s.buf) }

// Len returns the current number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// PushFront inserts e as the newest entry. When the store is full the oldest
// (back) entry is evicted. O(1).
func (s *Store) PushFront(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.head = (s.head - 1 + len(s.buf)) % len(s.buf)
	s.buf[s.head] = e
	if s.n < len(s.buf) {
		s.n++
	}
	// At capacity the slot just written was the back entry; overwriting it is
	// the eviction.
}

// Snapshot returns a copy of the entries, front (newest) to back (oldest).
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, s.n)
	for i := 0; i < s.n; i++ {
		out[i] = s.buf[(s.head+i)%len(s.buf)]
	}
	return out
}

// Replace discards the current contents and installs entries verbatim, front
// first. Sequences longer than the capacity are truncated to the capacity,
// keeping the front, so the bound holds on every path into the store.
func (s *Store) Replace(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(entries)
	if n > len(s.buf) {
		n = len(s.buf)
	}
	copy(s.buf, entries[:n])
	s.head = 0
	s.n = n
}

// RemoveByID deletes the entry with the given id, preserving the order of the
// rest. It reports whether an entry was removed.
func (s *Store) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.n; i++ {
		if s.buf[(s.head+i)%len(s.buf)].ID != id {
			continue
		}
		// Shift everything behind the hole forward by one.
		for j := i; j < s.n-1; j++ {
			s.buf[(s.head+j)%len(s.buf)] = s.buf[(s.head+j+1)%len(s.buf)]
		}
		s.buf[(s.head+s.n-1)%len(s.buf)] = Entry{}
		s.n--
		return true
	}
	return false
}

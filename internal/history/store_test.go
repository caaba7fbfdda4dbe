package history

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textEntry(content string) Entry {
	return NewEntry(content, KindText)
}

func TestStore_PushFrontOrdering(t *testing.T) {
	t.Parallel()

	s := NewStore(5)
	s.PushFront(textEntry("a"))
	s.PushFront(textEntry("b"))
	s.PushFront(textEntry("c"))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].Content)
	assert.Equal(t, "b", snap[1].Content)
	assert.Equal(t, "a", snap[2].Content)
}

func TestStore_EvictsOldestPastCapacity(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultCapacity)
	first := textEntry("entry-0")
	s.PushFront(first)
	for i := 1; i <= DefaultCapacity; i++ {
		s.PushFront(textEntry("entry-" + strconv.Itoa(i)))
	}

	require.Equal(t, DefaultCapacity, s.Len())
	snap := s.Snapshot()
	assert.Equal(t, "entry-100", snap[0].Content)
	assert.Equal(t, "entry-1", snap[len(snap)-1].Content)
	for _, e := range snap {
		assert.NotEqual(t, first.ID, e.ID, "oldest entry must be evicted")
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		e := textEntry("x")
		require.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestStore_Replace(t *testing.T) {
	t.Parallel()

	s := NewStore(5)
	s.PushFront(textEntry("old"))

	entries := []Entry{textEntry("new-front"), textEntry("new-back")}
	s.Replace(entries)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, entries, snap)
}

func TestStore_ReplaceTruncatesToCapacity(t *testing.T) {
	t.Parallel()

	s := NewStore(3)
	var entries []Entry
	for i := 0; i < 6; i++ {
		entries = append(entries, textEntry("e"+strconv.Itoa(i)))
	}
	s.Replace(entries)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	// The front of the supplied sequence wins.
	assert.Equal(t, entries[:3], snap)
}

func TestStore_RemoveByID(t *testing.T) {
	t.Parallel()

	s := NewStore(5)
	a, b, c := textEntry("a"), textEntry("b"), textEntry("c")
	s.PushFront(a)
	s.PushFront(b)
	s.PushFront(c)

	assert.True(t, s.RemoveByID(b.ID))
	assert.False(t, s.RemoveByID(b.ID))
	assert.False(t, s.RemoveByID("no-such-id"))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, c.ID, snap[0].ID)
	assert.Equal(t, a.ID, snap[1].ID)
}

func TestStore_RemoveByID_AfterWrap(t *testing.T) {
	t.Parallel()

	s := NewStore(3)
	var ids []string
	for i := 0; i < 5; i++ {
		e := textEntry("e" + strconv.Itoa(i))
		ids = append(ids, e.ID)
		s.PushFront(e)
	}
	// Store now holds e4, e3, e2 with a wrapped head.
	require.True(t, s.RemoveByID(ids[3]))
	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "e4", snap[0].Content)
	assert.Equal(t, "e2", snap[1].Content)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultCapacity)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.PushFront(textEntry("x"))
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, DefaultCapacity, s.Len())
}

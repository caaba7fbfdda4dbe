package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lajidonggua/ClipBox/internal/clipboard"
	"github.com/lajidonggua/ClipBox/internal/datauri"
	"github.com/lajidonggua/ClipBox/internal/history"
)

// scriptedPort replays a fixed sequence of reads, repeating the last one.
type scriptedPort struct {
	mu      sync.Mutex
	reads   []clipboard.Sample
	errs    []error
	pos     int
	written []string
}

func (p *scriptedPort) Read() (clipboard.Sample, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.pos
	if i >= len(p.reads) {
		i = len(p.reads) - 1
	} else {
		p.pos++
	}
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	return p.reads[i], err
}

func (p *scriptedPort) WriteText(content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, content)
	return nil
}

func (p *scriptedPort) WriteImageFile(string) error { return nil }
func (p *scriptedPort) Close() error                { return nil }

func text(s string) clipboard.Sample {
	return clipboard.Sample{Kind: clipboard.KindText, Content: s}
}

func newTestMonitor(port clipboard.Port) (*Monitor, *history.Store) {
	store := history.NewStore(history.DefaultCapacity)
	return New(port, store, time.Millisecond), store
}

func TestPoll_DeduplicatesConsecutiveReads(t *testing.T) {
	t.Parallel()

	port := &scriptedPort{reads: []clipboard.Sample{
		text("hello"), text("hello"), text("world"),
	}}
	m, store := newTestMonitor(port)

	var notified []string
	m.OnChange(func(e history.Entry) { notified = append(notified, e.Content) })

	for i := 0; i < 3; i++ {
		m.poll()
	}

	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "world", snap[0].Content)
	assert.Equal(t, "hello", snap[1].Content)
	assert.Equal(t, []string{"hello", "world"}, notified)
}

func TestPoll_NoiseNeverEntersHistory(t *testing.T) {
	t.Parallel()

	port := &scriptedPort{reads: []clipboard.Sample{
		text("339:45: execution error: timeout"), text("hello"),
	}}
	m, store := newTestMonitor(port)

	m.poll()
	m.poll()

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "hello", snap[0].Content)
}

func TestPoll_PassthroughRecordedAsImage(t *testing.T) {
	t.Parallel()

	uri := datauri.FromBytes([]byte("png"))
	port := &scriptedPort{reads: []clipboard.Sample{text(uri), text(uri)}}
	m, store := newTestMonitor(port)

	m.poll()
	m.poll() // identical read, must not duplicate

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, history.KindImage, snap[0].Kind)
	assert.Equal(t, uri, snap[0].Content)
	assert.Empty(t, snap[0].ImagePath)
}

func TestPoll_ImageSample(t *testing.T) {
	t.Parallel()

	uri := datauri.FromBytes([]byte("screenshot"))
	port := &scriptedPort{reads: []clipboard.Sample{
		{Kind: clipboard.KindImage, Content: uri},
	}}
	m, store := newTestMonitor(port)

	m.poll()

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, history.KindImage, snap[0].Kind)
}

func TestPoll_ReadErrorIsNonFatal(t *testing.T) {
	t.Parallel()

	port := &scriptedPort{
		reads: []clipboard.Sample{{}, text("after-error")},
		errs:  []error{&clipboard.ExecError{Utility: "pbpaste", Err: context.DeadlineExceeded}},
	}
	m, store := newTestMonitor(port)

	m.poll() // errors, skipped
	m.poll()

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "after-error", snap[0].Content)
}

func TestStart_SecondCallFails(t *testing.T) {
	t.Parallel()

	port := &scriptedPort{reads: []clipboard.Sample{{}}}
	m, _ := newTestMonitor(port)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	assert.ErrorIs(t, m.Start(ctx), ErrAlreadyRunning)

	cancel()
	m.Wait()
}

func TestWait_WithoutStartReturns(t *testing.T) {
	t.Parallel()

	m, _ := newTestMonitor(&scriptedPort{reads: []clipboard.Sample{{}}})
	m.Wait() // must not block
}

func TestStart_LoopRecordsUntilCancelled(t *testing.T) {
	t.Parallel()

	port := &scriptedPort{reads: []clipboard.Sample{text("tick")}}
	m, store := newTestMonitor(port)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))

	assert.Eventually(t, func() bool { return store.Len() == 1 },
		time.Second, 5*time.Millisecond)

	cancel()
	m.Wait()
	assert.Equal(t, 1, store.Len(), "identical reads after the first must be ignored")
}

// Package monitor drives the clipboard polling loop: sample the port, run the
// sample through the classifier, record novel content in the history store,
// and fan the new entry out to registered handlers.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lajidonggua/ClipBox/internal/clipboard"
	"github.com/lajidonggua/ClipBox/internal/history"
)

// DefaultInterval is the polling cadence.
const DefaultInterval = 500 * time.Millisecond

// ErrAlreadyRunning is returned by Start when the loop was already started.
// A second loop over the same state would double every observation.
var ErrAlreadyRunning = errors.New("monitor: already running")

// ChangeHandler is notified for each entry the monitor records, in insertion
// order. Handlers run on the monitor goroutine and must not block.
type ChangeHandler func(history.Entry)

// Monitor owns the polling goroutine. The history store and the last-seen
// guard are the only state shared with other goroutines; both sit behind
// short critical sections, and no lock is held across a port call.
type Monitor struct {
	port       clipboard.Port
	classifier *clipboard.Classifier
	store      *history.Store
	interval   time.Duration

	mu       sync.Mutex
	handlers []ChangeHandler
	lastSeen string
	running  bool
	done     chan struct{}
}

// New builds a monitor over the given port and store. interval <= 0 falls
// back to DefaultInterval.
func New(port clipboard.Port, store *history.Store, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		port:       port,
		classifier: clipboard.NewClassifier(),
		store:      store,
		interval:   interval,
	}
}

// OnChange registers a handler. Registration is allowed before or after
// Start.
func (m *Monitor) OnChange(h ChangeHandler) {
	m.mu.Lock()
	m.handlers = append(m.handlers, h)
	m.mu.Unlock()
}

// Start spawns the polling goroutine. It returns ErrAlreadyRunning on a
// second call. The loop runs until ctx is cancelled; use Wait to join it.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
	return nil
}

// Wait blocks until the polling goroutine has exited. It returns immediately
// if the monitor was never started.
func (m *Monitor) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("clipboard monitor started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("clipboard monitor stopped")
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll performs one tick. Read errors are never fatal: they are logged and
// the loop proceeds to the next tick.
func (m *Monitor) poll() {
	sample, err := m.port.Read()
	if err != nil {
		slog.Warn("clipboard read failed", "err", err)
		return
	}

	m.mu.Lock()
	lastSeen := m.lastSeen
	m.mu.Unlock()

	decision := m.classifier.Classify(sample, lastSeen)
	if decision == clipboard.DecisionIgnore {
		return
	}

	kind := history.KindText
	if decision == clipboard.DecisionNewImage || decision == clipboard.DecisionPassthrough {
		kind = history.KindImage
	}
	entry := history.NewEntry(sample.Content, kind)

	m.mu.Lock()
	m.lastSeen = sample.Content
	handlers := slices.Clone(m.handlers)
	m.mu.Unlock()

	m.store.PushFront(entry)
	slog.Debug("recorded clipboard entry", "kind", entry.Kind, "id", entry.ID)

	for _, h := range handlers {
		h(entry)
	}
}

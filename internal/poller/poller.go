// Package poller runs cancellable periodic fetch tasks keyed by cache key.
// Re-registering a key supersedes the previous task. Each task keeps its
// last good value across fetch failures, so a flaky indexer degrades to
// stale data instead of an empty page.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FetchFunc produces a fresh value for a task's cache key.
type FetchFunc func(ctx context.Context) (any, error)

// UpdateFunc observes a successful refresh of a cache key.
type UpdateFunc func(key string, value any)

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Poller schedules the periodic fetch tasks.
type Poller struct {
	logger *slog.Logger

	mu          sync.RWMutex
	tasks       map[string]*task
	lastGood    map[string]any
	subscribers map[int]UpdateFunc
	nextSubID   int
	closed      bool
}

// New creates a poller.
func New(logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		logger:      logger,
		tasks:       make(map[string]*task),
		lastGood:    make(map[string]any),
		subscribers: make(map[int]UpdateFunc),
	}
}

// Register starts a periodic task for key, fetching immediately and then on
// every interval tick. A task already registered under the same key is
// cancelled first; its last good value is kept.
func (p *Poller) Register(key string, interval time.Duration, fetch FetchFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return
	}
	if prev, ok := p.tasks[key]; ok {
		prev.cancel()
	}
	p.tasks[key] = t
	p.mu.Unlock()

	go p.run(ctx, t, key, interval, fetch)
}

func (p *Poller) run(ctx context.Context, t *task, key string, interval time.Duration, fetch FetchFunc) {
	defer close(t.done)

	p.refresh(ctx, key, fetch)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, key, fetch)
		}
	}
}

func (p *Poller) refresh(ctx context.Context, key string, fetch FetchFunc) {
	value, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("poll failed, keeping last good value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()
	p.lastGood[key] = value
	subs := make([]UpdateFunc, 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(key, value)
	}
}

// Cancel stops the task for key, keeping its last good value.
func (p *Poller) Cancel(key string) {
	p.mu.Lock()
	t, ok := p.tasks[key]
	if ok {
		delete(p.tasks, key)
	}
	p.mu.Unlock()

	if ok {
		t.cancel()
		<-t.done
	}
}

// Last returns the last good value for key, if any fetch ever succeeded.
func (p *Poller) Last(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.lastGood[key]
	return v, ok
}

// Subscribe registers an observer for successful refreshes of any key and
// returns its unsubscribe function.
func (p *Poller) Subscribe(fn UpdateFunc) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

// Close cancels all tasks and waits for them to stop.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	tasks := make([]*task, 0, len(p.tasks))
	for _, t := range p.tasks {
		tasks = append(tasks, t)
	}
	p.tasks = make(map[string]*task)
	p.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
		<-t.done
	}
}

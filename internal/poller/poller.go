// Package poller runs a fetch on mount and then on a fixed interval until
// stopped. Cycles run one at a time on a single goroutine, so results are
// applied in the order they were requested and never after Stop returns.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"lumen/internal/logger"
)

// DefaultInterval is the refresh period used when none is given.
const DefaultInterval = 10 * time.Second

// State is the lifecycle position of a poller.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateApplied  State = "applied"
	StateErrored  State = "errored"
	StateStopped  State = "stopped"
)

// Option configures a Poller.
type Option[T any] func(*Poller[T])

// WithErrorHook is called with every fetch error.
func WithErrorHook[T any](fn func(error)) Option[T] {
	return func(p *Poller[T]) { p.onError = fn }
}

// WithHaltOn stops the poller after a fetch error that match accepts, as
// if Stop had been called. onHalt, when non-nil, then runs on the loop
// goroutine; it may call Stop on any poller without blocking on this one.
func WithHaltOn[T any](match func(error) bool, onHalt func(error)) Option[T] {
	return func(p *Poller[T]) {
		p.haltOn = match
		p.onHalt = onHalt
	}
}

// WithLogger replaces the global logger.
func WithLogger[T any](log *zap.SugaredLogger) Option[T] {
	return func(p *Poller[T]) { p.log = log }
}

// Poller repeatedly fetches a T and hands it to apply.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	apply    func(T)
	onError  func(error)
	haltOn   func(error) bool
	onHalt   func(error)
	log      *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	lastErr error
	cancel  context.CancelFunc
	done    chan struct{}
	refresh chan struct{}
}

// New creates a poller. A non-positive interval uses DefaultInterval.
func New[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), apply func(T), opts ...Option[T]) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get()
	}
	return p
}

// Start begins polling with an immediate first fetch. Starting a running
// poller is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.refresh = make(chan struct{}, 1)
	p.state = StateIdle
	p.lastErr = nil
	go p.loop(ctx, cancel, p.done, p.refresh)
}

// Stop cancels the in-flight fetch and waits for the loop to exit. No apply
// runs after Stop returns.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	p.mu.Lock()
	if p.cancel == nil {
		p.state = StateStopped
	}
	p.mu.Unlock()
}

// Refresh asks for an immediate extra cycle. Requests made while one is
// already pending are coalesced.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	ch := p.refresh
	running := p.cancel != nil
	p.mu.Unlock()

	if !running {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// State returns the current lifecycle state.
func (p *Poller[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error of the last failed cycle, cleared by a success.
func (p *Poller[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller[T]) loop(ctx context.Context, cancel context.CancelFunc, done chan struct{}, refresh <-chan struct{}) {
	halt := p.run(ctx, refresh)
	if halt == nil {
		close(done)
		return
	}

	p.mu.Lock()
	if p.done == done {
		p.cancel = nil
		p.state = StateStopped
	}
	p.mu.Unlock()
	cancel()
	close(done)

	p.log.Infow("poller halted", "poller", p.name, "error", halt)
	if p.onHalt != nil {
		p.onHalt(halt)
	}
}

// run cycles until ctx is done or a fetch fails with a halting error, which
// it returns.
func (p *Poller[T]) run(ctx context.Context, refresh <-chan struct{}) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if err := p.cycle(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-refresh:
		}
		if err := p.cycle(ctx); err != nil {
			return err
		}

		// Ticks that came due during a slow fetch are dropped.
		select {
		case <-ticker.C:
		default:
		}
	}
}

// cycle runs one fetch and returns its error only when it halts the poller.
func (p *Poller[T]) cycle(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	p.setState(StateFetching, nil)

	v, err := p.fetch(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		p.setState(StateErrored, err)
		p.log.Warnw("poll failed", "poller", p.name, "error", err)
		if p.onError != nil {
			p.onError(err)
		}
		if p.haltOn != nil && p.haltOn(err) {
			return err
		}
		return nil
	}

	p.apply(v)
	p.setState(StateApplied, nil)
	return nil
}

func (p *Poller[T]) setState(s State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	if s != StateFetching {
		p.lastErr = err
	}
}

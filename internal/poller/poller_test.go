package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPoller_FetchesImmediatelyAndRepeats(t *testing.T) {
	var fetches, applies atomic.Int32
	p := New("test", 10*time.Millisecond,
		func(context.Context) (int, error) { return int(fetches.Add(1)), nil },
		func(int) { applies.Add(1) },
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return applies.Load() >= 1 })
	waitFor(t, func() bool { return applies.Load() >= 3 })
	if p.State() != StateApplied && p.State() != StateFetching {
		t.Errorf("unexpected state %q", p.State())
	}
}

func TestPoller_NoApplyAfterStop(t *testing.T) {
	started := make(chan struct{}, 1)
	var applies atomic.Int32
	p := New("slow", time.Hour,
		func(ctx context.Context) (int, error) {
			started <- struct{}{}
			<-ctx.Done()
			return 1, nil
		},
		func(int) { applies.Add(1) },
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(context.Background())
	<-started
	p.Stop()

	if applies.Load() != 0 {
		t.Errorf("expected no applies after teardown, got %d", applies.Load())
	}
	if p.State() != StateStopped {
		t.Errorf("expected stopped, got %q", p.State())
	}
}

func TestPoller_CyclesNeverOverlap(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var applies atomic.Int32
	p := New("overlap", time.Millisecond,
		func(context.Context) (int, error) {
			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return 0, nil
		},
		func(int) { applies.Add(1) },
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(context.Background())
	waitFor(t, func() bool { return applies.Load() >= 5 })
	p.Stop()

	if maxInFlight.Load() != 1 {
		t.Errorf("expected sequential fetches, saw %d concurrent", maxInFlight.Load())
	}
}

func TestPoller_ErrorsAreReportedNotApplied(t *testing.T) {
	boom := errors.New("boom")
	var mu sync.Mutex
	var reported []error
	var applies atomic.Int32

	p := New("errors", time.Hour,
		func(context.Context) (int, error) { return 0, boom },
		func(int) { applies.Add(1) },
		WithErrorHook[int](func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		}),
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.State() == StateErrored })
	if !errors.Is(p.Err(), boom) {
		t.Errorf("expected last error to be kept, got %v", p.Err())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || applies.Load() != 0 {
		t.Errorf("expected one report and no applies, got %d/%d", len(reported), applies.Load())
	}
}

func TestPoller_Refresh(t *testing.T) {
	var applies atomic.Int32
	p := New("refresh", time.Hour,
		func(context.Context) (int, error) { return 0, nil },
		func(int) { applies.Add(1) },
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Refresh()
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return applies.Load() == 1 })
	p.Refresh()
	waitFor(t, func() bool { return applies.Load() == 2 })
}

func TestPoller_StopIsIdempotentAndRestartable(t *testing.T) {
	var applies atomic.Int32
	p := New("restart", time.Hour,
		func(context.Context) (int, error) { return 0, nil },
		func(int) { applies.Add(1) },
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Stop()
	p.Start(context.Background())
	p.Start(context.Background())
	waitFor(t, func() bool { return applies.Load() == 1 })
	p.Stop()
	p.Stop()

	p.Start(context.Background())
	waitFor(t, func() bool { return applies.Load() == 2 })
	p.Stop()
}

func TestPoller_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New("parent", time.Millisecond,
		func(context.Context) (int, error) { return 0, nil },
		func(int) {},
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(ctx)
	cancel()
	p.Stop()
	if p.State() != StateStopped {
		t.Errorf("expected stopped, got %q", p.State())
	}
}

func TestPoller_HaltsOnMatchingError(t *testing.T) {
	denied := errors.New("denied")
	var fetches atomic.Int32
	halted := make(chan error, 1)

	var p *Poller[int]
	p = New("halt", time.Millisecond,
		func(context.Context) (int, error) {
			fetches.Add(1)
			return 0, denied
		},
		func(int) {},
		WithHaltOn[int](
			func(err error) bool { return errors.Is(err, denied) },
			func(err error) {
				p.Stop()
				halted <- err
			},
		),
		WithLogger[int](zap.NewNop().Sugar()),
	)

	p.Start(context.Background())
	select {
	case err := <-halted:
		if !errors.Is(err, denied) {
			t.Errorf("expected denied, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not halt")
	}

	if p.State() != StateStopped {
		t.Errorf("expected stopped, got %q", p.State())
	}
	time.Sleep(20 * time.Millisecond)
	if got := fetches.Load(); got != 1 {
		t.Errorf("expected a single fetch, got %d", got)
	}

	p.Start(context.Background())
	waitFor(t, func() bool { return fetches.Load() == 2 })
	<-halted
	if !errors.Is(p.Err(), denied) {
		t.Errorf("expected last error kept, got %v", p.Err())
	}
}

package carousel

import (
	"context"
	"sync"
	"time"
)

// HeroInterval is how often the hero carousel advances on its own.
const HeroInterval = 8 * time.Second

// AutoAdvancer calls a function on a fixed interval until stopped. Ticks are
// skipped while it is paused, which is how an in-progress drag or hover
// suspends auto-advance.
type AutoAdvancer struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	paused  bool
	started bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewAutoAdvancer returns a stopped AutoAdvancer. Call Start to run it.
// A non-positive interval falls back to HeroInterval.
func NewAutoAdvancer(interval time.Duration, fn func()) *AutoAdvancer {
	if interval <= 0 {
		interval = HeroInterval
	}
	return &AutoAdvancer{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the timer goroutine. It runs until Stop is called or ctx
// is cancelled. Calling Start more than once has no effect.
func (a *AutoAdvancer) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	go a.run(ctx)
}

func (a *AutoAdvancer) run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.Paused() {
				a.fn()
			}
		case <-a.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Pause suspends auto-advance, e.g. while the user drags the strip.
func (a *AutoAdvancer) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
}

// Resume re-enables auto-advance, e.g. when the pointer leaves the strip.
func (a *AutoAdvancer) Resume() {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
}

// Paused reports whether ticks are currently being skipped.
func (a *AutoAdvancer) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// Stop tears down the timer goroutine and waits for it to exit. It is safe
// to call more than once and on an advancer that was never started.
func (a *AutoAdvancer) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		<-a.done
	}
}

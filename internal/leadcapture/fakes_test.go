package leadcapture

import (
	"sync"
	"time"
)

// ==========================
// Fake clock
// ==========================

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs every timer that came due, outside
// the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// ==========================
// Fake widget
// ==========================

type fakeWidget struct {
	mu         sync.Mutex
	readyAfter int
	checks     int
	inits      []string
	initErr    error
}

func (w *fakeWidget) IsReady() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checks++
	return w.checks > w.readyAfter
}

func (w *fakeWidget) Init(container string, cfg SchedulerConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.initErr != nil {
		return w.initErr
	}
	w.inits = append(w.inits, container+"|"+cfg.URL)
	return nil
}

func (w *fakeWidget) InitCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inits)
}

func (w *fakeWidget) Checks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checks
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{Interval: time.Millisecond, MaxElapsed: 500 * time.Millisecond}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = fastPolicy()
	return cfg
}

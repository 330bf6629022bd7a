package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Tickers created from it fire only on Advance.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTicker{
		period: d,
		next:   f.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the clock forward and fires every ticker whose deadline passed.
// Like time.Ticker, a slow reader drops ticks instead of queueing them.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
	for _, t := range f.tickers {
		t.fire(f.now)
	}
}

// TickerCount reports live tickers; tests use it to wait for a goroutine to start ticking.
func (f *Fake) TickerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			count++
		}
	}
	return count
}

type fakeTicker struct {
	mu      sync.Mutex
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopped
}

func (t *fakeTicker) fire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.period <= 0 {
		return
	}

	fired := false
	for !t.next.After(now) {
		t.next = t.next.Add(t.period)
		fired = true
	}
	if !fired {
		return
	}

	select {
	case t.ch <- now:
	default:
	}
}

package debounce

import (
	"sync"
	"time"
)

// afterFunc is swappable so tests can intercept timer scheduling.
var afterFunc = time.AfterFunc

// Debouncer collapses bursts of triggers into a single callback once the
// delay passes without a newer trigger.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         func()
	timer      *time.Timer
	generation uint64
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Ensure initializes *d on first use and returns it, so lazily created
// debouncers share one callback.
func Ensure(d **Debouncer, delay time.Duration, fn func()) *Debouncer {
	if *d == nil {
		*d = New(delay, fn)
	}
	return *d
}

// Trigger arms (or re-arms) the timer. Reports whether a pending trigger
// was superseded, letting callers log collapsed bursts.
func (d *Debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	superseded := d.timer != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = afterFunc(d.delay, func() { d.fire(gen) })
	return superseded
}

// fire runs the callback unless a newer trigger or a Stop made this timer
// stale. Stopping a *time.Timer does not cancel an already-queued
// callback, hence the generation check.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// Package debounce coalesces rapid input changes into a single emission after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is a quiet period of the search input
const DefaultInterval = 800 * time.Millisecond

// Debouncer emits the latest value when no new value arrived during the interval.
// At most one timer is pending; every Set resets it.
type Debouncer[T any] struct {
	interval time.Duration
	emit     func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool

	// emitMu keeps emissions strictly ordered
	emitMu sync.Mutex
}

func New[T any](interval time.Duration, emit func(T)) *Debouncer[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer[T]{interval: interval, emit: emit}
}

// Set schedules emission of the value, superseding the pending one
func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(gen, value)
	})
}

func (d *Debouncer[T]) fire(gen uint64, value T) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	current := !d.stopped && gen == d.gen
	if current {
		d.timer = nil
	}
	d.mu.Unlock()

	if current {
		d.emit(value)
	}
}

// Pending reports whether an emission is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending emission. Values set after Stop are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

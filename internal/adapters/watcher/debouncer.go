package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid file system events into a single reload. Editors
// commonly produce several events per save.
type Debouncer struct {
	mu       sync.Mutex
	pending  bool
	timer    *time.Timer
	window   time.Duration
	callback func()
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the debounce window.
func (d *Debouncer) Add() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	if !d.pending {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback()
	}
}

// Flush immediately triggers the callback if events are pending. It blocks
// until the callback completes, so shutdown paths can finish the last reload
// before returning.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than running twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	pending := d.pending
	d.pending = false
	d.mu.Unlock()

	if pending && d.callback != nil {
		d.callback()
	}
}

// Package idle defers work until input quiesces.
//
// The mode dispatcher must not reclassify on every keystroke; the
// Debouncer coalesces a burst of edit and cursor events into a single
// callback after a quiet period. Scheduling a new call replaces any
// pending one (last writer wins), so intermediate cursor positions during
// a burst are never observed; only the position current when the timer
// fires.
package idle

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before the callback fires.
const DefaultDelay = 62500 * time.Microsecond // 1/16 s

// Debouncer groups rapid successive calls into one callback after a quiet
// period. All methods are safe for concurrent use; the callback never runs
// concurrently with itself from the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // detects stale timer callbacks
	callback func()
}

// NewDebouncer creates a debouncer that invokes callback after no new
// calls have arrived for delay. A non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, callback: callback}
}

// Call schedules the callback after the quiet period, replacing any
// previously pending schedule.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending && d.seq == seq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
			return
		}
		d.mu.Unlock()
	})
}

// Flush runs the callback immediately if a call is pending, canceling the
// scheduled timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if d.pending && d.callback != nil {
		d.pending = false
		d.mu.Unlock()
		d.callback()
		return
	}
	d.mu.Unlock()
}

// Cancel drops any pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending reports whether a call is scheduled but not yet fired.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

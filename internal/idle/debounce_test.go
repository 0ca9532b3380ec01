package idle

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })

	// A burst of calls before the quiet period elapses fires once.
	d.Call()
	d.Call()
	d.Call()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { fired.Add(1) })

	d.Call()
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times after Cancel, want 0", got)
	}
	if d.IsPending() {
		t.Error("IsPending() = true after Cancel")
	}
}

func TestDebouncerFlush(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(time.Hour, func() { fired.Add(1) })

	d.Call()
	if !d.IsPending() {
		t.Fatal("IsPending() = false after Call")
	}
	d.Flush()

	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times after Flush, want 1", got)
	}

	// Flush without a pending call is a no-op.
	d.Flush()
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times after second Flush, want 1", got)
	}
}

func TestDebouncerRepeats(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { fired.Add(1) })

	d.Call()
	time.Sleep(60 * time.Millisecond)
	d.Call()
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("callback fired %d times, want 2", got)
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, func() {})
	if d.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultDelay)
	}
}

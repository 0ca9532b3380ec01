package mode

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/embedit/internal/engine/buffer"
	"github.com/dshills/embedit/internal/hook"
	"github.com/dshills/embedit/internal/region"
)

// ChangeCallback is notified after a completed mode switch.
type ChangeCallback func(from, to Kind)

// Dispatcher is the per-buffer mode state machine.
//
// Edit and cursor events call MarkPending; the idle trigger later calls
// Sync with the then-current cursor offset. Sync is a no-op unless the
// pending flag is set, and switching to the already-active kind only
// clears the flag; re-applying an active mode's configuration on every
// keystroke would be wasted work.
type Dispatcher struct {
	mu         sync.Mutex
	buf        *buffer.Buffer
	bufName    string
	classifier *region.Classifier
	modes      [2]*Mode
	active     Kind
	pending    atomic.Bool
	callbacks  []ChangeCallback
	hooks      *hook.Registry
}

// NewDispatcher creates a dispatcher for the buffer. The classifier must
// be the same instance the indent coordinator uses; two different
// membership tests would let the displayed mode and the indentation rules
// disagree. hooks may be nil.
func NewDispatcher(buf *buffer.Buffer, bufName string, classifier *region.Classifier, host, embedded *Mode, hooks *hook.Registry) *Dispatcher {
	return &Dispatcher{
		buf:        buf,
		bufName:    bufName,
		classifier: classifier,
		modes:      [2]*Mode{KindHost: host, KindEmbedded: embedded},
		hooks:      hooks,
	}
}

// Init performs the one explicit classification at buffer-open time and
// activates the resulting mode without treating it as a switch (no
// callbacks, hooks still fire so users see the initial mode).
func (d *Dispatcher) Init(cursor buffer.ByteOffset) error {
	kind := KindFor(d.classifier.Classify(cursor))

	d.mu.Lock()
	if err := d.applyLocked(kind); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("activate initial mode %s: %w", kind, err)
	}
	d.active = kind
	d.mu.Unlock()

	if d.hooks != nil {
		d.hooks.Fire(kind.Event(), d.bufName)
	}
	return nil
}

// Active returns the active mode kind.
func (d *Dispatcher) Active() Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// ActiveMode returns the active mode.
func (d *Dispatcher) ActiveMode() *Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modes[d.active]
}

// Mode returns the mode for a kind.
func (d *Dispatcher) Mode(kind Kind) *Mode {
	return d.modes[kind]
}

// MarkPending records that an edit or cursor movement happened. The next
// Sync will classify; repeated marks before it fires coalesce.
func (d *Dispatcher) MarkPending() {
	d.pending.Store(true)
}

// Pending reports whether a classification is outstanding.
func (d *Dispatcher) Pending() bool {
	return d.pending.Load()
}

// Sync classifies the cursor position and switches modes if needed.
// Returns true when a switch happened.
//
// A switch failure propagates and leaves the active kind at its pre-switch
// value; the inconsistency is accepted and the next Sync retries.
func (d *Dispatcher) Sync(cursor buffer.ByteOffset) (bool, error) {
	if !d.pending.CompareAndSwap(true, false) {
		return false, nil
	}

	desired := KindFor(d.classifier.Classify(cursor))

	d.mu.Lock()
	if desired == d.active {
		d.mu.Unlock()
		return false, nil
	}
	if err := d.applyLocked(desired); err != nil {
		d.mu.Unlock()
		return false, fmt.Errorf("switch to %s mode: %w", desired, err)
	}
	from := d.active
	d.active = desired
	callbacks := make([]ChangeCallback, len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.mu.Unlock()

	// The mode's own enter hooks fire first, then change callbacks.
	if d.hooks != nil {
		d.hooks.Fire(desired.Event(), d.bufName)
	}
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, desired)
		}
	}
	return true, nil
}

// applyLocked applies the target mode's configuration to the buffer
// (must hold mu).
func (d *Dispatcher) applyLocked(kind Kind) error {
	m := d.modes[kind]
	if m == nil {
		return fmt.Errorf("no mode registered for kind %s", kind)
	}
	if m.TabWidth > 0 {
		d.buf.SetTabWidth(m.TabWidth)
	}
	if m.Enter != nil {
		if err := m.Enter(); err != nil {
			return err
		}
	}
	return nil
}

// OnChange registers a callback notified after each mode switch.
// Returns a function that unregisters it.
func (d *Dispatcher) OnChange(cb ChangeCallback) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, cb)
	index := len(d.callbacks) - 1
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if index < len(d.callbacks) {
			d.callbacks[index] = nil
		}
	}
}

// Package mode tracks which sub-language governs a buffer and switches
// the buffer's editing configuration when the cursor crosses a region
// boundary.
//
// Modes are a closed tagged pair, Host and Embedded, each holding the
// configuration, indenter handle, and keyword table for its language.
// The Dispatcher is a per-buffer state machine: edit and cursor events
// mark it pending; a debounced Sync classifies the cursor position and
// switches modes only when the desired kind differs from the active one,
// so a burst of keystrokes costs at most one classification and
// re-initialization.
package mode

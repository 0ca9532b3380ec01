// Package tui is the terminal front end. It owns the tcell screen and the
// event loop, routes keys into buffer edits, and keeps the mode dispatcher
// fed: every edit or cursor movement marks the dispatcher pending and arms
// the idle debouncer, whose expiry is posted back into the event loop so
// all buffer access stays on the loop goroutine.
package tui

// Package hook runs user callbacks after mode switches.
//
// A Registry holds ordered Go callbacks per event. A LuaRunner loads an
// optional hooks file and exposes its global functions (on_enter_host,
// on_enter_embedded) as registry callbacks, so users can react to mode
// switches without rebuilding the editor. Hook failures are logged and
// swallowed; a hook can never veto or break a mode switch that has already
// completed.
package hook

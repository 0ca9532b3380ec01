package hook

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ErrRunnerClosed is returned when using a closed Lua runner.
var ErrRunnerClosed = errors.New("lua hook runner is closed")

// LuaRunner executes user hook functions from a Lua file.
//
// gopher-lua's LState is not goroutine-safe; the runner serializes all
// access behind a mutex. Only base, table, string, and math libraries are
// opened; hooks get no io, os, or debug access.
type LuaRunner struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
	logFn  func(string)
}

// NewLuaRunner creates a runner with a sandboxed Lua state.
func NewLuaRunner() *LuaRunner {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// io, os, debug, and package stay closed: hooks react to mode
	// switches, they do not get system access.

	r := &LuaRunner{L: L}
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		r.mu.Lock()
		fn := r.logFn
		r.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
		return 0
	}))
	return r
}

// SetLogFunc routes the Lua-side log() function to the given sink.
func (r *LuaRunner) SetLogFunc(fn func(string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logFn = fn
}

// LoadFile executes a hooks file, defining its global functions.
func (r *LuaRunner) LoadFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRunnerClosed
	}
	if err := r.doWithRecovery(func() error { return r.L.DoFile(path) }); err != nil {
		return fmt.Errorf("load hooks file %s: %w", path, err)
	}
	return nil
}

// LoadString executes hook definitions from a string.
func (r *LuaRunner) LoadString(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRunnerClosed
	}
	if err := r.doWithRecovery(func() error { return r.L.DoString(code) }); err != nil {
		return fmt.Errorf("load hooks: %w", err)
	}
	return nil
}

// HasFunction reports whether a global Lua function with the name exists.
func (r *LuaRunner) HasFunction(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	return r.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call invokes a global Lua function with string arguments.
// Missing functions are not an error; hooks are optional.
func (r *LuaRunner) Call(name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRunnerClosed
	}

	fn := r.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LString(a)
	}

	err := r.doWithRecovery(func() error {
		return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lArgs...)
	})
	if err != nil {
		return fmt.Errorf("hook %s: %w", name, err)
	}
	return nil
}

// doWithRecovery executes fn with panic recovery (must hold mu).
func (r *LuaRunner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (r *LuaRunner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		r.L.Close()
	}
}

// Bind registers the runner's well-known hook functions on the registry.
// Hook errors go to the log sink; they never propagate to the dispatcher.
func (r *LuaRunner) Bind(reg *Registry) {
	bind := func(event, fnName string) {
		if !r.HasFunction(fnName) {
			return
		}
		reg.Add(event, func(bufName string) {
			if err := r.Call(fnName, bufName); err != nil {
				r.mu.Lock()
				fn := r.logFn
				r.mu.Unlock()
				if fn != nil {
					fn(err.Error())
				}
			}
		})
	}
	bind(EventEnterHost, "on_enter_host")
	bind(EventEnterEmbedded, "on_enter_embedded")
}

package hook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLuaRunnerCall(t *testing.T) {
	r := NewLuaRunner()
	defer r.Close()

	var logged []string
	r.SetLogFunc(func(msg string) { logged = append(logged, msg) })

	err := r.LoadString(`
		function on_enter_embedded(name)
			log("entered embedded in " .. name)
		end
	`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if !r.HasFunction("on_enter_embedded") {
		t.Fatal("HasFunction should find on_enter_embedded")
	}
	if r.HasFunction("on_enter_host") {
		t.Error("HasFunction should not find undefined function")
	}

	if err := r.Call("on_enter_embedded", "a.ndl"); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(logged) != 1 || logged[0] != "entered embedded in a.ndl" {
		t.Errorf("logged = %v, want one entry", logged)
	}
}

func TestLuaRunnerCallMissingFunction(t *testing.T) {
	r := NewLuaRunner()
	defer r.Close()

	if err := r.Call("does_not_exist", "x"); err != nil {
		t.Errorf("Call on missing function error = %v, want nil", err)
	}
}

func TestLuaRunnerCallError(t *testing.T) {
	r := NewLuaRunner()
	defer r.Close()

	if err := r.LoadString(`function boom() error("kaput") end`); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	err := r.Call("boom")
	if err == nil || !strings.Contains(err.Error(), "kaput") {
		t.Errorf("Call() error = %v, want error containing %q", err, "kaput")
	}
}

func TestLuaRunnerSandbox(t *testing.T) {
	r := NewLuaRunner()
	defer r.Close()

	if err := r.LoadString(`x = os ~= nil or io ~= nil`); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	// os and io must be unavailable; referencing them yields nil, so the
	// expression above stores false.
	if err := r.LoadString(`assert(not x, "os or io leaked into sandbox")`); err != nil {
		t.Errorf("sandbox check failed: %v", err)
	}
}

func TestLuaRunnerLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hooks.lua")
	code := `
		count = 0
		function on_enter_host(name) count = count + 1 end
	`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r := NewLuaRunner()
	defer r.Close()

	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !r.HasFunction("on_enter_host") {
		t.Error("hooks file should define on_enter_host")
	}
}

func TestLuaRunnerBind(t *testing.T) {
	r := NewLuaRunner()
	defer r.Close()

	err := r.LoadString(`
		function on_enter_host(name) log("host:" .. name) end
		function on_enter_embedded(name) log("embedded:" .. name) end
	`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	var logged []string
	r.SetLogFunc(func(msg string) { logged = append(logged, msg) })

	reg := NewRegistry()
	r.Bind(reg)

	if reg.Len(EventEnterHost) != 1 || reg.Len(EventEnterEmbedded) != 1 {
		t.Fatalf("Bind registered %d/%d hooks, want 1/1",
			reg.Len(EventEnterHost), reg.Len(EventEnterEmbedded))
	}

	reg.Fire(EventEnterEmbedded, "b.ndl")
	if len(logged) != 1 || logged[0] != "embedded:b.ndl" {
		t.Errorf("logged = %v, want [embedded:b.ndl]", logged)
	}
}

func TestLuaRunnerClosed(t *testing.T) {
	r := NewLuaRunner()
	r.Close()

	if err := r.LoadString("x = 1"); err != ErrRunnerClosed {
		t.Errorf("LoadString after Close error = %v, want ErrRunnerClosed", err)
	}
	if r.HasFunction("anything") {
		t.Error("closed runner should report no functions")
	}
}

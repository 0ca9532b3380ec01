package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Indent.Width != 4 {
		t.Errorf("Indent.Width = %d, want 4", s.Indent.Width)
	}
	if s.Indent.EmbeddedOffset != 0 {
		t.Errorf("Indent.EmbeddedOffset = %d, want 0", s.Indent.EmbeddedOffset)
	}
	if s.Idle.DelayMS != 62 {
		t.Errorf("Idle.DelayMS = %d, want 62", s.Idle.DelayMS)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[indent]
width = 2
use_tabs = true
embedded_offset = 3

[idle]
delay_ms = 100

[hooks]
file = "hooks.lua"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Indent.Width != 2 || !s.Indent.UseTabs || s.Indent.EmbeddedOffset != 3 {
		t.Errorf("indent settings = %+v", s.Indent)
	}
	if got := s.Idle.Delay(); got != 100*time.Millisecond {
		t.Errorf("Idle.Delay() = %v, want 100ms", got)
	}
	if s.Hooks.File != "hooks.lua" {
		t.Errorf("Hooks.File = %q, want hooks.lua", s.Hooks.File)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load() on missing file error = %v, want defaults", err)
	}
	if s != Default() {
		t.Errorf("missing file should yield defaults, got %+v", s)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[indent\nwidth="), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"zero width", func(s *Settings) { s.Indent.Width = 0 }, ErrBadIndentWidth},
		{"negative offset", func(s *Settings) { s.Indent.EmbeddedOffset = -1 }, ErrBadEmbeddedOffset},
		{"zero delay", func(s *Settings) { s.Idle.DelayMS = 0 }, ErrBadIdleDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvIndentWidth:    "8",
		EnvEmbeddedOffset: "2",
		EnvIdleDelayMS:    "not-a-number",
		EnvHooksFile:      "/etc/embedit/hooks.lua",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	s := Default()
	s.applyEnv(lookup)

	if s.Indent.Width != 8 {
		t.Errorf("Indent.Width = %d, want 8", s.Indent.Width)
	}
	if s.Indent.EmbeddedOffset != 2 {
		t.Errorf("Indent.EmbeddedOffset = %d, want 2", s.Indent.EmbeddedOffset)
	}
	if s.Idle.DelayMS != 62 {
		t.Errorf("unparsable delay should keep default, got %d", s.Idle.DelayMS)
	}
	if s.Hooks.File != "/etc/embedit/hooks.lua" {
		t.Errorf("Hooks.File = %q", s.Hooks.File)
	}
}

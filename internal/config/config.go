// Package config loads editor settings from a TOML file with environment
// overrides. A missing config file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Validation errors.
var (
	ErrBadIndentWidth    = errors.New("indent.width must be positive")
	ErrBadEmbeddedOffset = errors.New("indent.embedded_offset must not be negative")
	ErrBadIdleDelay      = errors.New("idle.delay_ms must be positive")
)

// Settings is the full configuration surface.
type Settings struct {
	Indent  IndentSettings  `toml:"indent"`
	Idle    IdleSettings    `toml:"idle"`
	Hooks   HooksSettings   `toml:"hooks"`
	Session SessionSettings `toml:"session"`
}

// IndentSettings configures the indent coordinator.
type IndentSettings struct {
	// Width is one indentation level in columns.
	Width int `toml:"width"`

	// UseTabs emits tabs where whole levels fit.
	UseTabs bool `toml:"use_tabs"`

	// HostBase is the column for host statements and delimiter lines.
	HostBase int `toml:"host_base"`

	// EmbeddedOffset is the extra indent for synthetic brace lines.
	EmbeddedOffset int `toml:"embedded_offset"`
}

// IdleSettings configures the idle trigger.
type IdleSettings struct {
	// DelayMS is the debounce quiet period in milliseconds.
	DelayMS int `toml:"delay_ms"`
}

// Delay returns the debounce period as a duration.
func (s IdleSettings) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// HooksSettings points at the optional Lua hooks file.
type HooksSettings struct {
	File string `toml:"file"`
}

// SessionSettings points at the optional session state file.
type SessionSettings struct {
	File string `toml:"file"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Indent: IndentSettings{Width: 4, HostBase: 0, EmbeddedOffset: 0},
		Idle:   IdleSettings{DelayMS: 62}, // 1/16 s
	}
}

// Load reads settings from a TOML file, then applies environment
// overrides and validates. An empty path or missing file yields defaults.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing config is not an error.
		case err != nil:
			return s, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	s.applyEnv(os.LookupEnv)
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks settings invariants.
func (s Settings) Validate() error {
	if s.Indent.Width <= 0 {
		return ErrBadIndentWidth
	}
	if s.Indent.EmbeddedOffset < 0 {
		return ErrBadEmbeddedOffset
	}
	if s.Idle.DelayMS <= 0 {
		return ErrBadIdleDelay
	}
	return nil
}

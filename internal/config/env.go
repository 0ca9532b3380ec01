package config

import "strconv"

// Environment variable names. Each overrides the corresponding TOML key.
const (
	EnvIndentWidth    = "EMBEDIT_INDENT_WIDTH"
	EnvEmbeddedOffset = "EMBEDIT_EMBEDDED_OFFSET"
	EnvIdleDelayMS    = "EMBEDIT_IDLE_DELAY_MS"
	EnvHooksFile      = "EMBEDIT_HOOKS_FILE"
	EnvSessionFile    = "EMBEDIT_SESSION_FILE"
)

// applyEnv overlays environment values onto the settings. Unparsable
// numeric values are ignored; validation catches out-of-range results.
func (s *Settings) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookupInt(lookup, EnvIndentWidth); ok {
		s.Indent.Width = v
	}
	if v, ok := lookupInt(lookup, EnvEmbeddedOffset); ok {
		s.Indent.EmbeddedOffset = v
	}
	if v, ok := lookupInt(lookup, EnvIdleDelayMS); ok {
		s.Idle.DelayMS = v
	}
	if v, ok := lookup(EnvHooksFile); ok {
		s.Hooks.File = v
	}
	if v, ok := lookup(EnvSessionFile); ok {
		s.Session.File = v
	}
}

func lookupInt(lookup func(string) (string, bool), key string) (int, bool) {
	v, ok := lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

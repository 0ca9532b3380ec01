// Package session persists per-file editor state between runs: the last
// cursor position and which sub-language mode was active. State lives in
// a small JSON file keyed by absolute file path.
package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// State is what the editor remembers about one file.
type State struct {
	Line   uint32
	Column uint32
	Mode   string
}

// Store reads and writes session state. A Store with an empty path is
// disabled: reads miss and writes are dropped.
type Store struct {
	path string
}

// NewStore creates a store backed by the given JSON file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the remembered state for a file, and whether any exists.
// A missing state file is not an error.
func (s *Store) Get(file string) (State, bool, error) {
	if s.path == "" {
		return State{}, false, nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	entry := gjson.GetBytes(data, filePath(file))
	if !entry.Exists() {
		return State{}, false, nil
	}
	return State{
		Line:   uint32(entry.Get("line").Uint()),
		Column: uint32(entry.Get("col").Uint()),
		Mode:   entry.Get("mode").String(),
	}, true, nil
}

// Put stores the state for a file, creating the state file if needed.
func (s *Store) Put(file string, st State) error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		data = []byte("{}")
	} else if err != nil {
		return fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	base := filePath(file)
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"line", st.Line},
		{"col", st.Column},
		{"mode", st.Mode},
	} {
		data, err = sjson.SetBytes(data, base+"."+kv.key, kv.value)
		if err != nil {
			return fmt.Errorf("updating session state: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}

// filePath builds the JSON path for a file entry, escaping characters
// that are special in gjson/sjson path syntax.
func filePath(file string) string {
	return "files." + escapeKey(file)
}

func escapeKey(key string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`.`, `\.`,
		`*`, `\*`,
		`?`, `\?`,
		`|`, `\|`,
		`#`, `\#`,
		`@`, `\@`,
	)
	return r.Replace(key)
}

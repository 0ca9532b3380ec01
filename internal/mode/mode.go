package mode

import (
	"github.com/dshills/embedit/internal/highlight"
	"github.com/dshills/embedit/internal/hook"
	"github.com/dshills/embedit/internal/indent"
	"github.com/dshills/embedit/internal/region"
)

// Kind tags the two sub-language modes. There are exactly two; dispatch
// is by explicit matching on the tag.
type Kind uint8

const (
	// KindHost is the netlist host language mode.
	KindHost Kind = iota

	// KindEmbedded is the action-code mode between region markers.
	KindEmbedded
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// KindFor maps a region class to its mode kind.
func KindFor(class region.Class) Kind {
	if class == region.Embedded {
		return KindEmbedded
	}
	return KindHost
}

// Event returns the hook event fired after switching to this kind.
func (k Kind) Event() string {
	if k == KindEmbedded {
		return hook.EventEnterEmbedded
	}
	return hook.EventEnterHost
}

// Mode holds one sub-language's editing configuration.
type Mode struct {
	// Kind is the variant tag.
	Kind Kind

	// Name is the unique mode identifier (e.g. "host").
	Name string

	// DisplayName is shown in the status line.
	DisplayName string

	// TabWidth applies to the buffer while this mode is active.
	TabWidth int

	// Indenter is this language's own line indenter.
	Indenter indent.LineIndenter

	// Keywords is the fixed highlighting table for this language.
	Keywords *highlight.Table

	// Enter runs while activating the mode, before hooks fire. An error
	// aborts the switch.
	Enter func() error
}

// NewHostMode builds the host-language mode with defaults.
func NewHostMode(tabWidth int, indenter indent.LineIndenter) *Mode {
	return &Mode{
		Kind:        KindHost,
		Name:        "host",
		DisplayName: "Netlist",
		TabWidth:    tabWidth,
		Indenter:    indenter,
		Keywords:    highlight.HostTable(),
	}
}

// NewEmbeddedMode builds the embedded action-code mode with defaults.
func NewEmbeddedMode(tabWidth int, indenter indent.LineIndenter) *Mode {
	return &Mode{
		Kind:        KindEmbedded,
		Name:        "embedded",
		DisplayName: "Code",
		TabWidth:    tabWidth,
		Indenter:    indenter,
		Keywords:    highlight.EmbeddedTable(),
	}
}

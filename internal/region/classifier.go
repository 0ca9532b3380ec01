package region

import "github.com/dshills/embedit/internal/engine/buffer"

// Class identifies the sub-language governing a buffer position.
type Class uint8

const (
	// Host is the outer netlist language.
	Host Class = iota

	// Embedded is the action-code language between markers.
	Embedded
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case Host:
		return "host"
	case Embedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// Classifier maps buffer positions to their governing sub-language.
// It is the single source of truth for region membership; the mode
// dispatcher and the indent coordinator must share one classifier so the
// displayed mode and the indentation rules never disagree.
type Classifier struct {
	scanner *Scanner
}

// NewClassifier creates a classifier over the scanner.
func NewClassifier(scanner *Scanner) *Classifier {
	return &Classifier{scanner: scanner}
}

// Classify returns the class of the given offset.
func (c *Classifier) Classify(offset buffer.ByteOffset) Class {
	if c.scanner.IsInside(offset) {
		return Embedded
	}
	return Host
}

// Scanner returns the underlying delimiter scanner.
func (c *Classifier) Scanner() *Scanner {
	return c.scanner
}

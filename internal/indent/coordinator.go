package indent

import (
	"fmt"
	"strings"

	"github.com/dshills/embedit/internal/engine/buffer"
	"github.com/dshills/embedit/internal/region"
)

// Options configures the coordinator.
type Options struct {
	// Width is one indentation level in columns.
	Width int

	// UseTabs emits tabs instead of spaces where whole levels fit.
	UseTabs bool

	// HostBase is the column for host statements and delimiter lines.
	HostBase int

	// EmbeddedOffset is the extra indent applied to synthetic brace lines.
	EmbeddedOffset int
}

// DefaultOptions returns the default indentation settings.
func DefaultOptions() Options {
	return Options{Width: 4, HostBase: 0, EmbeddedOffset: 0}
}

// Coordinator dispatches line indentation to the sub-language governing
// each line.
type Coordinator struct {
	buf        *buffer.Buffer
	classifier *region.Classifier
	pair       *region.DelimiterPair
	host       LineIndenter
	embedded   LineIndenter
	opts       Options
}

// NewCoordinator creates a coordinator over the buffer. The classifier
// must be the same instance the mode dispatcher uses.
func NewCoordinator(buf *buffer.Buffer, classifier *region.Classifier, pair *region.DelimiterPair, host, embedded LineIndenter, opts Options) *Coordinator {
	return &Coordinator{
		buf:        buf,
		classifier: classifier,
		pair:       pair,
		host:       host,
		embedded:   embedded,
		opts:       opts,
	}
}

// IndentLine indents one line according to its governing sub-language.
// Delimiter lines are host structural lines and always take the host base
// column, regardless of classification.
func (c *Coordinator) IndentLine(line uint32) error {
	if line >= c.buf.LineCount() {
		return fmt.Errorf("indent line %d: %w", line, buffer.ErrLineOutOfRange)
	}

	if c.pair.MatchesLine(c.buf.LineText(line)) {
		return setIndent(c.buf, line, c.opts.HostBase, c.opts.UseTabs)
	}

	switch c.classifier.Classify(c.buf.LineStartOffset(line)) {
	case region.Embedded:
		return c.indentEmbedded(line)
	default:
		return c.host.IndentLine(c.buf, line)
	}
}

// IndentRegion indents every non-blank line in the half-open range
// [start, end) in ascending order. Blank lines are left unchanged.
func (c *Coordinator) IndentRegion(start, end uint32) error {
	if end > c.buf.LineCount() {
		end = c.buf.LineCount()
	}
	for line := start; line < end; line++ {
		if strings.TrimSpace(c.buf.LineText(line)) == "" {
			continue
		}
		if err := c.IndentLine(line); err != nil {
			return fmt.Errorf("indent region at line %d: %w", line, err)
		}
	}
	return nil
}

// indentEmbedded indents an embedded-language line. The embedded indenter
// runs inside the synthetic brace scope; its error is discarded so a
// transient indenter failure never prevents brace cleanup.
func (c *Coordinator) indentEmbedded(line uint32) error {
	return c.withSyntheticBraces(line, func(target uint32) error {
		_ = c.embedded.IndentLine(c.buf, target)
		return nil
	})
}

// withSyntheticBraces surrounds the embedded region containing line with a
// synthetic brace pair, runs fn with the (possibly shifted) target line,
// and removes the insertions on every exit path.
//
// A missing delimiter on either side (malformed buffer) skips that side's
// brace; fn then runs with degraded context and its output is undefined,
// but no synthetic text ever remains.
func (c *Coordinator) withSyntheticBraces(line uint32, fn func(target uint32) error) error {
	openLine, hasOpen := c.findOpenAbove(line)
	closeLine, hasClose := c.findCloseBelow(line)

	braceIndent := indentText(c.opts.EmbeddedOffset, c.opts.UseTabs, c.buf.TabWidth())
	target := line
	var inserted []uint32

	if hasOpen {
		braceLine := openLine + 1
		if err := c.buf.InsertLine(braceLine, braceIndent+"{"); err != nil {
			return fmt.Errorf("insert synthetic open brace: %w", err)
		}
		inserted = append(inserted, braceLine)
		target++
		if hasClose {
			closeLine++
		}
	}
	if hasClose {
		if err := c.buf.InsertLine(closeLine, braceIndent+"}"); err != nil {
			// Remove the open brace before reporting.
			for i := len(inserted) - 1; i >= 0; i-- {
				_ = c.buf.DeleteLine(inserted[i])
			}
			return fmt.Errorf("insert synthetic close brace: %w", err)
		}
		inserted = append(inserted, closeLine)
	}

	// Remove in reverse insertion order: the close brace sits below the
	// target line, so deleting it first leaves earlier line numbers valid.
	defer func() {
		for i := len(inserted) - 1; i >= 0; i-- {
			_ = c.buf.DeleteLine(inserted[i])
		}
	}()

	return fn(target)
}

// findOpenAbove returns the nearest line strictly above that contains an
// open delimiter.
func (c *Coordinator) findOpenAbove(line uint32) (uint32, bool) {
	for i := int(line) - 1; i >= 0; i-- {
		if c.pair.Open.MatchString(c.buf.LineText(uint32(i))) {
			return uint32(i), true
		}
	}
	return 0, false
}

// findCloseBelow returns the nearest line strictly below that contains a
// close delimiter.
func (c *Coordinator) findCloseBelow(line uint32) (uint32, bool) {
	count := c.buf.LineCount()
	for i := line + 1; i < count; i++ {
		if c.pair.Close.MatchString(c.buf.LineText(i)) {
			return i, true
		}
	}
	return 0, false
}

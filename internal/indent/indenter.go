package indent

import (
	"errors"
	"strings"

	"github.com/dshills/embedit/internal/engine/buffer"
)

// ErrNoBlockContext is returned by the brace indenter when no enclosing
// open brace exists above the target line.
var ErrNoBlockContext = errors.New("no enclosing block context")

// LineIndenter indents a single line in place.
// Implementations only change the line's leading whitespace.
type LineIndenter interface {
	IndentLine(buf *buffer.Buffer, line uint32) error
}

// FixedIndenter indents every line at a fixed column.
// It serves as the host-language reference indenter: netlist statements
// sit at the base column.
type FixedIndenter struct {
	Column  int
	UseTabs bool
}

// IndentLine sets the line's leading whitespace to the fixed column.
func (fi *FixedIndenter) IndentLine(buf *buffer.Buffer, line uint32) error {
	return setIndent(buf, line, fi.Column, fi.UseTabs)
}

// BraceIndenter is a brace-aware reference indenter for the embedded
// action-code language. A line indents one level deeper than the line
// holding its innermost unmatched open brace; a line starting with a close
// brace aligns with that line instead.
type BraceIndenter struct {
	Width   int
	UseTabs bool
}

// IndentLine re-indents the line relative to its enclosing brace.
// Returns ErrNoBlockContext when no unmatched open brace precedes it.
func (bi *BraceIndenter) IndentLine(buf *buffer.Buffer, line uint32) error {
	var stack []uint32
	for i := uint32(0); i < line; i++ {
		for _, r := range buf.LineText(i) {
			switch r {
			case '{':
				stack = append(stack, i)
			case '}':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
	if len(stack) == 0 {
		return ErrNoBlockContext
	}

	anchor := stack[len(stack)-1]
	cols := leadingWidth(buf.LineText(anchor), buf.TabWidth())
	content := strings.TrimLeft(buf.LineText(line), " \t")
	if !strings.HasPrefix(content, "}") {
		cols += bi.Width
	}
	return setIndent(buf, line, cols, bi.UseTabs)
}

// setIndent replaces a line's leading whitespace with the given column.
func setIndent(buf *buffer.Buffer, line uint32, cols int, useTabs bool) error {
	text := buf.LineText(line)
	content := strings.TrimLeft(text, " \t")
	return buf.SetLineText(line, indentText(cols, useTabs, buf.TabWidth())+content)
}

// indentText builds the whitespace for the given column count.
func indentText(cols int, useTabs bool, tabWidth int) string {
	if cols <= 0 {
		return ""
	}
	if useTabs && tabWidth > 0 {
		return strings.Repeat("\t", cols/tabWidth) + strings.Repeat(" ", cols%tabWidth)
	}
	return strings.Repeat(" ", cols)
}

// leadingWidth measures a line's leading whitespace in columns, expanding
// tabs to the given width.
func leadingWidth(s string, tabWidth int) int {
	width := 0
	for _, r := range s {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width
		}
	}
	return width
}

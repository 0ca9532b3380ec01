package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrLineOutOfRange   = errors.New("line out of range")
)

// EditObserver is notified after every mutation with the first (lowest)
// line the edit touched. Derived indexes use this to invalidate
// incrementally instead of rescanning the whole document.
type EditObserver func(fromLine uint32)

// Buffer is line-indexed text storage.
// Line endings are normalized to LF; lines are stored without the
// trailing newline. An empty buffer has exactly one empty line.
// All methods are thread-safe.
type Buffer struct {
	mu        sync.RWMutex
	lines     []string
	starts    []ByteOffset // lazily built line start offsets
	startsOK  bool
	revision  uint64
	tabWidth  int
	observers []EditObserver
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:    []string{""},
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(normalizeLineEndings(s))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR sequences to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitLines splits text into lines without trailing newlines.
// The result always has at least one element.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// AddEditObserver registers an observer invoked after every mutation.
// Observers are called with the buffer lock held; they must not call back
// into mutating methods.
func (b *Buffer) AddEditObserver(fn EditObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, fn)
}

// notifyLocked marks the buffer edited from the given line (must hold lock).
func (b *Buffer) notifyLocked(fromLine uint32) {
	b.revision++
	b.startsOK = false
	for _, fn := range b.observers {
		fn(fromLine)
	}
}

// Read operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var n ByteOffset
	for _, line := range b.lines {
		n += ByteOffset(len(line))
	}
	return n + ByteOffset(len(b.lines)-1)
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lines))
}

// LineText returns the text of a specific line (without newline).
// Returns the empty string for out-of-range lines.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the byte length of a specific line (without newline).
func (b *Buffer) LineLen(line uint32) int {
	return len(b.LineText(line))
}

// rebuildStartsLocked refreshes the line start offset table if stale
// (must hold write lock).
func (b *Buffer) rebuildStartsLocked() {
	if b.startsOK {
		return
	}
	if cap(b.starts) < len(b.lines) {
		b.starts = make([]ByteOffset, len(b.lines))
	}
	b.starts = b.starts[:len(b.lines)]
	var off ByteOffset
	for i, line := range b.lines {
		b.starts[i] = off
		off += ByteOffset(len(line)) + 1
	}
	b.startsOK = true
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rebuildStartsLocked()
	if int(line) >= len(b.starts) {
		return b.starts[len(b.starts)-1] + ByteOffset(len(b.lines[len(b.lines)-1]))
	}
	return b.starts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before the
// newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	return b.LineStartOffset(line) + ByteOffset(b.LineLen(line))
}

// OffsetToPoint converts a byte offset to line/column.
// Offsets beyond the end of the buffer clamp to the final position.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rebuildStartsLocked()
	if offset < 0 {
		return Point{}
	}
	// Binary search for the containing line.
	lo, hi := 0, len(b.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	col := offset - b.starts[lo]
	if max := ByteOffset(len(b.lines[lo])); col > max {
		col = max
	}
	return Point{Line: uint32(lo), Column: uint32(col)}
}

// PointToOffset converts line/column to a byte offset.
// Out-of-range points clamp to the nearest valid position.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rebuildStartsLocked()
	line := int(p.Line)
	if line >= len(b.lines) {
		line = len(b.lines) - 1
		return b.starts[line] + ByteOffset(len(b.lines[line]))
	}
	col := ByteOffset(p.Column)
	if max := ByteOffset(len(b.lines[line])); col > max {
		col = max
	}
	return b.starts[line] + col
}

// Write operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rebuildStartsLocked()

	line, col, ok := b.locateLocked(offset)
	if !ok {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	cur := b.lines[line]
	head, tail := cur[:col], cur[col:]

	parts := splitLines(text)
	if len(parts) == 1 {
		b.lines[line] = head + text + tail
	} else {
		parts[0] = head + parts[0]
		parts[len(parts)-1] = parts[len(parts)-1] + tail
		b.lines = append(b.lines[:line], append(parts, b.lines[line+1:]...)...)
	}

	b.notifyLocked(uint32(line))
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rebuildStartsLocked()

	if start > end {
		return ErrRangeInvalid
	}
	sLine, sCol, ok := b.locateLocked(start)
	if !ok {
		return ErrRangeInvalid
	}
	eLine, eCol, ok := b.locateLocked(end)
	if !ok {
		return ErrRangeInvalid
	}

	merged := b.lines[sLine][:sCol] + b.lines[eLine][eCol:]
	b.lines = append(b.lines[:sLine], append([]string{merged}, b.lines[eLine+1:]...)...)

	b.notifyLocked(uint32(sLine))
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if err := b.Delete(start, end); err != nil {
		return 0, err
	}
	return b.Insert(start, text)
}

// InsertLine inserts a whole new line at the given line index.
// Existing lines at and after the index shift down by one.
func (b *Buffer) InsertLine(line uint32, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(line) > len(b.lines) {
		return ErrLineOutOfRange
	}
	if strings.ContainsRune(text, '\n') {
		return ErrRangeInvalid
	}
	b.lines = append(b.lines[:line], append([]string{text}, b.lines[line:]...)...)
	b.notifyLocked(line)
	return nil
}

// DeleteLine removes the line at the given index together with its newline.
// Deleting the only line leaves a single empty line.
func (b *Buffer) DeleteLine(line uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(line) >= len(b.lines) {
		return ErrLineOutOfRange
	}
	if len(b.lines) == 1 {
		b.lines[0] = ""
	} else {
		b.lines = append(b.lines[:line], b.lines[line+1:]...)
	}
	b.notifyLocked(line)
	return nil
}

// SetLineText replaces the text of a single line.
func (b *Buffer) SetLineText(line uint32, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(line) >= len(b.lines) {
		return ErrLineOutOfRange
	}
	if strings.ContainsRune(text, '\n') {
		return ErrRangeInvalid
	}
	b.lines[line] = text
	b.notifyLocked(line)
	return nil
}

// locateLocked maps an offset to (line, column). Must hold lock with a
// fresh starts table.
func (b *Buffer) locateLocked(offset ByteOffset) (int, int, bool) {
	if offset < 0 {
		return 0, 0, false
	}
	lo, hi := 0, len(b.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	col := int(offset - b.starts[lo])
	if col > len(b.lines[lo]) {
		return 0, 0, false
	}
	return lo, col, true
}

// Buffer state

// Revision returns a counter incremented on every mutation.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.tabWidth = width
	}
}

package region

import (
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/dshills/embedit/internal/engine/buffer"
)

// Scanner counts delimiter occurrences before a buffer position.
//
// It keeps per-line open/close match counts plus prefix sums, built lazily
// and invalidated from the lowest line an edit touches. The cached answer
// is always identical to rescanning the whole text from the start.
type Scanner struct {
	mu   sync.Mutex
	buf  *buffer.Buffer
	pair *DelimiterPair

	// Per-line counts valid for lines [0, valid); prefix sums have one
	// extra element so prefixOpens[i] counts lines [0, i).
	opens       []uint32
	closes      []uint32
	prefixOpens []uint32
	prefixClose []uint32
	valid       int

	// dirtyFrom holds the lowest invalidated line, or clean (-1).
	// Written by the buffer's edit observer without taking mu, so
	// invalidation never nests the scanner lock inside the buffer lock.
	dirtyFrom atomic.Int64
}

const clean = int64(-1)

// NewScanner creates a scanner over the buffer and registers it for edit
// invalidation.
func NewScanner(buf *buffer.Buffer, pair *DelimiterPair) *Scanner {
	s := &Scanner{buf: buf, pair: pair}
	s.dirtyFrom.Store(clean)
	buf.AddEditObserver(s.Invalidate)
	return s
}

// Invalidate discards cached counts for the given line and everything
// after it.
func (s *Scanner) Invalidate(fromLine uint32) {
	for {
		cur := s.dirtyFrom.Load()
		if cur != clean && cur <= int64(fromLine) {
			return
		}
		if s.dirtyFrom.CompareAndSwap(cur, int64(fromLine)) {
			return
		}
	}
}

// IsInside reports whether the offset lies inside an embedded region:
// more opens than closes precede it.
func (s *Scanner) IsInside(offset buffer.ByteOffset) bool {
	opens, closes := s.countsBefore(offset)
	return opens > closes
}

// countsBefore returns the number of open and close markers wholly
// contained in the text before offset.
func (s *Scanner) countsBefore(offset buffer.ByteOffset) (uint32, uint32) {
	p := s.buf.OffsetToPoint(offset)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(int(p.Line))

	line := s.buf.LineText(p.Line)
	if int(p.Column) < len(line) {
		line = line[:p.Column]
	}
	opens := s.prefixOpens[p.Line] + countMatches(s.pair.Open, line)
	closes := s.prefixClose[p.Line] + countMatches(s.pair.Close, line)
	return opens, closes
}

// CountMatches counts pattern matches wholly contained in [from, to).
// This is the uncached reference operation; classification goes through
// the cached path.
func (s *Scanner) CountMatches(re *regexp.Regexp, from, to buffer.ByteOffset) uint32 {
	text := s.buf.Text()
	if from < 0 {
		from = 0
	}
	if to > buffer.ByteOffset(len(text)) {
		to = buffer.ByteOffset(len(text))
	}
	if from >= to {
		return 0
	}
	return countMatches(re, text[from:to])
}

// ensureLocked brings per-line counts up to date for lines [0, throughLine)
// and refreshes the prefix sums (must hold mu).
func (s *Scanner) ensureLocked(throughLine int) {
	if from := s.dirtyFrom.Swap(clean); from != clean && int(from) < s.valid {
		s.valid = int(from)
	}

	lineCount := int(s.buf.LineCount())
	if s.valid > lineCount {
		s.valid = lineCount
	}
	if throughLine > lineCount {
		throughLine = lineCount
	}

	if cap(s.opens) < lineCount {
		opens := make([]uint32, lineCount)
		copy(opens, s.opens[:s.valid])
		s.opens = opens
		closes := make([]uint32, lineCount)
		copy(closes, s.closes[:s.valid])
		s.closes = closes
	}
	s.opens = s.opens[:lineCount]
	s.closes = s.closes[:lineCount]

	for i := s.valid; i < throughLine; i++ {
		line := s.buf.LineText(uint32(i))
		s.opens[i] = countMatches(s.pair.Open, line)
		s.closes[i] = countMatches(s.pair.Close, line)
	}
	if throughLine > s.valid {
		s.valid = throughLine
	}

	// Prefix sums over the validated lines. prefix[i] covers lines [0, i).
	if cap(s.prefixOpens) < s.valid+1 {
		s.prefixOpens = make([]uint32, s.valid+1)
		s.prefixClose = make([]uint32, s.valid+1)
	}
	s.prefixOpens = s.prefixOpens[:s.valid+1]
	s.prefixClose = s.prefixClose[:s.valid+1]
	for i := 0; i < s.valid; i++ {
		s.prefixOpens[i+1] = s.prefixOpens[i] + s.opens[i]
		s.prefixClose[i+1] = s.prefixClose[i] + s.closes[i]
	}
}

func countMatches(re *regexp.Regexp, s string) uint32 {
	return uint32(len(re.FindAllStringIndex(s, -1)))
}

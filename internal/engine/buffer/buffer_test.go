package buffer

import (
	"strings"
	"testing"
)

func TestNewBufferEmpty(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if got := b.LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
	if got := b.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestNewBufferFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLines uint32
		wantText  string
	}{
		{"single line", "hello", 1, "hello"},
		{"two lines", "a\nb", 2, "a\nb"},
		{"trailing newline", "a\n", 2, "a\n"},
		{"crlf normalized", "a\r\nb", 2, "a\nb"},
		{"cr normalized", "a\rb", 2, "a\nb"},
		{"empty", "", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.input)
			if got := b.LineCount(); got != tt.wantLines {
				t.Errorf("LineCount() = %d, want %d", got, tt.wantLines)
			}
			if got := b.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("x\ny\n"))
	if err != nil {
		t.Fatalf("NewBufferFromReader() error = %v", err)
	}
	if got := b.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
}

func TestLineText(t *testing.T) {
	b := NewBufferFromString("first\nsecond\nthird")

	if got := b.LineText(1); got != "second" {
		t.Errorf("LineText(1) = %q, want %q", got, "second")
	}
	if got := b.LineText(99); got != "" {
		t.Errorf("LineText(99) = %q, want empty", got)
	}
}

func TestLineOffsets(t *testing.T) {
	b := NewBufferFromString("ab\ncde\nf")

	tests := []struct {
		line      uint32
		wantStart ByteOffset
		wantEnd   ByteOffset
	}{
		{0, 0, 2},
		{1, 3, 6},
		{2, 7, 8},
	}

	for _, tt := range tests {
		if got := b.LineStartOffset(tt.line); got != tt.wantStart {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.wantStart)
		}
		if got := b.LineEndOffset(tt.line); got != tt.wantEnd {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.wantEnd)
		}
	}
}

func TestOffsetPointRoundTrip(t *testing.T) {
	b := NewBufferFromString("ab\ncde\nf")

	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{7, Point{2, 0}},
		{8, Point{2, 1}},
	}

	for _, tt := range tests {
		got := b.OffsetToPoint(tt.offset)
		if got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
		back := b.PointToOffset(got)
		if back != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", got, back, tt.offset)
		}
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		offset ByteOffset
		text   string
		want   string
	}{
		{"middle of line", "hello", 2, "XX", "heXXllo"},
		{"at start", "ab", 0, "z", "zab"},
		{"at end", "ab", 2, "c", "abc"},
		{"multi line", "ab", 1, "x\ny", "ax\nyb"},
		{"newline only", "ab", 1, "\n", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.start)
			end, err := b.Insert(tt.offset, tt.text)
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if want := tt.offset + ByteOffset(len(tt.text)); end != want {
				t.Errorf("Insert() end = %d, want %d", end, want)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("ab")
	if _, err := b.Insert(10, "x"); err != ErrOffsetOutOfRange {
		t.Errorf("Insert(10) error = %v, want ErrOffsetOutOfRange", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		from, to   ByteOffset
		want       string
		wantFailed bool
	}{
		{"within line", "hello", 1, 3, "hlo", false},
		{"across newline", "ab\ncd", 1, 4, "ad", false},
		{"whole text", "ab", 0, 2, "", false},
		{"reversed range", "ab", 2, 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.start)
			err := b.Delete(tt.from, tt.to)
			if tt.wantFailed {
				if err == nil {
					t.Fatal("Delete() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	b := NewBufferFromString("  stmt;")
	if _, err := b.Replace(0, 2, "    "); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got := b.Text(); got != "    stmt;" {
		t.Errorf("Text() = %q, want %q", got, "    stmt;")
	}
}

func TestInsertDeleteLine(t *testing.T) {
	b := NewBufferFromString("a\nc")

	if err := b.InsertLine(1, "b"); err != nil {
		t.Fatalf("InsertLine() error = %v", err)
	}
	if got := b.Text(); got != "a\nb\nc" {
		t.Errorf("after InsertLine: Text() = %q, want %q", got, "a\nb\nc")
	}

	if err := b.DeleteLine(1); err != nil {
		t.Fatalf("DeleteLine() error = %v", err)
	}
	if got := b.Text(); got != "a\nc" {
		t.Errorf("after DeleteLine: Text() = %q, want %q", got, "a\nc")
	}
}

func TestDeleteOnlyLine(t *testing.T) {
	b := NewBufferFromString("solo")
	if err := b.DeleteLine(0); err != nil {
		t.Fatalf("DeleteLine() error = %v", err)
	}
	if !b.IsEmpty() {
		t.Error("buffer should be empty after deleting the only line")
	}
}

func TestSetLineText(t *testing.T) {
	b := NewBufferFromString("a\nb")
	if err := b.SetLineText(1, "  b"); err != nil {
		t.Fatalf("SetLineText() error = %v", err)
	}
	if got := b.LineText(1); got != "  b" {
		t.Errorf("LineText(1) = %q, want %q", got, "  b")
	}
	if err := b.SetLineText(0, "x\ny"); err == nil {
		t.Error("SetLineText with newline should fail")
	}
}

func TestRevisionAndObserver(t *testing.T) {
	b := NewBufferFromString("a\nb\nc")
	rev := b.Revision()

	var notified []uint32
	b.AddEditObserver(func(fromLine uint32) {
		notified = append(notified, fromLine)
	})

	if _, err := b.Insert(b.LineStartOffset(1), "x"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if b.Revision() == rev {
		t.Error("Revision should change after edit")
	}
	if len(notified) != 1 || notified[0] != 1 {
		t.Errorf("observer notified with %v, want [1]", notified)
	}
}

package tui

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/embedit/internal/engine/buffer"
	"github.com/dshills/embedit/internal/idle"
	"github.com/dshills/embedit/internal/indent"
	"github.com/dshills/embedit/internal/logging"
	"github.com/dshills/embedit/internal/mode"
	"github.com/dshills/embedit/internal/session"
)

// ErrNoBuffer is returned when the editor is created without a buffer.
var ErrNoBuffer = errors.New("editor requires a buffer")

// idleEvent is posted into the tcell event queue when the debouncer fires,
// so mode synchronization runs on the event-loop goroutine.
type idleEvent struct {
	when time.Time
}

func (e *idleEvent) When() time.Time { return e.when }

// Options configures an Editor.
type Options struct {
	// Screen is the tcell screen to use. Nil creates a terminal screen.
	Screen tcell.Screen

	// Path is the file being edited, shown in the status line and used as
	// the session key.
	Path string

	Buffer      *buffer.Buffer
	Dispatcher  *mode.Dispatcher
	Coordinator *indent.Coordinator

	// IdleDelay is the debounce quiet period. Non-positive uses the
	// package default.
	IdleDelay time.Duration

	// Sessions persists cursor and mode between runs. May be nil.
	Sessions *session.Store

	// Logger receives editor diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Editor is the interactive terminal editor. All buffer access happens on
// the event-loop goroutine; the debouncer's timer only posts an event.
type Editor struct {
	screen      tcell.Screen
	path        string
	buf         *buffer.Buffer
	dispatcher  *mode.Dispatcher
	coordinator *indent.Coordinator
	debouncer   *idle.Debouncer
	sessions    *session.Store
	log         *logging.Logger

	cursor   buffer.Point
	top      uint32 // first visible line
	modified bool
	quit     bool
}

// New creates an editor. The screen is not initialized until Run.
func New(opts Options) (*Editor, error) {
	if opts.Buffer == nil {
		return nil, ErrNoBuffer
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("creating screen: %w", err)
		}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Null
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore("")
	}

	e := &Editor{
		screen:      screen,
		path:        opts.Path,
		buf:         opts.Buffer,
		dispatcher:  opts.Dispatcher,
		coordinator: opts.Coordinator,
		sessions:    sessions,
		log:         log.WithComponent("tui"),
	}
	e.debouncer = idle.NewDebouncer(opts.IdleDelay, func() {
		// Timer goroutine: hand off to the event loop.
		_ = e.screen.PostEvent(&idleEvent{when: time.Now()})
	})
	return e, nil
}

// Run initializes the screen and processes events until quit.
func (e *Editor) Run() error {
	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer e.screen.Fini()

	e.restoreSession()

	if e.dispatcher != nil {
		if err := e.dispatcher.Init(e.cursorOffset()); err != nil {
			return err
		}
	}

	for !e.quit {
		e.render()
		e.handleEvent(e.screen.PollEvent())
	}

	e.debouncer.Cancel()
	e.saveSession()
	return nil
}

func (e *Editor) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *idleEvent:
		e.syncModes()
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventKey:
		e.handleKey(ev)
	}
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.quit = true
	case tcell.KeyCtrlS:
		if err := e.save(); err != nil {
			e.log.Error("save failed: %v", err)
		}
	case tcell.KeyUp:
		e.moveVertical(-1)
	case tcell.KeyDown:
		e.moveVertical(1)
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyHome:
		e.cursor.Column = 0
		e.noteActivity()
	case tcell.KeyEnd:
		e.cursor.Column = uint32(e.buf.LineLen(e.cursor.Line))
		e.noteActivity()
	case tcell.KeyPgUp:
		_, h := e.screen.Size()
		for i := 0; i < h-1; i++ {
			e.moveVertical(-1)
		}
	case tcell.KeyPgDn:
		_, h := e.screen.Size()
		for i := 0; i < h-1; i++ {
			e.moveVertical(1)
		}
	case tcell.KeyTab:
		e.indentCurrentLine()
	case tcell.KeyEnter:
		e.insertText("\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.deleteBackward()
	case tcell.KeyRune:
		e.insertText(string(ev.Rune()))
	}
}

// insertText inserts at the cursor and moves the cursor past the insertion.
func (e *Editor) insertText(s string) {
	off := e.buf.PointToOffset(e.cursor)
	end, err := e.buf.Insert(off, s)
	if err != nil {
		e.log.Error("insert at %d: %v", off, err)
		return
	}
	e.cursor = e.buf.OffsetToPoint(end)
	e.modified = true
	e.noteActivity()
}

// deleteBackward removes the rune before the cursor, joining lines at
// column zero.
func (e *Editor) deleteBackward() {
	if e.cursor.Line == 0 && e.cursor.Column == 0 {
		return
	}
	off := e.buf.PointToOffset(e.cursor)

	var start buffer.ByteOffset
	if e.cursor.Column > 0 {
		line := e.buf.LineText(e.cursor.Line)
		_, size := utf8.DecodeLastRuneInString(line[:e.cursor.Column])
		start = off - buffer.ByteOffset(size)
	} else {
		start = off - 1 // the newline
	}

	if err := e.buf.Delete(start, off); err != nil {
		e.log.Error("delete [%d,%d): %v", start, off, err)
		return
	}
	e.cursor = e.buf.OffsetToPoint(start)
	e.modified = true
	e.noteActivity()
}

// indentCurrentLine reindents the cursor line for its sub-language.
func (e *Editor) indentCurrentLine() {
	if e.coordinator == nil {
		return
	}
	if err := e.coordinator.IndentLine(e.cursor.Line); err != nil {
		e.log.Warn("indent line %d: %v", e.cursor.Line, err)
		return
	}
	e.clampColumn()
	e.modified = true
	e.noteActivity()
}

func (e *Editor) moveVertical(delta int) {
	line := int(e.cursor.Line) + delta
	if line < 0 {
		line = 0
	}
	if max := int(e.buf.LineCount()) - 1; line > max {
		line = max
	}
	e.cursor.Line = uint32(line)
	e.clampColumn()
	e.noteActivity()
}

func (e *Editor) moveLeft() {
	if e.cursor.Column > 0 {
		line := e.buf.LineText(e.cursor.Line)
		_, size := utf8.DecodeLastRuneInString(line[:e.cursor.Column])
		e.cursor.Column -= uint32(size)
	} else if e.cursor.Line > 0 {
		e.cursor.Line--
		e.cursor.Column = uint32(e.buf.LineLen(e.cursor.Line))
	}
	e.noteActivity()
}

func (e *Editor) moveRight() {
	line := e.buf.LineText(e.cursor.Line)
	if int(e.cursor.Column) < len(line) {
		_, size := utf8.DecodeRuneInString(line[e.cursor.Column:])
		e.cursor.Column += uint32(size)
	} else if e.cursor.Line+1 < e.buf.LineCount() {
		e.cursor.Line++
		e.cursor.Column = 0
	}
	e.noteActivity()
}

func (e *Editor) clampColumn() {
	if max := uint32(e.buf.LineLen(e.cursor.Line)); e.cursor.Column > max {
		e.cursor.Column = max
	}
}

// noteActivity marks the dispatcher pending and arms the idle timer.
// Called on every edit and cursor movement.
func (e *Editor) noteActivity() {
	if e.dispatcher != nil {
		e.dispatcher.MarkPending()
	}
	e.debouncer.Call()
}

// syncModes runs the deferred classification at the current cursor.
func (e *Editor) syncModes() {
	if e.dispatcher == nil {
		return
	}
	switched, err := e.dispatcher.Sync(e.cursorOffset())
	if err != nil {
		// The next idle event retries; stale mode is tolerated.
		e.log.Warn("mode sync: %v", err)
		return
	}
	if switched {
		e.log.Debug("mode switched to %s", e.dispatcher.Active())
	}
}

func (e *Editor) cursorOffset() buffer.ByteOffset {
	return e.buf.PointToOffset(e.cursor)
}

func (e *Editor) save() error {
	if e.path == "" {
		return errors.New("no file path")
	}
	if err := os.WriteFile(e.path, []byte(e.buf.Text()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", e.path, err)
	}
	e.modified = false
	e.saveSession()
	e.log.Info("saved %s", e.path)
	return nil
}

func (e *Editor) restoreSession() {
	st, ok, err := e.sessions.Get(e.path)
	if err != nil {
		e.log.Warn("session restore: %v", err)
		return
	}
	if !ok {
		return
	}
	e.cursor = buffer.Point{Line: st.Line, Column: st.Column}
	if e.cursor.Line >= e.buf.LineCount() {
		e.cursor.Line = e.buf.LineCount() - 1
	}
	e.clampColumn()
}

func (e *Editor) saveSession() {
	var modeName string
	if e.dispatcher != nil {
		modeName = e.dispatcher.Active().String()
	}
	err := e.sessions.Put(e.path, session.State{
		Line:   e.cursor.Line,
		Column: e.cursor.Column,
		Mode:   modeName,
	})
	if err != nil {
		e.log.Warn("session save: %v", err)
	}
}

// Rendering

func (e *Editor) render() {
	width, height := e.screen.Size()
	if width == 0 || height == 0 {
		return
	}
	textRows := height - 1 // last row is the status line

	e.scrollIntoView(uint32(textRows))
	e.screen.Clear()

	table := e.activeTable()
	for row := 0; row < textRows; row++ {
		line := e.top + uint32(row)
		if line >= e.buf.LineCount() {
			break
		}
		e.renderLine(row, e.buf.LineText(line), table, width)
	}

	e.renderStatus(width, height-1)
	e.screen.ShowCursor(e.visualColumn(e.cursor.Line, int(e.cursor.Column)), int(e.cursor.Line-e.top))
	e.screen.Show()
}

func (e *Editor) activeTable() tokenTable {
	if e.dispatcher == nil {
		return nil
	}
	if m := e.dispatcher.ActiveMode(); m != nil && m.Keywords != nil {
		return m.Keywords
	}
	return nil
}

// renderLine draws one buffer line with token styling, expanding tabs.
func (e *Editor) renderLine(row int, text string, table tokenTable, width int) {
	styles := lineStyles(text, table)
	tabWidth := e.buf.TabWidth()

	x := 0
	for i, r := range text {
		if x >= width {
			break
		}
		if r == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		e.screen.SetContent(x, row, r, nil, styles[i])
		x += runewidth.RuneWidth(r)
	}
}

func (e *Editor) renderStatus(width, row int) {
	left := e.path
	if left == "" {
		left = "[no file]"
	}
	if e.modified {
		left += " *"
	}

	right := fmt.Sprintf("Ln %d, Col %d", e.cursor.Line+1, e.cursor.Column+1)
	if e.dispatcher != nil {
		if m := e.dispatcher.ActiveMode(); m != nil {
			right = m.DisplayName + "  " + right
		}
	}

	line := left
	pad := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if pad > 0 {
		for i := 0; i < pad; i++ {
			line += " "
		}
		line += right
	}

	x := 0
	for _, r := range line {
		if x >= width {
			break
		}
		e.screen.SetContent(x, row, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		e.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
}

// scrollIntoView adjusts the top line so the cursor is visible.
func (e *Editor) scrollIntoView(textRows uint32) {
	if textRows == 0 {
		return
	}
	if e.cursor.Line < e.top {
		e.top = e.cursor.Line
	}
	if e.cursor.Line >= e.top+textRows {
		e.top = e.cursor.Line - textRows + 1
	}
}

// visualColumn converts a byte column to a screen column, expanding tabs
// and wide runes.
func (e *Editor) visualColumn(line uint32, byteCol int) int {
	text := e.buf.LineText(line)
	if byteCol > len(text) {
		byteCol = len(text)
	}
	tabWidth := e.buf.TabWidth()

	x := 0
	for i, r := range text {
		if i >= byteCol {
			break
		}
		if r == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		x += runewidth.RuneWidth(r)
	}
	return x
}

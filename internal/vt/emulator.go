// Package vt implements the terminal-state model behind an attached
// pane: a streaming parser that folds PTY output into a cell grid with
// cursor, attribute, mode, and scrollback state. The rest of the
// program only reads it through the query methods below.
package vt

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"
	"github.com/mattn/go-runewidth"
)

// Emulator is a virtual terminal fed by Write and queried by the
// renderer and the event loop.
type Emulator struct {
	scrs [2]*screen
	scr  *screen
	alt  bool

	parser *ansi.Parser

	scrollback *Scrollback

	// DEC private modes the event loop cares about.
	appCursor      bool
	cursorHidden   bool
	bracketedPaste bool
	mouseTracking  bool
	mouseSGR       bool

	title string

	// Last printed glyph, for REP.
	lastRune  rune
	lastWidth int
}

// New creates an emulator with the given grid size and the default
// scrollback capacity.
func New(w, h int) *Emulator {
	return NewWithScrollback(w, h, DefaultScrollbackLines)
}

// NewWithScrollback creates an emulator with an explicit scrollback
// line capacity.
func NewWithScrollback(w, h, scrollbackLines int) *Emulator {
	e := &Emulator{
		scrs:       [2]*screen{newScreen(w, h), newScreen(w, h)},
		scrollback: NewScrollback(scrollbackLines),
	}
	e.scr = e.scrs[0]
	e.scrs[0].onScrollOut = e.scrollback.Push

	e.parser = ansi.NewParser()
	e.parser.SetParamsSize(parser.MaxParamsSize)
	e.parser.SetDataSize(64 * 1024)
	e.parser.SetHandler(ansi.Handler{
		Print:     e.handlePrint,
		Execute:   e.handleControl,
		HandleCsi: e.handleCsi,
		HandleEsc: e.handleEsc,
		HandleOsc: e.handleOsc,
	})
	return e
}

// Write feeds PTY output into the parser. It never fails; malformed
// sequences are consumed and dropped.
func (e *Emulator) Write(p []byte) (int, error) {
	for i := range p {
		e.parser.Advance(p[i])
	}
	return len(p), nil
}

// Resize changes the grid dimensions of both screens, clamping the
// cursor and scrolling excess rows into scrollback when the height
// shrinks.
func (e *Emulator) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	e.scrs[0].resize(w, h)
	e.scrs[1].resize(w, h)
}

// Width returns the grid width.
func (e *Emulator) Width() int { return e.scr.w }

// Height returns the grid height.
func (e *Emulator) Height() int { return e.scr.h }

// CellAt returns the cell at the given position on the active screen.
// Out-of-range positions return a blank default cell.
func (e *Emulator) CellAt(x, y int) Cell { return e.scr.cellAt(x, y) }

// CursorPosition returns the active screen cursor as (col, row).
func (e *Emulator) CursorPosition() (x, y int) { return e.scr.curX, e.scr.curY }

// CursorHidden reports whether the child hid the cursor (DECTCEM).
func (e *Emulator) CursorHidden() bool { return e.cursorHidden }

// AppCursorKeys reports DECCKM, which selects the arrow-key prefix.
func (e *Emulator) AppCursorKeys() bool { return e.appCursor }

// AltScreen reports whether the alternate screen buffer is active.
func (e *Emulator) AltScreen() bool { return e.alt }

// BracketedPaste reports whether the child enabled paste bracketing.
func (e *Emulator) BracketedPaste() bool { return e.bracketedPaste }

// MouseTracking reports whether the child enabled any mouse report
// mode.
func (e *Emulator) MouseTracking() bool { return e.mouseTracking }

// Title returns the window title last set via OSC 0/2.
func (e *Emulator) Title() string { return e.title }

// ScrollbackLen returns the number of retained scrolled-off lines.
func (e *Emulator) ScrollbackLen() int { return e.scrollback.Len() }

// ScrollbackLine returns a retained line; index 0 is the oldest.
func (e *Emulator) ScrollbackLine(i int) Line { return e.scrollback.Line(i) }

// ClearScrollback drops all retained lines.
func (e *Emulator) ClearScrollback() { e.scrollback.Clear() }

// ScreenText returns the active screen contents as right-trimmed plain
// text rows, used for the archival snapshot taken at detach.
func (e *Emulator) ScreenText() []string {
	rows := make([]string, e.scr.h)
	var b strings.Builder
	for y := 0; y < e.scr.h; y++ {
		b.Reset()
		for x := 0; x < e.scr.w; x++ {
			c := e.scr.cellAt(x, y)
			if c.Continuation() {
				continue
			}
			if c.Rune == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(c.Rune)
			}
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

func (e *Emulator) handlePrint(r rune) {
	w := runewidth.RuneWidth(r)
	e.scr.put(r, w)
	e.lastRune, e.lastWidth = r, w
}

func (e *Emulator) handleControl(b byte) {
	s := e.scr
	switch b {
	case ansi.BS:
		if s.curX > 0 {
			s.curX--
		}
		s.atPhantom = false
	case ansi.HT:
		next := (s.curX/8 + 1) * 8
		s.curX = clamp(next, 0, s.w-1)
	case ansi.LF, ansi.VT, ansi.FF:
		s.lineFeed()
	case ansi.CR:
		s.curX = 0
		s.atPhantom = false
	}
}

func (e *Emulator) setAltScreen(on, saveCursor, clear bool) {
	if on == e.alt {
		return
	}
	if on {
		if saveCursor {
			e.scr.savedX, e.scr.savedY = e.scr.curX, e.scr.curY
			e.scr.savedPen = e.scr.pen
		}
		e.alt = true
		e.scr = e.scrs[1]
		if clear {
			e.scr.pen = Style{}
			e.scr.eraseScreen(2)
			e.scr.setCursor(0, 0)
		}
	} else {
		e.alt = false
		e.scr = e.scrs[0]
		if saveCursor {
			e.scr.curX, e.scr.curY = e.scr.savedX, e.scr.savedY
			e.scr.pen = e.scr.savedPen
		}
	}
}

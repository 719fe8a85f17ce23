// Package render turns terminal-state into the minimal byte stream
// that brings the physical terminal up to date: differential cell
// diffing, run-length SGR compression, history painting, scrollbar and
// selection overlays.
package render

import (
	"bytes"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// Source is the read side of a terminal-state model. The emulator
// satisfies it directly; UnifiedView satisfies it for scrolled views.
// The indirection keeps the renderer testable against fixed grids.
type Source interface {
	Width() int
	Height() int
	CellAt(x, y int) vt.Cell
}

// Geometry places a pane's content area on the physical screen.
// X and Y are zero-based screen coordinates of the top-left cell.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Snapshot is an immutable copy of a source's grid taken after a
// successful render. A nil snapshot forces the next render of that
// pane to repaint every row.
type Snapshot struct {
	W, H  int
	Cells []vt.Cell
}

// TakeSnapshot copies the source's current grid.
func TakeSnapshot(src Source) *Snapshot {
	w, h := src.Width(), src.Height()
	s := &Snapshot{W: w, H: h, Cells: make([]vt.Cell, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.Cells[y*w+x] = src.CellAt(x, y)
		}
	}
	return s
}

func (s *Snapshot) at(x, y int) vt.Cell { return s.Cells[y*s.W+x] }

// cellOrPad reads a source cell, substituting default-style blanks
// beyond the model's bounds so the viewport is always fully defined.
func cellOrPad(src Source, x, y, srcW, srcH int) vt.Cell {
	if x < srcW && y < srcH {
		return src.CellAt(x, y)
	}
	return vt.Cell{Rune: ' ', Width: 1}
}

// rowEqual reports whether a source row matches the snapshot row,
// comparing glyph and every style channel.
func rowEqual(src Source, prev *Snapshot, y, w, srcW, srcH int) bool {
	for x := 0; x < w; x++ {
		if cellOrPad(src, x, y, srcW, srcH) != prev.at(x, y) {
			return false
		}
	}
	return true
}

// Pane writes the byte stream that syncs the pane's screen region with
// the source, diffing against prev when it exists and matches the
// viewport. Rows identical to the previous frame emit nothing. Returns
// the snapshot for the next frame.
func Pane(fb *bytes.Buffer, src Source, prev *Snapshot, geo Geometry) *Snapshot {
	srcW, srcH := src.Width(), src.Height()
	diffable := prev != nil && prev.W == geo.Width && prev.H == geo.Height
	start := fb.Len()

	for y := 0; y < geo.Height; y++ {
		if diffable && rowEqual(src, prev, y, geo.Width, srcW, srcH) {
			continue
		}

		cup(fb, geo.Y+y+1, geo.X+1)
		havePrev := false
		var prevStyle style

		for x := 0; x < geo.Width; x++ {
			c := cellOrPad(src, x, y, srcW, srcH)

			if c.Continuation() {
				// The wide glyph to the left already advanced the
				// hardware cursor past this column.
				continue
			}

			st := resolve(c.Style)
			if !havePrev || st != prevStyle {
				writeSgr(fb, st)
				prevStyle = st
				havePrev = true
			}

			switch {
			case c.Rune == 0 || c.Width == 0:
				fb.WriteByte(' ')
			default:
				fb.WriteRune(c.Rune)
			}
		}
	}

	if fb.Len() > start {
		fb.WriteString("\x1b[0m")
	}

	snap := &Snapshot{W: geo.Width, H: geo.Height, Cells: make([]vt.Cell, geo.Width*geo.Height)}
	for y := 0; y < geo.Height; y++ {
		for x := 0; x < geo.Width; x++ {
			snap.Cells[y*geo.Width+x] = cellOrPad(src, x, y, srcW, srcH)
		}
	}
	return snap
}

// Cursor places and shows the hardware cursor for the active pane.
// Callers only invoke it when the pane is live-tailed (offset 0) and
// the model reports the cursor visible.
func Cursor(fb *bytes.Buffer, em *vt.Emulator, geo Geometry) {
	x, y := em.CursorPosition()
	if x >= geo.Width {
		x = geo.Width - 1
	}
	if y >= geo.Height {
		y = geo.Height - 1
	}
	cup(fb, geo.Y+y+1, geo.X+x+1)
	fb.WriteString("\x1b[?25h")
}

package render

import (
	"bytes"
	"strings"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// selectionBG highlights selected cells; inverse is stripped so the
// highlight reads uniformly.
var selectionBG = vt.RGB(60, 70, 100)

// Selection is a drag region in pane-local viewport coordinates.
// Start is where the press happened; End tracks the drag.
type Selection struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Normalized returns the selection with start before end in row-major
// order.
func (s Selection) Normalized() Selection {
	if s.StartRow > s.EndRow || (s.StartRow == s.EndRow && s.StartCol > s.EndCol) {
		return Selection{
			StartRow: s.EndRow, StartCol: s.EndCol,
			EndRow: s.StartRow, EndCol: s.StartCol,
		}
	}
	return s
}

// Empty reports whether the selection covers no cells.
func (s Selection) Empty() bool {
	return s.StartRow == s.EndRow && s.StartCol == s.EndCol
}

// bounds returns the selected column range for one row of the
// normalized selection.
func (s Selection) bounds(row, width int) (from, to int) {
	from, to = 0, width-1
	if row == s.StartRow {
		from = s.StartCol
	}
	if row == s.EndRow {
		to = s.EndCol
	}
	return from, to
}

// Overlay repaints the selected cells with the selection background.
// It runs after the pane render, so it only touches the covered cells.
func Overlay(fb *bytes.Buffer, src Source, sel Selection, geo Geometry) {
	n := sel.Normalized()
	srcW, srcH := src.Width(), src.Height()

	for row := n.StartRow; row <= n.EndRow && row < geo.Height; row++ {
		if row < 0 {
			continue
		}
		from, to := n.bounds(row, geo.Width)
		if from < 0 {
			from = 0
		}
		if to >= geo.Width {
			to = geo.Width - 1
		}
		if from > to {
			continue
		}

		cup(fb, geo.Y+row+1, geo.X+from+1)
		havePrev := false
		var prevStyle style
		for x := from; x <= to; x++ {
			c := cellOrPad(src, x, row, srcW, srcH)
			if c.Continuation() {
				continue
			}

			cs := c.Style
			cs.Inverse = false
			cs.BG = selectionBG
			st := resolve(cs)
			if !havePrev || st != prevStyle {
				writeSgr(fb, st)
				prevStyle = st
				havePrev = true
			}
			if c.Rune == 0 || c.Width == 0 {
				fb.WriteByte(' ')
			} else {
				fb.WriteRune(c.Rune)
			}
		}
	}
	fb.WriteString("\x1b[0m")
}

// ExtractText reads the selected cells as plain text: per-row glyphs
// with trailing whitespace trimmed, rows joined by newlines. The first
// row starts at the selection's start column and the last row stops at
// its end column.
func ExtractText(src Source, sel Selection) string {
	n := sel.Normalized()
	srcW, srcH := src.Width(), src.Height()

	var rows []string
	var b strings.Builder
	for row := n.StartRow; row <= n.EndRow; row++ {
		if row < 0 || row >= srcH {
			continue
		}
		from, to := n.bounds(row, srcW)
		if from < 0 {
			from = 0
		}
		if to >= srcW {
			to = srcW - 1
		}

		b.Reset()
		for x := from; x <= to; x++ {
			c := src.CellAt(x, row)
			if c.Continuation() {
				continue
			}
			if c.Rune == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(c.Rune)
			}
		}
		rows = append(rows, strings.TrimRight(b.String(), " \t"))
	}
	return strings.Join(rows, "\n")
}

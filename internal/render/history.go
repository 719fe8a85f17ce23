package render

import (
	"bytes"

	"github.com/mattn/go-runewidth"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// History paints plain-text dump lines into the pane region, one
// default style for the whole block. Used only when the scroll offset
// has run past the emulator's own scrollback; the caller discards the
// pane snapshot since this path is not diffable.
func History(fb *bytes.Buffer, lines []string, top int, geo Geometry) {
	st := resolve(vt.Style{})
	for y := 0; y < geo.Height; y++ {
		cup(fb, geo.Y+y+1, geo.X+1)
		writeSgr(fb, st)

		var line string
		if idx := top + y; idx >= 0 && idx < len(lines) {
			line = lines[idx]
		}
		line = runewidth.Truncate(line, geo.Width, "")
		fb.WriteString(line)
		for i := runewidth.StringWidth(line); i < geo.Width; i++ {
			fb.WriteByte(' ')
		}
	}
	fb.WriteString("\x1b[0m")
}

// HistoryView presents the same dump window History paints as a
// Source, so the selection overlay and text extraction read exactly
// what is on screen when the offset runs past the internal scrollback.
type HistoryView struct {
	lines []string
	top   int
	w, h  int
}

// NewHistoryView creates a read view over the dump lines starting at
// top, sized to the pane viewport.
func NewHistoryView(lines []string, top, w, h int) *HistoryView {
	return &HistoryView{lines: lines, top: top, w: w, h: h}
}

// Width returns the viewport width.
func (v *HistoryView) Width() int { return v.w }

// Height returns the viewport height.
func (v *HistoryView) Height() int { return v.h }

// CellAt maps a viewport cell to the dump text, walking the line by
// display width so wide glyphs occupy two columns like the painter
// renders them.
func (v *HistoryView) CellAt(x, y int) vt.Cell {
	blank := vt.Cell{Rune: ' ', Width: 1}
	idx := v.top + y
	if idx < 0 || idx >= len(v.lines) {
		return blank
	}
	col := 0
	for _, r := range v.lines[idx] {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col == x {
			return vt.Cell{Rune: r, Width: uint8(w)}
		}
		if w == 2 && col+1 == x {
			return vt.Cell{}
		}
		col += w
		if col > x {
			break
		}
	}
	return blank
}

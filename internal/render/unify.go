package render

import "github.com/Gaurav-Gosain/scrn/internal/vt"

// The scrollback unifier merges the emulator's own retained lines with
// the one-time historical dump captured at attach into a single offset
// space. Offset 0 is the live tail; offsets up to the emulator's
// internal depth read through UnifiedView; larger offsets page through
// the plain-text dump via HistoryTop.

// TotalLines is the upper bound of the offset space for one pane.
func TotalLines(em *vt.Emulator, histLen int) int {
	return em.ScrollbackLen() + histLen
}

// ClampOffset bounds an offset to the current total. Totals can shrink
// between frames (a resize changes internal depth), so this runs every
// frame.
func ClampOffset(offset int, em *vt.Emulator, histLen int) int {
	if offset < 0 {
		return 0
	}
	if t := TotalLines(em, histLen); offset > t {
		return t
	}
	return offset
}

// HistoryTop converts an offset beyond the internal depth into the
// index of the first visible dump line, clamped to zero when the
// request runs past the oldest line.
func HistoryTop(offset int, em *vt.Emulator, histLen int) int {
	extra := offset - em.ScrollbackLen()
	top := histLen - extra
	if top < 0 {
		top = 0
	}
	return top
}

// SourceAt returns the read view the renderer shows for the offset:
// the unified emulator view while the offset stays within the internal
// depth, the dump window beyond it. Selection extraction and overlays
// go through this so they always match the painted frame.
func SourceAt(em *vt.Emulator, hist []string, offset int) Source {
	if offset > em.ScrollbackLen() {
		top := HistoryTop(offset, em, len(hist))
		return NewHistoryView(hist, top, em.Width(), em.Height())
	}
	return View(em, offset)
}

// UnifiedView presents the emulator scrolled back by offset lines as a
// plain Source: the top offset rows come from the tail of the internal
// scrollback, the rest from the live grid shifted down. The caller
// must keep offset within the internal depth.
type UnifiedView struct {
	em     *vt.Emulator
	offset int
}

// View creates a scrolled read view over the emulator.
func View(em *vt.Emulator, offset int) *UnifiedView {
	if offset < 0 {
		offset = 0
	}
	if d := em.ScrollbackLen(); offset > d {
		offset = d
	}
	return &UnifiedView{em: em, offset: offset}
}

// Width returns the emulator grid width.
func (v *UnifiedView) Width() int { return v.em.Width() }

// Height returns the emulator grid height.
func (v *UnifiedView) Height() int { return v.em.Height() }

// CellAt maps viewport coordinates through the scroll offset.
func (v *UnifiedView) CellAt(x, y int) vt.Cell {
	if y < v.offset {
		line := v.em.ScrollbackLine(v.em.ScrollbackLen() - v.offset + y)
		if x < len(line) {
			return line[x]
		}
		return vt.Cell{Rune: ' ', Width: 1}
	}
	return v.em.CellAt(x, y-v.offset)
}

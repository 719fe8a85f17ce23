package render

import (
	"bytes"
	"strconv"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// Default colors used wherever a cell has no explicit color. Resolving
// defaults to fixed RGB values keeps panes visually identical no
// matter what theme the outer terminal uses.
var (
	DefaultFG = vt.RGB(220, 220, 230)
	DefaultBG = vt.RGB(18, 18, 24)
)

// style is a fully resolved cell appearance: no default colors left,
// inverse already applied by swapping.
type style struct {
	fg, bg                  vt.Color
	bold, italic, underline bool
}

// resolve flattens a cell style to concrete colors.
func resolve(s vt.Style) style {
	fg, bg := s.FG, s.BG
	if fg.Kind == vt.ColorDefault {
		fg = DefaultFG
	}
	if bg.Kind == vt.ColorDefault {
		bg = DefaultBG
	}
	if s.Inverse {
		fg, bg = bg, fg
	}
	return style{fg: fg, bg: bg, bold: s.Bold, italic: s.Italic, underline: s.Underline}
}

// writeSgr emits a full SGR reset-and-set for the style. Emitting the
// complete style each time a run changes keeps the state machine
// trivial; run-length compression upstream keeps it cheap.
func writeSgr(fb *bytes.Buffer, st style) {
	fb.WriteString("\x1b[0")
	if st.bold {
		fb.WriteString(";1")
	}
	if st.italic {
		fb.WriteString(";3")
	}
	if st.underline {
		fb.WriteString(";4")
	}
	writeColor(fb, st.fg, false)
	writeColor(fb, st.bg, true)
	fb.WriteByte('m')
}

// writeColor appends the color parameters for one ground. The leading
// ';' continues the open SGR sequence.
func writeColor(fb *bytes.Buffer, c vt.Color, background bool) {
	switch c.Kind {
	case vt.ColorIndexed:
		idx := int(c.Idx)
		switch {
		case idx < 8:
			base := 30
			if background {
				base = 40
			}
			fb.WriteByte(';')
			writeInt(fb, base+idx)
		case idx < 16:
			base := 90
			if background {
				base = 100
			}
			fb.WriteByte(';')
			writeInt(fb, base+idx-8)
		default:
			if background {
				fb.WriteString(";48;5;")
			} else {
				fb.WriteString(";38;5;")
			}
			writeInt(fb, idx)
		}
	default:
		if background {
			fb.WriteString(";48;2;")
		} else {
			fb.WriteString(";38;2;")
		}
		writeInt(fb, int(c.R))
		fb.WriteByte(';')
		writeInt(fb, int(c.G))
		fb.WriteByte(';')
		writeInt(fb, int(c.B))
	}
}

// cup emits a 1-based cursor-position escape.
func cup(fb *bytes.Buffer, row, col int) {
	fb.WriteString("\x1b[")
	writeInt(fb, row)
	fb.WriteByte(';')
	writeInt(fb, col)
	fb.WriteByte('H')
}

func writeInt(fb *bytes.Buffer, n int) {
	fb.Write(strconv.AppendInt(nil, int64(n), 10))
}

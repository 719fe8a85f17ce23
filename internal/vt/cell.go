package vt

// ColorKind discriminates the three ways a cell color can be specified.
type ColorKind uint8

const (
	// ColorDefault means the terminal default; the renderer resolves it to
	// an explicit RGB value so output is theme-independent.
	ColorDefault ColorKind = iota
	// ColorIndexed is a palette color in 0..255.
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a cell foreground or background color.
// The zero value is the default color.
type Color struct {
	Kind    ColorKind
	Idx     uint8
	R, G, B uint8
}

// Indexed returns a palette color.
func Indexed(i uint8) Color { return Color{Kind: ColorIndexed, Idx: i} }

// RGB returns a truecolor value.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// Style is the SGR attribute state of a cell.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Italic    bool
	Underline bool
	Inverse   bool
}

// Cell is one grid position.
//
// Width is 1 for ordinary glyphs and 2 for the leading cell of a wide
// glyph. A continuation cell (the column shadowed by a wide glyph) has
// Width 0 and Rune 0. A zero-width glyph that was printed on its own is
// stored with Width 0 and its rune preserved.
type Cell struct {
	Rune  rune
	Width uint8
	Style Style
}

// Continuation reports whether the cell is shadowed by a wide glyph to
// its left.
func (c Cell) Continuation() bool { return c.Width == 0 && c.Rune == 0 }

// blank returns an empty cell carrying the given style's background.
func blank(s Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: Style{FG: s.FG, BG: s.BG}}
}

// Line is one row of cells.
type Line []Cell

// clone returns a copy that does not alias the receiver.
func (l Line) clone() Line {
	c := make(Line, len(l))
	copy(c, l)
	return c
}

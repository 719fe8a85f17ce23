package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// grid is a fixed Source for renderer tests.
type grid struct {
	w, h  int
	cells map[[2]int]vt.Cell
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: map[[2]int]vt.Cell{}}
}

func (g *grid) Width() int  { return g.w }
func (g *grid) Height() int { return g.h }

func (g *grid) CellAt(x, y int) vt.Cell {
	if c, ok := g.cells[[2]int{x, y}]; ok {
		return c
	}
	return vt.Cell{Rune: ' ', Width: 1}
}

func (g *grid) setText(x, y int, s string) {
	for i, r := range s {
		g.cells[[2]int{x + i, y}] = vt.Cell{Rune: r, Width: 1}
	}
}

var cupRe = regexp.MustCompile(`\x1b\[[0-9]+;[0-9]+H`)

func TestDiffIdenticalFramesEmitNothing(t *testing.T) {
	g := newGrid(10, 4)
	g.setText(0, 0, "hello")
	geo := Geometry{Width: 10, Height: 4}

	var fb bytes.Buffer
	prev := Pane(&fb, g, nil, geo)
	require.NotEmpty(t, fb.Bytes())

	fb.Reset()
	Pane(&fb, g, prev, geo)
	assert.Empty(t, fb.Bytes())
}

func TestDiffSingleRowChange(t *testing.T) {
	g := newGrid(10, 4)
	g.setText(0, 0, "hello")
	geo := Geometry{Width: 10, Height: 4}

	var fb bytes.Buffer
	prev := Pane(&fb, g, nil, geo)

	g.setText(0, 2, "world")
	fb.Reset()
	Pane(&fb, g, prev, geo)

	cups := cupRe.FindAllString(fb.String(), -1)
	require.Len(t, cups, 1)
	assert.Equal(t, "\x1b[3;1H", cups[0])
	assert.Contains(t, fb.String(), "world")
}

func TestFullRedrawAddressesEveryRow(t *testing.T) {
	g := newGrid(5, 3)
	geo := Geometry{X: 2, Y: 1, Width: 5, Height: 3}

	var fb bytes.Buffer
	Pane(&fb, g, nil, geo)

	cups := cupRe.FindAllString(fb.String(), -1)
	assert.Equal(t, []string{"\x1b[2;3H", "\x1b[3;3H", "\x1b[4;3H"}, cups)
}

func TestDefaultColorsResolved(t *testing.T) {
	g := newGrid(2, 1)
	g.setText(0, 0, "x")

	var fb bytes.Buffer
	Pane(&fb, g, nil, Geometry{Width: 2, Height: 1})

	out := fb.String()
	assert.Contains(t, out, "38;2;220;220;230")
	assert.Contains(t, out, "48;2;18;18;24")
	assert.NotContains(t, out, "\x1b[39m")
}

func TestStyleRunCompression(t *testing.T) {
	g := newGrid(6, 1)
	red := vt.Style{FG: vt.Indexed(1)}
	for i := 0; i < 3; i++ {
		g.cells[[2]int{i, 0}] = vt.Cell{Rune: 'a', Width: 1, Style: red}
	}
	for i := 3; i < 6; i++ {
		g.cells[[2]int{i, 0}] = vt.Cell{Rune: 'b', Width: 1, Style: vt.Style{FG: vt.Indexed(2)}}
	}

	var fb bytes.Buffer
	Pane(&fb, g, nil, Geometry{Width: 6, Height: 1})

	// One SGR per run, not per cell.
	assert.Equal(t, 2, strings.Count(fb.String(), "\x1b[0;3"))
}

func TestWideGlyphContinuationSkipped(t *testing.T) {
	g := newGrid(4, 1)
	g.cells[[2]int{0, 0}] = vt.Cell{Rune: '日', Width: 2}
	g.cells[[2]int{1, 0}] = vt.Cell{} // continuation
	g.setText(2, 0, "ab")

	var fb bytes.Buffer
	Pane(&fb, g, nil, Geometry{Width: 4, Height: 1})

	// The glyph run is 日 then ab with no padding space between.
	assert.Contains(t, fb.String(), "日")
	assert.NotContains(t, fb.String(), "日 ")
}

func TestViewportPadding(t *testing.T) {
	g := newGrid(3, 1)
	g.setText(0, 0, "abc")

	var fb bytes.Buffer
	snap := Pane(&fb, g, nil, Geometry{Width: 6, Height: 2})

	assert.Equal(t, 6, snap.W)
	assert.Equal(t, 2, snap.H)
	// Padded cells diff clean on the next frame.
	fb.Reset()
	Pane(&fb, g, snap, Geometry{Width: 6, Height: 2})
	assert.Empty(t, fb.Bytes())
}

func TestSelectionNormalization(t *testing.T) {
	a := Selection{StartRow: 5, StartCol: 10, EndRow: 2, EndCol: 3}
	b := Selection{StartRow: 2, StartCol: 3, EndRow: 5, EndCol: 10}

	g := newGrid(20, 8)
	for y := 0; y < 8; y++ {
		g.setText(0, y, fmt.Sprintf("row%d text here", y))
	}

	assert.Equal(t, ExtractText(g, b), ExtractText(g, a))
	assert.False(t, a.Empty())
	assert.True(t, Selection{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 1}.Empty())
}

func TestSelectionExtractBounds(t *testing.T) {
	g := newGrid(10, 3)
	g.setText(0, 0, "aaaaaaaaaa")
	g.setText(0, 1, "bbbb")
	g.setText(0, 2, "cccccccccc")

	sel := Selection{StartRow: 0, StartCol: 4, EndRow: 2, EndCol: 2}
	got := ExtractText(g, sel)
	assert.Equal(t, "aaaaaa\nbbbb\nccc", got)
}

func TestSelectionSingleRow(t *testing.T) {
	g := newGrid(10, 1)
	g.setText(0, 0, "0123456789")
	got := ExtractText(g, Selection{StartRow: 0, StartCol: 2, EndRow: 0, EndCol: 5})
	assert.Equal(t, "2345", got)
}

func TestScrollbarLabel(t *testing.T) {
	var fb bytes.Buffer
	Scrollbar(&fb, Geometry{Width: 20, Height: 10}, 30, 120)

	out := fb.String()
	assert.Contains(t, out, "[30/120]")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "│")
}

func TestHistoryTruncatesAndPads(t *testing.T) {
	lines := []string{"short", strings.Repeat("x", 40)}

	var fb bytes.Buffer
	History(&fb, lines, 0, Geometry{Width: 10, Height: 3})

	out := fb.String()
	assert.Contains(t, out, "short     ")
	assert.Contains(t, out, strings.Repeat("x", 10))
	assert.NotContains(t, out, strings.Repeat("x", 11))
}

func feedLines(em *vt.Emulator, n int, prefix string) {
	for i := 0; i < n; i++ {
		_, _ = em.Write([]byte(fmt.Sprintf("%s%d\r\n", prefix, i)))
	}
}

func TestScrollbackContinuity(t *testing.T) {
	em := vt.NewWithScrollback(20, 5, 1000)
	// 204 lines through a 5-row grid leave 200 in internal scrollback.
	feedLines(em, 204, "live")
	require.Equal(t, 200, em.ScrollbackLen())

	hist := make([]string, 50)
	for i := range hist {
		hist[i] = fmt.Sprintf("hist%d", i)
	}

	total := TotalLines(em, len(hist))
	assert.Equal(t, 250, total)

	// Offset 250 pages back to the oldest dump line.
	off := ClampOffset(250, em, len(hist))
	require.Equal(t, 250, off)
	assert.Equal(t, 0, HistoryTop(off, em, len(hist)))

	// Offset 0 is the live tail.
	v := View(em, 0)
	c := v.CellAt(0, 0)
	assert.Equal(t, 'l', c.Rune)

	// Offset 1 shows the newest internal scrollback line on top.
	v = View(em, 1)
	top := v.CellAt(0, 0)
	sb := em.ScrollbackLine(em.ScrollbackLen() - 1)
	assert.Equal(t, sb[0].Rune, top.Rune)
}

func TestClampOffsetShrinkingTotal(t *testing.T) {
	em := vt.NewWithScrollback(10, 3, 100)
	feedLines(em, 10, "l")

	off := ClampOffset(9999, em, 5)
	assert.Equal(t, TotalLines(em, 5), off)
	assert.Equal(t, 0, ClampOffset(-3, em, 5))
}

func TestHistoryViewCells(t *testing.T) {
	hv := NewHistoryView([]string{"abc", "日x"}, 0, 6, 2)

	assert.Equal(t, 'a', hv.CellAt(0, 0).Rune)
	assert.Equal(t, 'c', hv.CellAt(2, 0).Rune)
	// Past the end of the line: padded blank.
	assert.Equal(t, ' ', hv.CellAt(4, 0).Rune)

	wide := hv.CellAt(0, 1)
	assert.Equal(t, '日', wide.Rune)
	assert.Equal(t, uint8(2), wide.Width)
	assert.True(t, hv.CellAt(1, 1).Continuation())
	assert.Equal(t, 'x', hv.CellAt(2, 1).Rune)

	// Rows outside the dump window are blank.
	assert.Equal(t, ' ', hv.CellAt(0, 5).Rune)
}

func TestSourceAtMatchesPaintedView(t *testing.T) {
	em := vt.NewWithScrollback(20, 5, 1000)
	feedLines(em, 12, "live")
	internal := em.ScrollbackLen()
	require.Greater(t, internal, 0)

	hist := make([]string, 50)
	for i := range hist {
		hist[i] = fmt.Sprintf("hist%d", i)
	}

	// Ten lines past the internal depth: the painter shows the dump
	// window starting at hist40, and extraction must read the same.
	off := internal + 10
	src := SourceAt(em, hist, off)
	row := Selection{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: em.Width() - 1}
	assert.Equal(t, "hist40", ExtractText(src, row))

	var fb bytes.Buffer
	geo := Geometry{X: 0, Y: 0, Width: em.Width(), Height: em.Height()}
	History(&fb, hist, HistoryTop(off, em, len(hist)), geo)
	assert.Contains(t, fb.String(), "hist40")

	// Within the internal depth SourceAt is the unified live view.
	src = SourceAt(em, hist, 0)
	assert.Equal(t, 'l', src.CellAt(0, 0).Rune)
}

package vt

// screen is one cell grid with its cursor and scroll region. The
// emulator keeps two, primary and alternate, and points at the active
// one.
type screen struct {
	w, h  int
	lines []Line

	curX, curY int
	pen        Style

	savedX, savedY int
	savedPen       Style

	// Scroll region, inclusive rows.
	top, bot int

	wrap      bool
	atPhantom bool

	// onScrollOut receives lines pushed off the top of the full-width
	// scroll region. Set only on the primary screen.
	onScrollOut func(Line)
}

func newScreen(w, h int) *screen {
	s := &screen{w: w, h: h, wrap: true}
	s.lines = make([]Line, h)
	for i := range s.lines {
		s.lines[i] = blankLine(w, Style{})
	}
	s.bot = h - 1
	return s
}

func blankLine(w int, pen Style) Line {
	l := make(Line, w)
	for i := range l {
		l[i] = blank(pen)
	}
	return l
}

func (s *screen) cellAt(x, y int) Cell {
	if x < 0 || y < 0 || y >= s.h || x >= s.w {
		return blank(Style{})
	}
	return s.lines[y][x]
}

func (s *screen) setCursor(x, y int) {
	s.curX = clamp(x, 0, s.w-1)
	s.curY = clamp(y, 0, s.h-1)
	s.atPhantom = false
}

// moveCursor moves relative to the current position, confined to the
// scroll region when the cursor is inside it.
func (s *screen) moveCursor(dx, dy int) {
	minY, maxY := 0, s.h-1
	if s.curY >= s.top && s.curY <= s.bot {
		minY, maxY = s.top, s.bot
	}
	s.curX = clamp(s.curX+dx, 0, s.w-1)
	s.curY = clamp(s.curY+dy, minY, maxY)
	s.atPhantom = false
}

// put writes a glyph at the cursor and advances it, wrapping when
// autowrap is on.
func (s *screen) put(r rune, width int) {
	if s.atPhantom {
		if s.wrap {
			s.curX = 0
			s.lineFeed()
		}
		s.atPhantom = false
	}

	if width == 2 && s.curX == s.w-1 {
		// Wide glyph at the right edge wraps before printing.
		if s.wrap {
			s.curX = 0
			s.lineFeed()
		} else {
			s.curX--
		}
	}

	w := uint8(1)
	if width == 2 {
		w = 2
	} else if width == 0 {
		w = 0
	}
	s.lines[s.curY][s.curX] = Cell{Rune: r, Width: w, Style: s.pen}
	if width == 2 && s.curX+1 < s.w {
		s.lines[s.curY][s.curX+1] = Cell{Style: s.pen}
	}

	adv := width
	if adv < 1 {
		adv = 1
	}
	if s.curX+adv >= s.w {
		s.curX = s.w - 1
		if s.wrap {
			s.atPhantom = true
		}
	} else {
		s.curX += adv
	}
}

// lineFeed moves down one row, scrolling the region when the cursor is
// on its last row.
func (s *screen) lineFeed() {
	if s.curY == s.bot {
		s.scrollUp(1)
	} else if s.curY < s.h-1 {
		s.curY++
	}
}

// reverseLineFeed moves up one row, scrolling down at the region top.
func (s *screen) reverseLineFeed() {
	if s.curY == s.top {
		s.scrollDown(1)
	} else if s.curY > 0 {
		s.curY--
	}
}

// scrollUp removes n lines from the top of the scroll region. Lines
// leaving a full-height region top feed the scrollback.
func (s *screen) scrollUp(n int) {
	if n <= 0 {
		return
	}
	if n > s.bot-s.top+1 {
		n = s.bot - s.top + 1
	}
	for i := 0; i < n; i++ {
		if s.top == 0 && s.onScrollOut != nil {
			s.onScrollOut(s.lines[s.top])
		}
		copy(s.lines[s.top:s.bot], s.lines[s.top+1:s.bot+1])
		s.lines[s.bot] = blankLine(s.w, s.pen)
	}
}

// scrollDown inserts n blank lines at the top of the scroll region.
func (s *screen) scrollDown(n int) {
	if n <= 0 {
		return
	}
	if n > s.bot-s.top+1 {
		n = s.bot - s.top + 1
	}
	for i := 0; i < n; i++ {
		copy(s.lines[s.top+1:s.bot+1], s.lines[s.top:s.bot])
		s.lines[s.top] = blankLine(s.w, s.pen)
	}
}

// insertLines implements IL at the cursor row, bounded by the region.
func (s *screen) insertLines(n int) {
	if s.curY < s.top || s.curY > s.bot {
		return
	}
	savedTop := s.top
	s.top = s.curY
	s.scrollDown(n)
	s.top = savedTop
}

// deleteLines implements DL at the cursor row, bounded by the region.
func (s *screen) deleteLines(n int) {
	if s.curY < s.top || s.curY > s.bot {
		return
	}
	savedTop := s.top
	savedOut := s.onScrollOut
	s.top = s.curY
	s.onScrollOut = nil
	s.scrollUp(n)
	s.top = savedTop
	s.onScrollOut = savedOut
}

// insertChars implements ICH: shift the rest of the row right.
func (s *screen) insertChars(n int) {
	line := s.lines[s.curY]
	if n > s.w-s.curX {
		n = s.w - s.curX
	}
	copy(line[s.curX+n:], line[s.curX:s.w-n])
	for i := s.curX; i < s.curX+n; i++ {
		line[i] = blank(s.pen)
	}
}

// deleteChars implements DCH: shift the rest of the row left.
func (s *screen) deleteChars(n int) {
	line := s.lines[s.curY]
	if n > s.w-s.curX {
		n = s.w - s.curX
	}
	copy(line[s.curX:], line[s.curX+n:])
	for i := s.w - n; i < s.w; i++ {
		line[i] = blank(s.pen)
	}
}

// eraseChars implements ECH: blank n cells from the cursor.
func (s *screen) eraseChars(n int) {
	for i := s.curX; i < s.curX+n && i < s.w; i++ {
		s.lines[s.curY][i] = blank(s.pen)
	}
}

// eraseLine implements EL modes 0..2.
func (s *screen) eraseLine(mode int) {
	from, to := 0, s.w
	switch mode {
	case 0:
		from = s.curX
	case 1:
		to = s.curX + 1
	}
	for i := from; i < to && i < s.w; i++ {
		s.lines[s.curY][i] = blank(s.pen)
	}
}

// eraseScreen implements ED modes 0..2.
func (s *screen) eraseScreen(mode int) {
	switch mode {
	case 0:
		s.eraseLine(0)
		for y := s.curY + 1; y < s.h; y++ {
			s.lines[y] = blankLine(s.w, s.pen)
		}
	case 1:
		s.eraseLine(1)
		for y := 0; y < s.curY; y++ {
			s.lines[y] = blankLine(s.w, s.pen)
		}
	case 2:
		for y := 0; y < s.h; y++ {
			s.lines[y] = blankLine(s.w, s.pen)
		}
	}
}

// repeatLast implements REP for the most recently printed glyph.
func (s *screen) repeatLast(r rune, width, n int) {
	if r == 0 {
		return
	}
	for i := 0; i < n; i++ {
		s.put(r, width)
	}
}

// setRegion implements DECSTBM. Out-of-order bounds reset to full
// height. The cursor homes afterwards.
func (s *screen) setRegion(top, bot int) {
	if top < 0 {
		top = 0
	}
	if bot >= s.h || bot <= 0 {
		bot = s.h - 1
	}
	if top >= bot {
		top, bot = 0, s.h-1
	}
	s.top, s.bot = top, bot
	s.setCursor(0, 0)
}

// resize grows or shrinks the grid in place, preserving content. When
// the height shrinks past the cursor the excess top lines scroll out so
// the cursor row stays visible.
func (s *screen) resize(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	if h < s.h && s.curY >= h {
		s.top, s.bot = 0, s.h-1
		s.scrollUp(s.curY - (h - 1))
		s.curY = h - 1
	}

	lines := make([]Line, h)
	for y := range lines {
		lines[y] = blankLine(w, Style{})
		if y < s.h {
			copy(lines[y], s.lines[y])
		}
	}
	s.lines = lines
	s.w, s.h = w, h
	s.top, s.bot = 0, h-1
	s.curX = clamp(s.curX, 0, w-1)
	s.curY = clamp(s.curY, 0, h-1)
	s.atPhantom = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

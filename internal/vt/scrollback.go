package vt

// DefaultScrollbackLines is the scrollback capacity used when the
// config does not override it.
const DefaultScrollbackLines = 10000

// Scrollback stores lines that scrolled off the top of the primary
// screen. It is a fixed-capacity ring so pushes stay O(1) and memory
// stays bounded under long-running output.
type Scrollback struct {
	lines []Line
	max   int
	head  int
	tail  int
	full  bool
}

// NewScrollback creates a scrollback holding at most maxLines lines.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	return &Scrollback{
		lines: make([]Line, maxLines),
		max:   maxLines,
	}
}

// Push appends a line, evicting the oldest when at capacity.
func (sb *Scrollback) Push(line Line) {
	if len(line) == 0 {
		return
	}
	sb.lines[sb.tail] = line.clone()
	sb.tail = (sb.tail + 1) % sb.max
	if sb.full {
		sb.head = (sb.head + 1) % sb.max
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// Len returns the number of retained lines.
func (sb *Scrollback) Len() int {
	if sb.full {
		return sb.max
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.max - sb.head + sb.tail
}

// Line returns the line at index; 0 is the oldest, Len()-1 the newest.
// Out-of-range indexes return nil.
func (sb *Scrollback) Line(index int) Line {
	if index < 0 || index >= sb.Len() {
		return nil
	}
	return sb.lines[(sb.head+index)%sb.max]
}

// Clear drops every retained line but keeps the capacity.
func (sb *Scrollback) Clear() {
	for i := range sb.lines {
		sb.lines[i] = nil
	}
	sb.head, sb.tail, sb.full = 0, 0, false
}

// Max returns the line capacity.
func (sb *Scrollback) Max() int { return sb.max }

package input

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decoder turns raw bytes from the physical terminal into events. It
// keeps partial escape sequences across Feed calls, since a sequence
// can straddle a read boundary.
type Decoder struct {
	pending []byte
}

// Feed appends b to the internal buffer and returns every complete
// event it can decode. A lone trailing ESC is reported as the Esc key:
// terminals deliver real sequences atomically enough that a dangling
// ESC at the end of a read is a key press, not a prefix.
func (d *Decoder) Feed(b []byte) []Event {
	d.pending = append(d.pending, b...)
	var evs []Event

	for len(d.pending) > 0 {
		ev, n := d.parseOne()
		if n == 0 {
			break
		}
		d.pending = d.pending[n:]
		if ev != nil {
			evs = append(evs, ev)
		}
	}
	return evs
}

// parseOne decodes one event from the front of the buffer, returning
// the event (nil to drop) and bytes consumed. Zero consumed means the
// buffer holds an incomplete sequence to finish on the next Feed.
func (d *Decoder) parseOne() (Event, int) {
	p := d.pending
	if p[0] != 0x1b {
		return d.parsePlain()
	}
	if len(p) == 1 {
		return KeyEvent{Code: KeyEsc}, 1
	}

	switch p[1] {
	case '[':
		return d.parseCsi()
	case 'O':
		return d.parseSs3()
	default:
		// Alt+char.
		r, n := utf8.DecodeRune(p[1:])
		if r == utf8.RuneError && n <= 1 && !utf8.FullRune(p[1:]) {
			return nil, 0
		}
		return KeyEvent{Code: KeyRune, Rune: r, Mod: ModAlt}, 1 + n
	}
}

func (d *Decoder) parsePlain() (Event, int) {
	p := d.pending
	b := p[0]
	switch {
	case b == '\r' || b == '\n':
		return KeyEvent{Code: KeyEnter}, 1
	case b == '\t':
		return KeyEvent{Code: KeyTab}, 1
	case b == 0x7f || b == 0x08:
		return KeyEvent{Code: KeyBackspace}, 1
	case b < 0x20:
		if b >= 1 && b <= 26 {
			return KeyEvent{Code: KeyRune, Rune: rune('a' + b - 1), Mod: ModCtrl}, 1
		}
		return nil, 1
	}
	r, n := utf8.DecodeRune(p)
	if r == utf8.RuneError && !utf8.FullRune(p) {
		return nil, 0
	}
	return KeyEvent{Code: KeyRune, Rune: r}, n
}

// parseCsi handles ESC [ sequences: cursor and function keys with
// modifier parameters, SGR mouse reports, and bracketed paste.
func (d *Decoder) parseCsi() (Event, int) {
	p := d.pending

	// Find the final byte.
	i := 2
	for i < len(p) && (p[i] < 0x40 || p[i] > 0x7e) {
		i++
	}
	if i >= len(p) {
		return nil, 0
	}
	final := p[i]
	body := string(p[2:i])
	total := i + 1

	if strings.HasPrefix(body, "<") {
		return parseSgrMouse(body[1:], final), total
	}
	if body == "200" && final == '~' {
		return d.parsePaste(total)
	}

	params := splitParams(body)
	mod := modFromParam(paramAt(params, 1, 1))

	switch final {
	case 'A':
		return KeyEvent{Code: KeyUp, Mod: mod}, total
	case 'B':
		return KeyEvent{Code: KeyDown, Mod: mod}, total
	case 'C':
		return KeyEvent{Code: KeyRight, Mod: mod}, total
	case 'D':
		return KeyEvent{Code: KeyLeft, Mod: mod}, total
	case 'H':
		return KeyEvent{Code: KeyHome, Mod: mod}, total
	case 'F':
		return KeyEvent{Code: KeyEnd, Mod: mod}, total
	case 'Z':
		return KeyEvent{Code: KeyBackTab}, total
	case 'u':
		// Kitty-style "code;mod u".
		if paramAt(params, 0, 0) == 13 {
			return KeyEvent{Code: KeyEnter, Mod: mod}, total
		}
		return nil, total
	case '~':
		return tildeKey(paramAt(params, 0, 0), mod), total
	}
	return nil, total
}

func (d *Decoder) parseSs3() (Event, int) {
	p := d.pending
	if len(p) < 3 {
		return nil, 0
	}
	codes := map[byte]KeyCode{
		'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
		'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
		'H': KeyHome, 'F': KeyEnd,
	}
	if c, ok := codes[p[2]]; ok {
		return KeyEvent{Code: c}, 3
	}
	return nil, 3
}

// parsePaste scans for the close bracket; start is the length of the
// already-consumed open bracket.
func (d *Decoder) parsePaste(start int) (Event, int) {
	terminator := []byte("\x1b[201~")
	rest := d.pending[start:]
	end := bytes.Index(rest, terminator)
	if end < 0 {
		return nil, 0
	}
	return PasteEvent{Text: string(rest[:end])}, start + end + len(terminator)
}

func parseSgrMouse(body string, final byte) Event {
	parts := splitParams(body)
	if len(parts) < 3 {
		return nil
	}
	b := parts[0]
	x, y := parts[1]-1, parts[2]-1

	if b&64 != 0 {
		if b&1 == 0 {
			return MouseEvent{Kind: MouseWheelUp, Button: MouseNone, X: x, Y: y}
		}
		return MouseEvent{Kind: MouseWheelDown, Button: MouseNone, X: x, Y: y}
	}

	btn := MouseNone
	switch b & 3 {
	case 0:
		btn = MouseLeft
	case 1:
		btn = MouseMiddle
	case 2:
		btn = MouseRight
	}

	kind := MousePress
	switch {
	case final == 'm':
		kind = MouseRelease
	case b&32 != 0:
		kind = MouseDrag
	}
	return MouseEvent{Kind: kind, Button: btn, X: x, Y: y}
}

func splitParams(body string) []int {
	if body == "" {
		return nil
	}
	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ';' || r == ':' })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}

func paramAt(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

// modFromParam decodes the xterm modifier parameter (value minus one
// is a shift/alt/ctrl bitmask).
func modFromParam(p int) Mod {
	var m Mod
	bits := p - 1
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

func tildeKey(code int, mod Mod) Event {
	keys := map[int]KeyCode{
		1: KeyHome, 7: KeyHome, 4: KeyEnd, 8: KeyEnd,
		2: KeyInsert, 3: KeyDelete, 5: KeyPgUp, 6: KeyPgDn,
		11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4,
		15: KeyF5, 17: KeyF6, 18: KeyF7, 19: KeyF8,
		20: KeyF9, 21: KeyF10, 23: KeyF11, 24: KeyF12,
	}
	if k, ok := keys[code]; ok {
		return KeyEvent{Code: k, Mod: mod}
	}
	return nil
}

package vt

import (
	"bytes"

	"github.com/charmbracelet/x/ansi"
)

// pat returns parameter i, or def when absent or zero.
func pat(params ansi.Params, i, def int) int {
	if i >= len(params) {
		return def
	}
	v := params[i].Param(def)
	if v == 0 {
		return def
	}
	return v
}

// patRaw returns parameter i with no zero-defaulting, for parameters
// where 0 is meaningful (erase modes, DECSET numbers).
func patRaw(params ansi.Params, i, def int) int {
	if i >= len(params) {
		return def
	}
	return params[i].Param(def)
}

func (e *Emulator) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	if cmd.Prefix() == '?' {
		switch cmd.Final() {
		case 'h':
			e.setPrivateModes(params, true)
		case 'l':
			e.setPrivateModes(params, false)
		}
		return
	}
	if cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return
	}

	s := e.scr
	switch cmd.Final() {
	case 'A':
		s.moveCursor(0, -pat(params, 0, 1))
	case 'B':
		s.moveCursor(0, pat(params, 0, 1))
	case 'C':
		s.moveCursor(pat(params, 0, 1), 0)
	case 'D':
		s.moveCursor(-pat(params, 0, 1), 0)
	case 'E':
		s.moveCursor(0, pat(params, 0, 1))
		s.curX = 0
	case 'F':
		s.moveCursor(0, -pat(params, 0, 1))
		s.curX = 0
	case 'G':
		s.setCursor(pat(params, 0, 1)-1, s.curY)
	case 'd':
		s.setCursor(s.curX, pat(params, 0, 1)-1)
	case 'H', 'f':
		s.setCursor(pat(params, 1, 1)-1, pat(params, 0, 1)-1)
	case 'J':
		s.eraseScreen(patRaw(params, 0, 0))
		if patRaw(params, 0, 0) == 3 {
			e.scrollback.Clear()
		}
	case 'K':
		s.eraseLine(patRaw(params, 0, 0))
	case 'L':
		s.insertLines(pat(params, 0, 1))
	case 'M':
		s.deleteLines(pat(params, 0, 1))
	case '@':
		s.insertChars(pat(params, 0, 1))
	case 'P':
		s.deleteChars(pat(params, 0, 1))
	case 'X':
		s.eraseChars(pat(params, 0, 1))
	case 'S':
		s.scrollUp(pat(params, 0, 1))
	case 'T':
		s.scrollDown(pat(params, 0, 1))
	case 'b':
		s.repeatLast(e.lastRune, e.lastWidth, pat(params, 0, 1))
	case 'm':
		e.handleSgr(params)
	case 'r':
		s.setRegion(pat(params, 0, 1)-1, patRaw(params, 1, s.h)-1)
	case 's':
		s.savedX, s.savedY = s.curX, s.curY
		s.savedPen = s.pen
	case 'u':
		s.setCursor(s.savedX, s.savedY)
		s.pen = s.savedPen
	}
}

func (e *Emulator) setPrivateModes(params ansi.Params, on bool) {
	for i := range params {
		switch params[i].Param(0) {
		case 1:
			e.appCursor = on
		case 7:
			e.scr.wrap = on
		case 25:
			e.cursorHidden = !on
		case 47:
			e.setAltScreen(on, false, false)
		case 1047:
			e.setAltScreen(on, false, on)
		case 1048:
			if on {
				e.scr.savedX, e.scr.savedY = e.scr.curX, e.scr.curY
				e.scr.savedPen = e.scr.pen
			} else {
				e.scr.setCursor(e.scr.savedX, e.scr.savedY)
				e.scr.pen = e.scr.savedPen
			}
		case 1049:
			e.setAltScreen(on, true, on)
		case 2004:
			e.bracketedPaste = on
		case 1000, 1002, 1003:
			e.mouseTracking = on
		case 1006:
			e.mouseSGR = on
		}
	}
}

func (e *Emulator) handleEsc(cmd ansi.Cmd) {
	s := e.scr
	switch cmd.Final() {
	case '7':
		s.savedX, s.savedY = s.curX, s.curY
		s.savedPen = s.pen
	case '8':
		s.setCursor(s.savedX, s.savedY)
		s.pen = s.savedPen
	case 'D':
		s.lineFeed()
	case 'E':
		s.lineFeed()
		s.curX = 0
	case 'M':
		s.reverseLineFeed()
	case 'c':
		e.reset()
	}
}

func (e *Emulator) handleOsc(cmd int, data []byte) {
	switch cmd {
	case 0, 2:
		if i := bytes.IndexByte(data, ';'); i >= 0 {
			e.title = string(data[i+1:])
		}
	}
}

func (e *Emulator) handleSgr(params ansi.Params) {
	s := e.scr
	if len(params) == 0 {
		s.pen = Style{}
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i].Param(0)
		switch {
		case p == 0:
			s.pen = Style{}
		case p == 1:
			s.pen.Bold = true
		case p == 3:
			s.pen.Italic = true
		case p == 4:
			s.pen.Underline = true
		case p == 7:
			s.pen.Inverse = true
		case p == 22:
			s.pen.Bold = false
		case p == 23:
			s.pen.Italic = false
		case p == 24:
			s.pen.Underline = false
		case p == 27:
			s.pen.Inverse = false
		case p >= 30 && p <= 37:
			s.pen.FG = Indexed(uint8(p - 30))
		case p == 38:
			if c, n := extendedColor(params, i); n > 0 {
				s.pen.FG = c
				i += n
			}
		case p == 39:
			s.pen.FG = Color{}
		case p >= 40 && p <= 47:
			s.pen.BG = Indexed(uint8(p - 40))
		case p == 48:
			if c, n := extendedColor(params, i); n > 0 {
				s.pen.BG = c
				i += n
			}
		case p == 49:
			s.pen.BG = Color{}
		case p >= 90 && p <= 97:
			s.pen.FG = Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			s.pen.BG = Indexed(uint8(p - 100 + 8))
		}
	}
}

// extendedColor decodes the 38/48 forms (";5;n" and ";2;r;g;b"),
// returning the color and how many params were consumed beyond the
// introducer.
func extendedColor(params ansi.Params, i int) (Color, int) {
	switch patRaw(params, i+1, -1) {
	case 5:
		if i+2 < len(params) {
			return Indexed(uint8(patRaw(params, i+2, 0))), 2
		}
	case 2:
		if i+4 < len(params) {
			return RGB(
				uint8(patRaw(params, i+2, 0)),
				uint8(patRaw(params, i+3, 0)),
				uint8(patRaw(params, i+4, 0)),
			), 4
		}
	}
	return Color{}, 0
}

// reset implements RIS: both screens cleared, modes back to defaults,
// scrollback retained.
func (e *Emulator) reset() {
	w, h := e.scr.w, e.scr.h
	e.scrs[0] = newScreen(w, h)
	e.scrs[1] = newScreen(w, h)
	e.scrs[0].onScrollOut = e.scrollback.Push
	e.alt = false
	e.scr = e.scrs[0]
	e.appCursor = false
	e.cursorHidden = false
	e.bracketedPaste = false
	e.mouseTracking = false
	e.mouseSGR = false
}

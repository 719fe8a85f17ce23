package input

import "unicode/utf8"

// Encode maps a key event to the exact bytes the child expects.
// Full-screen programs recognize keys by byte-exact sequences, so the
// table below is not negotiable. appCursor selects the DECCKM arrow
// prefix. Keys with no defined encoding return nil and are dropped.
func Encode(k KeyEvent, appCursor bool) []byte {
	// Ctrl+letter folds to a single control byte.
	if k.Code == KeyRune && k.Mod&ModCtrl != 0 {
		r := k.Rune
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r >= 'a' && r <= 'z' {
			return []byte{byte(r) & 0x1f}
		}
		return nil
	}

	// Alt+char is ESC followed by the character.
	if k.Code == KeyRune && k.Mod&ModAlt != 0 {
		b := make([]byte, 1, 1+utf8.UTFMax)
		b[0] = 0x1b
		return utf8.AppendRune(b, k.Rune)
	}

	switch k.Code {
	case KeyRune:
		return utf8.AppendRune(nil, k.Rune)
	case KeyEnter:
		if k.Mod&ModShift != 0 {
			// Kitty-protocol disambiguation so full-screen apps can
			// tell Shift+Enter from Enter.
			return []byte("\x1b[13;2u")
		}
		return []byte{'\r'}
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		return []byte{'\t'}
	case KeyBackTab:
		return []byte("\x1b[Z")
	case KeyEsc:
		return []byte{0x1b}
	case KeyUp, KeyDown, KeyRight, KeyLeft:
		prefix := "\x1b["
		if appCursor {
			prefix = "\x1bO"
		}
		final := map[KeyCode]byte{
			KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
		}[k.Code]
		return append([]byte(prefix), final)
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPgUp:
		return []byte("\x1b[5~")
	case KeyPgDn:
		return []byte("\x1b[6~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12:
		// xterm skips codes 16, 22 in this range.
		code := map[KeyCode]string{
			KeyF5: "15", KeyF6: "17", KeyF7: "18", KeyF8: "19",
			KeyF9: "20", KeyF10: "21", KeyF11: "23", KeyF12: "24",
		}[k.Code]
		return []byte("\x1b[" + code + "~")
	}
	return nil
}

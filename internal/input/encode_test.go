package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTable(t *testing.T) {
	tests := []struct {
		name      string
		key       KeyEvent
		appCursor bool
		want      []byte
	}{
		{"ctrl+c", KeyEvent{Code: KeyRune, Rune: 'c', Mod: ModCtrl}, false, []byte{0x03}},
		{"ctrl+C folds case", KeyEvent{Code: KeyRune, Rune: 'C', Mod: ModCtrl}, false, []byte{0x03}},
		{"ctrl+a", KeyEvent{Code: KeyRune, Rune: 'a', Mod: ModCtrl}, false, []byte{0x01}},
		{"alt+x", KeyEvent{Code: KeyRune, Rune: 'x', Mod: ModAlt}, false, []byte{0x1b, 'x'}},
		{"alt+é", KeyEvent{Code: KeyRune, Rune: 'é', Mod: ModAlt}, false, []byte{0x1b, 0xc3, 0xa9}},
		{"plain rune", KeyEvent{Code: KeyRune, Rune: 'q'}, false, []byte("q")},
		{"utf8 rune", KeyEvent{Code: KeyRune, Rune: '日'}, false, []byte("日")},
		{"enter", KeyEvent{Code: KeyEnter}, false, []byte{'\r'}},
		{"shift+enter", KeyEvent{Code: KeyEnter, Mod: ModShift}, false, []byte("\x1b[13;2u")},
		{"backspace", KeyEvent{Code: KeyBackspace}, false, []byte{0x7f}},
		{"tab", KeyEvent{Code: KeyTab}, false, []byte{'\t'}},
		{"backtab", KeyEvent{Code: KeyBackTab}, false, []byte("\x1b[Z")},
		{"esc", KeyEvent{Code: KeyEsc}, false, []byte{0x1b}},
		{"up normal", KeyEvent{Code: KeyUp}, false, []byte("\x1b[A")},
		{"up application", KeyEvent{Code: KeyUp}, true, []byte("\x1bOA")},
		{"down", KeyEvent{Code: KeyDown}, false, []byte("\x1b[B")},
		{"right application", KeyEvent{Code: KeyRight}, true, []byte("\x1bOC")},
		{"left", KeyEvent{Code: KeyLeft}, false, []byte("\x1b[D")},
		{"home", KeyEvent{Code: KeyHome}, false, []byte("\x1b[H")},
		{"end", KeyEvent{Code: KeyEnd}, false, []byte("\x1b[F")},
		{"pgup", KeyEvent{Code: KeyPgUp}, false, []byte("\x1b[5~")},
		{"pgdn", KeyEvent{Code: KeyPgDn}, false, []byte("\x1b[6~")},
		{"delete", KeyEvent{Code: KeyDelete}, false, []byte("\x1b[3~")},
		{"insert", KeyEvent{Code: KeyInsert}, false, []byte("\x1b[2~")},
		{"f1", KeyEvent{Code: KeyF1}, false, []byte("\x1bOP")},
		{"f4", KeyEvent{Code: KeyF4}, false, []byte("\x1bOS")},
		{"f5", KeyEvent{Code: KeyF5}, false, []byte("\x1b[15~")},
		{"f6", KeyEvent{Code: KeyF6}, false, []byte("\x1b[17~")},
		{"f10", KeyEvent{Code: KeyF10}, false, []byte("\x1b[21~")},
		{"f11", KeyEvent{Code: KeyF11}, false, []byte("\x1b[23~")},
		{"f12", KeyEvent{Code: KeyF12}, false, []byte("\x1b[24~")},
		{"ctrl+digit dropped", KeyEvent{Code: KeyRune, Rune: '1', Mod: ModCtrl}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.key, tt.appCursor))
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	// Every key the decoder can produce from xterm bytes encodes back
	// to those same bytes in normal cursor mode.
	keys := []KeyEvent{
		{Code: KeyUp}, {Code: KeyDown}, {Code: KeyRight}, {Code: KeyLeft},
		{Code: KeyHome}, {Code: KeyEnd}, {Code: KeyPgUp}, {Code: KeyPgDn},
		{Code: KeyDelete}, {Code: KeyInsert},
		{Code: KeyF5}, {Code: KeyF6}, {Code: KeyF7}, {Code: KeyF8},
		{Code: KeyF9}, {Code: KeyF10}, {Code: KeyF11}, {Code: KeyF12},
		{Code: KeyBackTab},
		{Code: KeyRune, Rune: 'a'},
		{Code: KeyRune, Rune: 'c', Mod: ModCtrl},
		{Code: KeyRune, Rune: 'z', Mod: ModAlt},
	}

	var d Decoder
	for _, k := range keys {
		b := Encode(k, false)
		evs := d.Feed(b)
		if assert.Len(t, evs, 1, "key %+v", k) {
			assert.Equal(t, k, evs[0], "bytes %q", b)
		}
	}
}

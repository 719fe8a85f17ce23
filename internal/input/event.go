// Package input decodes bytes from the physical terminal into events
// and encodes key events back into the byte protocol a PTY child
// expects.
package input

// KeyCode identifies a non-printable key. Printable characters use
// KeyRune with the rune set.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyBackTab
	KeyEsc
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Mod is a bitmask of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is one decoded key press.
type KeyEvent struct {
	Code KeyCode
	Rune rune
	Mod  Mod
}

// MouseKind distinguishes press, drag, release, and wheel events.
type MouseKind int

const (
	MousePress MouseKind = iota
	MouseDrag
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// MouseButton identifies which button an event refers to.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseNone
)

// MouseEvent is one decoded SGR mouse report. X and Y are zero-based
// screen coordinates.
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	X, Y   int
}

// PasteEvent is the body of one bracketed paste.
type PasteEvent struct {
	Text string
}

// Event is a KeyEvent, MouseEvent, or PasteEvent.
type Event any

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/scrn/internal/config"
	"github.com/Gaurav-Gosain/scrn/internal/pty"
	"github.com/Gaurav-Gosain/scrn/internal/render"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

// detachWait bounds the post-detach-sequence wait for child exit.
const detachWait = 100 * time.Millisecond

// pane is one attached session slot: the PTY session, the one-time
// history dump, and the per-pane frame state the renderer threads
// through every frame.
type pane struct {
	sess    *pty.Session
	name    string
	pidName string
	hist    []string

	snap    *render.Snapshot
	offset  int
	lastAlt bool
	dead    bool
}

func rgb(c [3]uint8) vt.Color { return vt.RGB(c[0], c[1], c[2]) }

// ptySize is the PTY grid for the current viewport: one header line,
// one footer line, one spare row, and a one-column margin each side.
func (a *App) ptySize() (rows, cols int) {
	rows = a.termH - 3
	cols = a.termW - 2
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// paneGeometry places pane idx on the physical screen. Two-pane mode
// splits the inner width 60/40 around a separator column.
func (a *App) paneGeometry(idx int) render.Geometry {
	rows, cols := a.ptySize()
	if !a.twoPane {
		return render.Geometry{X: 1, Y: 1, Width: cols, Height: rows}
	}
	lw, rw := splitWidths(cols)
	if idx == 0 {
		return render.Geometry{X: 1, Y: 1, Width: lw, Height: rows}
	}
	return render.Geometry{X: 1 + lw + 1, Y: 1, Width: rw, Height: rows}
}

// splitWidths divides an inner width into left and right pane widths
// with one separator column between them.
func splitWidths(inner int) (left, right int) {
	usable := inner - 1
	if usable < 2 {
		return 1, 1
	}
	left = usable * 60 / 100
	if left < 1 {
		left = 1
	}
	right = usable - left
	if right < 1 {
		right = 1
		left = usable - 1
	}
	return left, right
}

// hitTestPane maps absolute screen coordinates to a live pane and
// pane-local cell coordinates.
func (a *App) hitTestPane(x, y int) (idx, localX, localY int, ok bool) {
	for i, p := range a.panes {
		if p == nil {
			continue
		}
		geo := a.paneGeometry(i)
		if x >= geo.X && x < geo.X+geo.Width && y >= geo.Y && y < geo.Y+geo.Height {
			return i, x - geo.X, y - geo.Y, true
		}
	}
	return 0, 0, 0, false
}

// clampToPane confines drag coordinates to the pane's cell bounds.
func (a *App) clampToPane(idx, x, y int) (int, int) {
	geo := a.paneGeometry(idx)
	lx := clamp(x-geo.X, 0, geo.Width-1)
	ly := clamp(y-geo.Y, 0, geo.Height-1)
	return lx, ly
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

// attachPane spawns `screen -r` for the session inside a fresh PTY.
func (a *App) attachPane(idx int, s screen.Session, rows, cols int) error {
	rc := screen.EnsureScreenrc()
	sess, err := pty.Spawn("screen", []string{"-c", rc, "-d", "-r", s.PidName},
		rows, cols, "", a.cfg.Appearance.ScrollbackLines)
	if err != nil {
		return err
	}
	a.panes[idx] = &pane{
		sess:    sess,
		name:    s.Name,
		pidName: s.PidName,
		hist:    screen.DumpScrollback(s.PidName),
	}
	config.RecordAttach(s.Name)
	a.history = config.LoadHistory()
	return nil
}

// Attach enters attached mode on one session.
func (a *App) Attach(s screen.Session) error {
	rows, cols := a.ptySize()
	if err := a.attachPane(0, s, rows, cols); err != nil {
		a.status = err.Error()
		return err
	}
	a.twoPane = false
	a.active = 0
	a.enterAttached()
	return nil
}

// AttachTwoPane enters attached mode with two sessions side by side.
func (a *App) AttachTwoPane(left, right screen.Session) error {
	rows, cols := a.ptySize()
	lw, rw := splitWidths(cols)

	if err := a.attachPane(0, left, rows, lw); err != nil {
		a.status = err.Error()
		return err
	}
	a.twoPane = true
	if err := a.attachPane(1, right, rows, rw); err != nil {
		a.twoPane = false
		a.teardownPane(0)
		a.status = err.Error()
		return err
	}
	a.active = 0
	a.enterAttached()
	return nil
}

func (a *App) enterAttached() {
	a.mode = ModeAttached
	a.sel = nil
	a.detachReq = false
	a.returnReq = false
	a.escArmed = false
	a.chromeTick = true
	for _, p := range a.panes {
		if p != nil {
			p.snap = nil
			p.offset = 0
		}
	}
	// Wipe the list chrome before the first pane frame.
	_, _ = os.Stdout.WriteString("\x1b[2J")
}

// AttachedNames returns the names of the currently attached sessions,
// active pane first; empty when idle.
func (a *App) AttachedNames() []string {
	var names []string
	if p := a.panes[a.active]; p != nil {
		names = append(names, p.name)
	}
	if p := a.panes[1-a.active]; p != nil && a.twoPane {
		names = append(names, p.name)
	}
	return names
}

// ActivePane returns the active pane index.
func (a *App) ActivePane() int { return a.active }

// SwapActivePane toggles input focus in two-pane mode. The full redraw
// refreshes the separator highlight.
func (a *App) SwapActivePane() {
	if !a.twoPane {
		return
	}
	a.active = 1 - a.active
	a.forceFullRedraw()
}

func (a *App) forceFullRedraw() {
	for _, p := range a.panes {
		if p != nil {
			p.snap = nil
		}
	}
	a.chromeTick = true
}

// dropPane handles one-of-two pane death: the survivor continues solo
// at full width.
func (a *App) dropPane(idx int) {
	a.teardownPane(idx)
	if a.panes[0] == nil && a.panes[1] != nil {
		a.panes[0], a.panes[1] = a.panes[1], nil
	}
	a.twoPane = false
	a.active = 0
	rows, cols := a.ptySize()
	if p := a.panes[0]; p != nil {
		if err := p.sess.Resize(rows, cols); err != nil {
			log.Warn("resize after pane drop", "err", err)
		}
	}
	a.forceFullRedraw()
}

// Detach leaves attached mode: archive each pane's screen, ask screen
// to detach, wait briefly for exit, then tear everything down.
func (a *App) Detach() {
	for _, p := range a.panes {
		if p == nil {
			continue
		}
		archiveScreen(p.name, p.sess.Term.ScreenText())
		if p.sess.IsRunning() {
			// Ctrl+A d is screen's detach chord.
			p.sess.WriteAll([]byte{0x01, 'd'})
		}
	}

	deadline := time.Now().Add(detachWait)
	for time.Now().Before(deadline) {
		alive := false
		for _, p := range a.panes {
			if p != nil && p.sess.IsRunning() {
				alive = true
			}
		}
		if !alive {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	for i := range a.panes {
		a.teardownPane(i)
	}
	a.twoPane = false
	a.active = 0
	a.sel = nil
	a.mode = ModeList
	a.chromeTick = true
	a.refreshSessions()
}

func (a *App) teardownPane(idx int) {
	if p := a.panes[idx]; p != nil {
		p.sess.Close()
		p.hist = nil
		a.panes[idx] = nil
	}
}

// archiveScreen saves the final visible screen of a detached pane.
func archiveScreen(name string, rows []string) {
	path := filepath.Join(config.StateDir(), fmt.Sprintf("last-screen-%s.txt", name))
	data := strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		log.Debug("archive write failed", "path", path, "err", err)
	}
}

// resizeAttached propagates a viewport change to every live pane and
// resets scroll state, per the resize invariant.
func (a *App) resizeAttached() {
	rows, cols := a.ptySize()
	for i, p := range a.panes {
		if p == nil {
			continue
		}
		w := cols
		if a.twoPane {
			lw, rw := splitWidths(cols)
			if i == 0 {
				w = lw
			} else {
				w = rw
			}
		}
		if err := p.sess.Resize(rows, w); err != nil {
			a.status = err.Error()
			log.Warn("pty resize", "pane", i, "err", err)
		}
		p.snap = nil
		p.offset = 0
	}
	a.sel = nil
	a.chromeTick = true
}

package app

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/scrn/internal/input"
	"github.com/Gaurav-Gosain/scrn/internal/render"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
	"github.com/Gaurav-Gosain/scrn/internal/workspace"
)

// wheelStep is the scroll-offset change per wheel notch.
const wheelStep = 3

func (a *App) dispatch(ev input.Event) {
	if a.mode == ModeAttached {
		a.dispatchAttached(ev)
		return
	}
	switch e := ev.(type) {
	case input.KeyEvent:
		a.listKey(e)
	case input.MouseEvent:
		switch e.Kind {
		case input.MouseWheelUp:
			if a.mode == ModeWorkspace {
				a.repoSel = clamp(a.repoSel-1, 0, len(a.repos)-1)
				a.chromeTick = true
			} else {
				a.moveSelection(-1)
			}
		case input.MouseWheelDown:
			if a.mode == ModeWorkspace {
				a.repoSel = clamp(a.repoSel+1, 0, len(a.repos)-1)
				a.chromeTick = true
			} else {
				a.moveSelection(1)
			}
		}
	case input.PasteEvent:
		if a.mode == ModeSearch || a.mode == ModeCreate || a.mode == ModeRename {
			a.insertText(e.Text)
		}
	}
}

// --- list modes ---

func (a *App) listKey(e input.KeyEvent) {
	switch a.mode {
	case ModeSearch:
		a.searchKey(e)
	case ModeCreate, ModeRename:
		a.promptKey(e)
	case ModeConfirmKill:
		a.confirmKillKey(e)
	case ModeConfirmQuit:
		a.confirmQuitKey(e)
	case ModeWorkspace:
		a.workspaceKey(e)
	default:
		a.normalKey(e)
	}
}

func (a *App) normalKey(e input.KeyEvent) {
	if e.Code == input.KeyRune && e.Rune == 'c' && e.Mod&input.ModCtrl != 0 {
		a.quit = true
		return
	}
	switch e.Code {
	case input.KeyUp:
		a.moveSelection(-1)
		return
	case input.KeyDown:
		a.moveSelection(1)
		return
	case input.KeyEnter:
		a.attachSelected()
		return
	case input.KeyEsc:
		if a.query != "" {
			a.query = ""
			a.applyFilter()
			a.chromeTick = true
		}
		return
	}
	if e.Code != input.KeyRune {
		return
	}
	if e.Mod&input.ModCtrl != 0 {
		if e.Rune == 'r' {
			a.refreshSessions()
		}
		return
	}
	switch e.Rune {
	case 'k':
		a.moveSelection(-1)
	case 'j':
		a.moveSelection(1)
	case '/':
		a.mode = ModeSearch
		a.chromeTick = true
	case 'n':
		a.mode = ModeCreate
		a.inputBuf = ""
		a.chromeTick = true
	case 'r':
		if s := a.selectedSession(); s != nil {
			a.mode = ModeRename
			a.inputBuf = s.Name
			a.chromeTick = true
		}
	case 'd', 'x':
		if a.selectedSession() != nil {
			a.mode = ModeConfirmKill
			a.chromeTick = true
		}
	case 'p':
		if s := a.selectedSession(); s != nil {
			a.togglePin(s.Name)
			a.chromeTick = true
		}
	case '2':
		a.attachPair()
	case 'w':
		a.openWorkspace()
	case 'g':
		// Hand "go home" to the shell wrapper; only meaningful when
		// scrn itself runs inside a screen session.
		if a.insideScreen {
			a.goHome = true
			a.quit = true
		}
	case 'q':
		a.mode = ModeConfirmQuit
		a.chromeTick = true
	}
}

// openWorkspace scans the configured workspace root and shows the repo
// picker.
func (a *App) openWorkspace() {
	dir := a.cfg.Workspace.Dir
	if dir == "" {
		a.status = "no workspace dir configured"
		a.chromeTick = true
		return
	}
	a.repos = workspace.Scan(dir)
	if len(a.repos) == 0 {
		a.status = "no repositories under " + dir
		a.chromeTick = true
		return
	}
	a.repoSel = 0
	a.mode = ModeWorkspace
	a.chromeTick = true
}

func (a *App) workspaceKey(e input.KeyEvent) {
	switch {
	case e.Code == input.KeyEsc:
		a.mode = ModeList
	case e.Code == input.KeyUp || (e.Code == input.KeyRune && e.Rune == 'k' && e.Mod == 0):
		a.repoSel = clamp(a.repoSel-1, 0, len(a.repos)-1)
	case e.Code == input.KeyDown || (e.Code == input.KeyRune && e.Rune == 'j' && e.Mod == 0):
		a.repoSel = clamp(a.repoSel+1, 0, len(a.repos)-1)
	case e.Code == input.KeyEnter:
		a.openRepo()
	}
	a.chromeTick = true
}

// openRepo attaches the session for the selected repo, creating it in
// the repo directory when it does not exist yet.
func (a *App) openRepo() {
	if a.repoSel < 0 || a.repoSel >= len(a.repos) {
		return
	}
	repo := a.repos[a.repoSel]
	a.mode = ModeList

	for i := range a.sessions {
		if a.sessions[i].Name == repo.Name {
			s := a.sessions[i]
			if err := a.Attach(s); err != nil {
				log.Warn("attach failed", "session", s.Name, "err", err)
			}
			return
		}
	}

	if err := screen.CreateSessionInDir(repo.Name, repo.Path); err != nil {
		a.status = err.Error()
		a.chromeTick = true
		return
	}
	a.refreshSessions()
	for i := range a.sessions {
		if a.sessions[i].Name == repo.Name {
			s := a.sessions[i]
			if err := a.Attach(s); err != nil {
				log.Warn("attach failed", "session", s.Name, "err", err)
			}
			return
		}
	}
	a.status = "created " + repo.Name + " but it never registered"
	a.chromeTick = true
}

// attachPair attaches the selected session and the next one in list
// order side by side.
func (a *App) attachPair() {
	s := a.selectedSession()
	if s == nil {
		return
	}
	if len(a.filtered) < 2 {
		a.status = "two-pane needs a second session"
		a.chromeTick = true
		return
	}
	next := a.sessions[a.filtered[(a.selected+1)%len(a.filtered)]]
	if err := a.AttachTwoPane(*s, next); err != nil {
		log.Warn("two-pane attach failed", "err", err)
	}
}

func (a *App) attachSelected() {
	s := a.selectedSession()
	if s == nil {
		return
	}
	if err := a.Attach(*s); err != nil {
		log.Warn("attach failed", "session", s.Name, "err", err)
	}
}

func (a *App) moveSelection(delta int) {
	if len(a.filtered) == 0 {
		return
	}
	a.selected = clamp(a.selected+delta, 0, len(a.filtered)-1)
	a.chromeTick = true
}

func (a *App) searchKey(e input.KeyEvent) {
	switch e.Code {
	case input.KeyEsc:
		a.query = ""
		a.mode = ModeList
		a.applyFilter()
	case input.KeyEnter:
		a.mode = ModeList
	case input.KeyBackspace:
		a.query = trimLastRune(a.query)
		a.applyFilter()
	case input.KeyUp:
		a.moveSelection(-1)
	case input.KeyDown:
		a.moveSelection(1)
	case input.KeyRune:
		if e.Mod == 0 {
			a.query += string(e.Rune)
			a.applyFilter()
		}
	}
	a.chromeTick = true
}

func (a *App) promptKey(e input.KeyEvent) {
	switch e.Code {
	case input.KeyEsc:
		a.mode = ModeList
	case input.KeyBackspace:
		a.inputBuf = trimLastRune(a.inputBuf)
	case input.KeyEnter:
		a.commitPrompt()
	case input.KeyRune:
		if e.Mod == 0 {
			a.inputBuf += string(e.Rune)
		}
	}
	a.chromeTick = true
}

func (a *App) commitPrompt() {
	name := strings.TrimSpace(a.inputBuf)
	switch a.mode {
	case ModeCreate:
		if name == "" {
			name = "scrn-" + uuid.NewString()[:8]
		}
		if err := screen.CreateSession(name); err != nil {
			a.status = err.Error()
		} else {
			a.status = "created " + name
		}
	case ModeRename:
		if s := a.selectedSession(); s != nil && name != "" {
			if err := screen.RenameSession(s.PidName, name); err != nil {
				a.status = err.Error()
			}
		}
	}
	a.mode = ModeList
	a.refreshSessions()
}

func (a *App) confirmKillKey(e input.KeyEvent) {
	if e.Code == input.KeyRune && (e.Rune == 'y' || e.Rune == 'Y') {
		if s := a.selectedSession(); s != nil {
			if err := screen.KillSession(s.PidName); err != nil {
				a.status = err.Error()
			}
		}
		a.mode = ModeList
		a.refreshSessions()
		return
	}
	a.mode = ModeList
	a.chromeTick = true
}

func (a *App) confirmQuitKey(e input.KeyEvent) {
	if e.Code == input.KeyRune && (e.Rune == 'y' || e.Rune == 'Y') {
		a.quit = true
		return
	}
	a.mode = ModeList
	a.chromeTick = true
}

func (a *App) insertText(text string) {
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, text)
	if a.mode == ModeSearch {
		a.query += text
		a.applyFilter()
	} else {
		a.inputBuf += text
	}
	a.chromeTick = true
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	return string(rs[:len(rs)-1])
}

// --- attached mode ---

func (a *App) dispatchAttached(ev input.Event) {
	switch e := ev.(type) {
	case input.KeyEvent:
		a.attachedKey(e)
	case input.MouseEvent:
		a.attachedMouse(e)
	case input.PasteEvent:
		a.attachedPaste(e)
	}
}

func (a *App) activePaneState() *pane { return a.panes[a.active] }

// setOffset moves a pane's scroll offset, invalidating its snapshot so
// the shifted view repaints fully.
func (a *App) setOffset(p *pane, v int) {
	em := p.sess.Term
	v = render.ClampOffset(v, em, len(p.hist))
	if v == p.offset {
		return
	}
	p.offset = v
	p.snap = nil
	a.chromeTick = true
}

func (a *App) attachedKey(e input.KeyEvent) {
	p := a.activePaneState()
	if p == nil {
		a.returnReq = true
		return
	}

	if a.sel != nil {
		a.sel = nil
		a.forceFullRedraw()
	}

	// Detach gesture before anything else so it works while scrolled.
	if e.Code == input.KeyEsc && e.Mod == 0 {
		now := time.Now()
		if a.escArmed && now.Sub(a.lastEsc) <= a.doubleEscWindow() {
			a.escArmed = false
			a.detachReq = true
			return
		}
		a.escArmed = true
		a.lastEsc = now
		if p.offset > 0 {
			a.setOffset(p, 0)
			return
		}
		p.sess.WriteAll([]byte{0x1b})
		return
	}
	a.escArmed = false

	if p.offset > 0 && a.scrolledKey(p, e) {
		return
	}

	if e.Mod&input.ModCtrl != 0 && e.Code == input.KeyRune {
		switch e.Rune {
		case 'o':
			a.returnReq = true
			return
		case 'e':
			a.ctrlScroll(p, 1)
			return
		case 'n':
			a.ctrlScroll(p, -1)
			return
		}
	}
	if e.Code == input.KeyF6 {
		a.SwapActivePane()
		return
	}
	if e.Code == input.KeyPgUp && e.Mod&input.ModShift != 0 {
		a.setOffset(p, p.offset+a.pageSize())
		return
	}
	if e.Code == input.KeyPgDn && e.Mod&input.ModShift != 0 {
		a.setOffset(p, p.offset-a.pageSize())
		return
	}

	if b := input.Encode(e, p.sess.Term.AppCursorKeys()); b != nil {
		p.sess.WriteAll(b)
	}
}

// scrolledKey intercepts navigation while the view is scrolled back.
// It reports true when the key was consumed; any other key snaps the
// offset to the live tail and falls through.
func (a *App) scrolledKey(p *pane, e input.KeyEvent) bool {
	switch {
	case e.Code == input.KeyUp || (e.Code == input.KeyRune && e.Rune == 'k' && e.Mod == 0):
		a.setOffset(p, p.offset+1)
		return true
	case e.Code == input.KeyDown || (e.Code == input.KeyRune && e.Rune == 'j' && e.Mod == 0):
		a.setOffset(p, p.offset-1)
		return true
	case e.Code == input.KeyPgUp:
		a.setOffset(p, p.offset+a.pageSize())
		return true
	case e.Code == input.KeyPgDn:
		a.setOffset(p, p.offset-a.pageSize())
		return true
	}
	a.setOffset(p, 0)
	return false
}

// ctrlScroll is the keyboard scroll chord: one line when the child is
// on the main screen, forwarded as a page key when a full-screen
// program owns scrolling.
func (a *App) ctrlScroll(p *pane, dir int) {
	if p.sess.Term.AltScreen() {
		if dir > 0 {
			p.sess.WriteAll([]byte("\x1b[5~"))
		} else {
			p.sess.WriteAll([]byte("\x1b[6~"))
		}
		return
	}
	a.setOffset(p, p.offset+dir)
}

func (a *App) pageSize() int {
	rows, _ := a.ptySize()
	return rows
}

func (a *App) attachedMouse(e input.MouseEvent) {
	p := a.activePaneState()
	if p == nil {
		return
	}

	switch e.Kind {
	case input.MouseWheelUp, input.MouseWheelDown:
		a.attachedWheel(p, e)
	case input.MousePress:
		a.mousePress(e)
	case input.MouseDrag:
		a.mouseDrag(e)
	case input.MouseRelease:
		a.mouseRelease(e)
	}
}

func (a *App) attachedWheel(p *pane, e input.MouseEvent) {
	if a.sel == nil && p.offset == 0 && p.sess.Term.MouseTracking() {
		if idx, lx, ly, ok := a.hitTestPane(e.X, e.Y); ok && idx == a.active {
			p.sess.WriteAll(encodeSgrMouse(e, lx, ly))
			return
		}
	}
	delta := wheelStep
	if e.Kind == input.MouseWheelDown {
		delta = -wheelStep
	}
	a.setOffset(p, p.offset+delta)
}

func (a *App) mousePress(e input.MouseEvent) {
	idx, lx, ly, ok := a.hitTestPane(e.X, e.Y)
	if !ok {
		a.sel = nil
		return
	}
	if idx != a.active && a.twoPane {
		a.active = idx
		a.forceFullRedraw()
	}
	p := a.panes[idx]

	if e.Button == input.MouseLeft && p.offset == 0 && p.sess.Term.MouseTracking() {
		p.sess.WriteAll(encodeSgrMouse(e, lx, ly))
		a.sel = nil
		return
	}
	if e.Button != input.MouseLeft {
		return
	}
	a.selPane = idx
	a.sel = &render.Selection{StartRow: ly, StartCol: lx, EndRow: ly, EndCol: lx}
	p.snap = nil
	a.chromeTick = true
}

func (a *App) mouseDrag(e input.MouseEvent) {
	if a.sel == nil {
		p := a.activePaneState()
		if p != nil && p.offset == 0 && p.sess.Term.MouseTracking() {
			if idx, lx, ly, ok := a.hitTestPane(e.X, e.Y); ok && idx == a.active {
				p.sess.WriteAll(encodeSgrMouse(e, lx, ly))
			}
		}
		return
	}
	lx, ly := a.clampToPane(a.selPane, e.X, e.Y)
	if lx != a.sel.EndCol || ly != a.sel.EndRow {
		a.sel.EndCol, a.sel.EndRow = lx, ly
		if p := a.panes[a.selPane]; p != nil {
			p.snap = nil
		}
		a.chromeTick = true
	}
}

func (a *App) mouseRelease(e input.MouseEvent) {
	if a.sel == nil {
		p := a.activePaneState()
		if p != nil && p.offset == 0 && p.sess.Term.MouseTracking() {
			if idx, lx, ly, ok := a.hitTestPane(e.X, e.Y); ok && idx == a.active {
				p.sess.WriteAll(encodeSgrMouse(e, lx, ly))
			}
		}
		return
	}
	if a.sel.Empty() {
		a.sel = nil
		a.chromeTick = true
		return
	}
	p := a.panes[a.selPane]
	if p == nil {
		a.sel = nil
		return
	}
	text := render.ExtractText(render.SourceAt(p.sess.Term, p.hist, p.offset), *a.sel)
	if err := clipboard.WriteAll(text); err != nil {
		log.Warn("clipboard write failed", "err", err)
		a.status = "clipboard unavailable"
	}
}

func (a *App) attachedPaste(e input.PasteEvent) {
	p := a.activePaneState()
	if p == nil {
		return
	}
	a.setOffset(p, 0)
	if p.sess.Term.BracketedPaste() {
		p.sess.WriteAll([]byte("\x1b[200~"))
		p.sess.WriteAll([]byte(e.Text))
		p.sess.WriteAll([]byte("\x1b[201~"))
		return
	}
	p.sess.WriteAll([]byte(e.Text))
}

// encodeSgrMouse re-emits a decoded mouse event as an SGR report in
// pane-local coordinates.
func encodeSgrMouse(e input.MouseEvent, lx, ly int) []byte {
	b := 0
	switch e.Kind {
	case input.MouseWheelUp:
		b = 64
	case input.MouseWheelDown:
		b = 65
	default:
		switch e.Button {
		case input.MouseLeft:
			b = 0
		case input.MouseMiddle:
			b = 1
		case input.MouseRight:
			b = 2
		default:
			b = 3
		}
		if e.Kind == input.MouseDrag {
			b |= 32
		}
	}
	final := byte('M')
	if e.Kind == input.MouseRelease {
		final = 'm'
	}
	out := make([]byte, 0, 16)
	out = append(out, "\x1b[<"...)
	out = appendInt(out, b)
	out = append(out, ';')
	out = appendInt(out, lx+1)
	out = append(out, ';')
	out = appendInt(out, ly+1)
	return append(out, final)
}

func appendInt(b []byte, n int) []byte {
	if n >= 10 {
		b = appendInt(b, n/10)
	}
	return append(b, byte('0'+n%10))
}

package app

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Gaurav-Gosain/scrn/internal/render"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("#7DC4E4")).
			Bold(true).
			Padding(0, 1)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796"))

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F"))

	attachedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("#7DC4E4")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#494D64"))

	activeSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4"))
)

// render draws one frame for the current mode and flushes it to the
// terminal in a single write.
func (a *App) render() {
	a.out.Reset()
	if a.mode == ModeAttached {
		a.renderAttached(&a.out)
	} else {
		a.renderList(&a.out)
	}
	if a.out.Len() > 0 {
		_, _ = os.Stdout.Write(a.out.Bytes())
	}
	a.lastRender = time.Now()
	a.dirty = false
	a.chromeTick = false
}

// --- list chrome ---

func (a *App) renderList(fb *bytes.Buffer) {
	var lines []string

	lines = append(lines, titleStyle.Render("scrn"))
	lines = append(lines, dimStyle.Render("GNU screen session picker"))
	lines = append(lines, "")

	switch a.mode {
	case ModeCreate:
		lines = append(lines, a.promptLines("New session name:")...)
	case ModeRename:
		lines = append(lines, a.promptLines("Rename session to:")...)
	case ModeConfirmKill:
		if s := a.selectedSession(); s != nil {
			lines = append(lines, errorStyle.Render("Kill '"+s.Name+"'?"))
			lines = append(lines, "")
			lines = append(lines, dimStyle.Render(keyStyle.Render("y")+" Confirm  "+keyStyle.Render("n/Esc")+" Cancel"))
		}
	case ModeConfirmQuit:
		lines = append(lines, dimStyle.Render("Quit scrn?"))
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render(keyStyle.Render("y")+" Confirm  "+keyStyle.Render("n/Esc")+" Cancel"))
	case ModeWorkspace:
		lines = append(lines, a.workspaceLines()...)
	default:
		lines = append(lines, a.listLines()...)
	}

	if a.status != "" {
		lines = append(lines, "")
		lines = append(lines, errorStyle.Render(a.status))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	frame := lipgloss.Place(a.termW, a.termH, lipgloss.Center, lipgloss.Center, content)

	// The last attached frame may have shown the hardware cursor.
	fb.WriteString("\x1b[?2026h\x1b[?25l\x1b[2J\x1b[H")
	fb.WriteString(strings.ReplaceAll(frame, "\n", "\r\n"))
	fb.WriteString("\x1b[?2026l")
}

func (a *App) promptLines(label string) []string {
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#494D64")).
		Padding(0, 1).
		Width(40)
	return []string{
		dimStyle.Render(label),
		"",
		inputStyle.Render(a.inputBuf + "█"),
		"",
		dimStyle.Render(keyStyle.Render("Enter") + " Confirm  " + keyStyle.Render("Esc") + " Cancel"),
	}
}

func (a *App) listLines() []string {
	var lines []string

	if a.mode == ModeSearch || a.query != "" {
		lines = append(lines, dimStyle.Render("search: ")+normalStyle.Render(a.query+"█"))
		lines = append(lines, "")
	}

	if len(a.filtered) == 0 {
		if len(a.sessions) == 0 {
			lines = append(lines, dimStyle.Render("No sessions running"))
			lines = append(lines, "")
			lines = append(lines, dimStyle.Render("Press "+keyStyle.Render("n")+" to create one"))
		} else {
			lines = append(lines, dimStyle.Render("No sessions match"))
		}
	} else {
		maxVisible := a.termH - 12
		if maxVisible < 3 {
			maxVisible = 3
		}
		start := 0
		if a.selected >= maxVisible {
			start = a.selected - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(a.filtered) {
			end = len(a.filtered)
		}
		for i := start; i < end; i++ {
			lines = append(lines, a.sessionLine(i))
		}
		if len(a.filtered) > maxVisible {
			lines = append(lines, "")
			lines = append(lines, dimStyle.Render(
				fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(a.filtered))))
		}
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render(
		keyStyle.Render("↑/↓")+" Select  "+
			keyStyle.Render("Enter")+" Attach  "+
			keyStyle.Render("2")+" Pair  "+
			keyStyle.Render("/")+" Search  "+
			keyStyle.Render("n")+" New"))
	hints := keyStyle.Render("r") + " Rename  " +
		keyStyle.Render("d") + " Kill  " +
		keyStyle.Render("p") + " Pin  "
	if a.cfg.Workspace.Dir != "" {
		hints += keyStyle.Render("w") + " Repos  "
	}
	if a.insideScreen {
		hints += keyStyle.Render("g") + " Home  "
	}
	hints += keyStyle.Render("q") + " Quit"
	lines = append(lines, dimStyle.Render(hints))
	return lines
}

func (a *App) workspaceLines() []string {
	lines := []string{dimStyle.Render("Open a repository as a session:"), ""}

	maxVisible := a.termH - 10
	if maxVisible < 3 {
		maxVisible = 3
	}
	start := 0
	if a.repoSel >= maxVisible {
		start = a.repoSel - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(a.repos) {
		end = len(a.repos)
	}
	for i := start; i < end; i++ {
		label := runewidth.Truncate(a.repos[i].Display(), 50, "…")
		if i == a.repoSel {
			lines = append(lines, selectedStyle.Render("▸ "+label))
		} else {
			lines = append(lines, normalStyle.Render("  "+label))
		}
	}
	if len(a.repos) > maxVisible {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(a.repos))))
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render(
		keyStyle.Render("↑/↓")+" Select  "+
			keyStyle.Render("Enter")+" Open  "+
			keyStyle.Render("Esc")+" Back"))
	return lines
}

func (a *App) sessionLine(i int) string {
	s := a.sessions[a.filtered[i]]

	marker := "  "
	if a.pins[s.Name] {
		marker = pinStyle.Render("★ ")
	}
	state := ""
	if s.State == screen.StateAttached {
		state = attachedStyle.Render(" (attached)")
	}

	name := runewidth.Truncate(s.Name, 40, "…")
	if i == a.selected {
		return selectedStyle.Render("▸ "+marker+name) + state
	}
	return normalStyle.Render("  "+marker+name) + state
}

// --- attached frame ---

func (a *App) renderAttached(fb *bytes.Buffer) {
	fb.WriteString("\x1b[?2026h\x1b[?25l")

	if a.chromeTick {
		a.renderFrameChrome(fb)
	}

	for i, p := range a.panes {
		if p == nil {
			continue
		}
		a.renderPane(fb, i, p)
	}

	// Cursor placement runs last so nothing repaints over it.
	if p := a.panes[a.active]; p != nil && p.offset == 0 && !p.sess.Term.CursorHidden() {
		render.Cursor(fb, p.sess.Term, a.paneGeometry(a.active))
	}

	fb.WriteString("\x1b[?2026l")
}

func (a *App) renderPane(fb *bytes.Buffer, i int, p *pane) {
	em := p.sess.Term
	histLen := len(p.hist)

	// An alternate-screen flip invalidates the diff baseline and snaps
	// the view back to the live tail.
	if em.AltScreen() != p.lastAlt {
		p.lastAlt = em.AltScreen()
		p.offset = 0
		p.snap = nil
	}
	p.offset = render.ClampOffset(p.offset, em, histLen)

	geo := a.paneGeometry(i)
	internal := em.ScrollbackLen()

	if p.offset > internal {
		top := render.HistoryTop(p.offset, em, histLen)
		render.History(fb, p.hist, top, geo)
		if a.sel != nil && a.selPane == i {
			render.Overlay(fb, render.NewHistoryView(p.hist, top, geo.Width, geo.Height), *a.sel, geo)
		}
		p.snap = nil
	} else {
		src := render.View(em, p.offset)
		p.snap = render.Pane(fb, src, p.snap, geo)
		if a.sel != nil && a.selPane == i {
			render.Overlay(fb, src, *a.sel, geo)
		}
	}

	if p.offset > 0 {
		render.Scrollbar(fb, geo, p.offset, render.TotalLines(em, histLen))
	}
}

// renderFrameChrome draws the header, footer, and two-pane separator.
func (a *App) renderFrameChrome(fb *bytes.Buffer) {
	header := " scrn"
	for i, p := range a.panes {
		if p == nil {
			continue
		}
		mark := "  "
		if a.twoPane && i == a.active {
			mark = " ▸"
		}
		name := p.name
		if t := p.sess.Term.Title(); t != "" {
			name += ": " + runewidth.Truncate(t, 40, "…")
		}
		header += mark + " " + name
	}
	fb.WriteString("\x1b[1;1H")
	fb.WriteString(headerStyle.Width(a.termW).Render(runewidth.Truncate(header, a.termW, "…")))

	footer := " Esc Esc detach · Ctrl+O list · wheel/Ctrl+E scroll"
	if a.twoPane {
		footer += " · F6 swap"
	}
	fb.WriteString(fmt.Sprintf("\x1b[%d;1H", a.termH))
	fb.WriteString(footerStyle.Width(a.termW).Render(runewidth.Truncate(footer, a.termW, "…")))

	if a.twoPane {
		rows, cols := a.ptySize()
		lw, _ := splitWidths(cols)
		sepCol := 1 + lw + 1
		sep := separatorStyle
		if a.active == 1 {
			sep = activeSepStyle
		}
		glyph := sep.Render("│")
		for y := 0; y < rows; y++ {
			fmt.Fprintf(fb, "\x1b[%d;%dH%s", y+2, sepCol, glyph)
		}
	}
}

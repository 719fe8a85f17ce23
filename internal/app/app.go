// Package app drives scrn: the session list UI and the attach engine
// with its single-threaded, frame-budgeted event loop.
package app

import (
	"bytes"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/scrn/internal/config"
	"github.com/Gaurav-Gosain/scrn/internal/input"
	"github.com/Gaurav-Gosain/scrn/internal/render"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
	"github.com/Gaurav-Gosain/scrn/internal/workspace"
)

// Mode is the UI state machine. Attach-related transitions follow
// Idle -> Attached -> Idle; everything else is list chrome.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeCreate
	ModeRename
	ModeConfirmKill
	ModeConfirmQuit
	ModeWorkspace
	ModeAttached
)

// App is the whole program state. Every field is owned by the single
// event-loop thread; nothing here is shared.
type App struct {
	cfg *config.Config

	termW, termH int

	mode     Mode
	sessions []screen.Session
	filtered []int
	selected int
	query    string
	inputBuf string
	status   string

	pins    map[string]bool
	history []string

	// Workspace picker state.
	repos   []workspace.Repo
	repoSel int

	// Shell-integration handoff. insideScreen is set when scrn itself
	// runs under a screen session (STY in the environment).
	actionFile   string
	insideScreen bool
	goHome       bool

	// Attach state.
	panes   [2]*pane
	active  int
	twoPane bool

	sel     *render.Selection
	selPane int

	lastEsc    time.Time
	escArmed   bool
	detachReq  bool
	returnReq  bool
	dirty      bool
	chromeTick bool

	decoder input.Decoder
	out     bytes.Buffer

	lastRender time.Time
	quit       bool
}

// New builds the application with config and persisted state loaded.
func New(cfg *config.Config) *App {
	a := &App{
		cfg:     cfg,
		pins:    map[string]bool{},
		history: config.LoadHistory(),
	}
	for _, p := range config.LoadPins() {
		a.pins[p] = true
	}
	a.insideScreen = os.Getenv("STY") != ""
	render.DefaultFG = rgb(cfg.Appearance.DefaultFG)
	render.DefaultBG = rgb(cfg.Appearance.DefaultBG)
	return a
}

// SetActionFile names the handoff file the shell wrapper passed in. On
// exit the file either carries the pending action or is removed.
func (a *App) SetActionFile(path string) { a.actionFile = path }

// finishActionFile settles the handoff with the shell wrapper. The
// go-home action is an empty file; no action means no file.
func (a *App) finishActionFile() {
	if a.actionFile == "" {
		return
	}
	if a.goHome {
		if err := os.WriteFile(a.actionFile, nil, 0o600); err != nil {
			log.Warn("cannot write action file", "path", a.actionFile, "err", err)
		}
		return
	}
	_ = os.Remove(a.actionFile)
}

func (a *App) frameBudget() time.Duration {
	return time.Duration(a.cfg.Timing.FrameBudgetMs) * time.Millisecond
}

func (a *App) doubleEscWindow() time.Duration {
	return time.Duration(a.cfg.Timing.DoubleEscapeMs) * time.Millisecond
}

// refreshSessions reloads the daemon's session list and reapplies
// ordering and the active filter.
func (a *App) refreshSessions() {
	sessions, err := screen.ListSessions()
	if err != nil {
		a.status = err.Error()
		sessions = nil
	}
	a.sortSessions(sessions)
	a.sessions = sessions
	a.applyFilter()
	a.chromeTick = true
}

// sortSessions orders pinned sessions first, then by attach recency,
// then by name.
func (a *App) sortSessions(sessions []screen.Session) {
	rank := func(s screen.Session) int {
		for i, h := range a.history {
			if h == s.Name {
				return i
			}
		}
		return len(a.history)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		pi, pj := a.pins[sessions[i].Name], a.pins[sessions[j].Name]
		if pi != pj {
			return pi
		}
		ri, rj := rank(sessions[i]), rank(sessions[j])
		if ri != rj {
			return ri < rj
		}
		return sessions[i].Name < sessions[j].Name
	})
}

// applyFilter recomputes the visible subset for the current query.
func (a *App) applyFilter() {
	a.filtered = a.filtered[:0]
	if a.query == "" {
		for i := range a.sessions {
			a.filtered = append(a.filtered, i)
		}
	} else {
		type scored struct{ idx, score int }
		var matches []scored
		for i := range a.sessions {
			if s, ok := fuzzyMatch(a.sessions[i].Name, a.query); ok {
				matches = append(matches, scored{i, s})
			}
		}
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].score > matches[j].score
		})
		for _, m := range matches {
			a.filtered = append(a.filtered, m.idx)
		}
	}
	if a.selected >= len(a.filtered) {
		a.selected = len(a.filtered) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

// selectedSession returns the session under the cursor, or nil.
func (a *App) selectedSession() *screen.Session {
	if a.selected < 0 || a.selected >= len(a.filtered) {
		return nil
	}
	return &a.sessions[a.filtered[a.selected]]
}

// fuzzyMatch is a subsequence match: every query rune must appear in
// order. Consecutive hits and prefix hits score higher.
func fuzzyMatch(name, query string) (int, bool) {
	if query == "" {
		return 0, true
	}
	n := strings.ToLower(name)
	q := strings.ToLower(query)

	score, last := 0, -2
	pos := 0
	for _, qr := range q {
		idx := strings.IndexRune(n[pos:], qr)
		if idx < 0 {
			return 0, false
		}
		at := pos + idx
		switch {
		case at == last+1:
			score += 3
		case at == 0:
			score += 2
		default:
			score++
		}
		last = at
		pos = at + len(string(qr))
	}
	return score, true
}

func (a *App) togglePin(name string) {
	if a.pins[name] {
		delete(a.pins, name)
	} else {
		a.pins[name] = true
	}
	pins := make([]string, 0, len(a.pins))
	for p := range a.pins {
		pins = append(pins, p)
	}
	sort.Strings(pins)
	config.SavePins(pins)
	a.sortSessions(a.sessions)
	a.applyFilter()
}

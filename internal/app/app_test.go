package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/scrn/internal/config"
	"github.com/Gaurav-Gosain/scrn/internal/input"
	"github.com/Gaurav-Gosain/scrn/internal/pty"
	"github.com/Gaurav-Gosain/scrn/internal/render"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
)

func TestFuzzyMatchSubsequence(t *testing.T) {
	_, ok := fuzzyMatch("work-backend", "wkb")
	assert.True(t, ok)

	_, ok = fuzzyMatch("work-backend", "xyz")
	assert.False(t, ok)

	// Out of order query runes must not match.
	_, ok = fuzzyMatch("abc", "cb")
	assert.False(t, ok)

	_, ok = fuzzyMatch("anything", "")
	assert.True(t, ok)
}

func TestFuzzyMatchScoring(t *testing.T) {
	consecutive, ok := fuzzyMatch("deploy", "dep")
	require.True(t, ok)
	scattered, ok := fuzzyMatch("d-e-p-x", "dep")
	require.True(t, ok)
	assert.Greater(t, consecutive, scattered)
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	_, ok := fuzzyMatch("MySession", "mys")
	assert.True(t, ok)
}

func TestSortSessionsPinsAndHistory(t *testing.T) {
	a := &App{
		pins:    map[string]bool{"zeta": true},
		history: []string{"beta", "alpha"},
	}
	sessions := []screen.Session{
		{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"}, {Name: "zeta"},
	}
	a.sortSessions(sessions)

	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	// Pinned first, then by attach recency, then alphabetical.
	assert.Equal(t, []string{"zeta", "beta", "alpha", "gamma"}, names)
}

func TestApplyFilterRanksAndClamps(t *testing.T) {
	a := &App{
		pins: map[string]bool{},
		sessions: []screen.Session{
			{Name: "deploy"}, {Name: "d-e-p"}, {Name: "other"},
		},
		selected: 2,
	}
	a.query = "dep"
	a.applyFilter()

	require.Len(t, a.filtered, 2)
	assert.Equal(t, "deploy", a.sessions[a.filtered[0]].Name)
	assert.Less(t, a.selected, len(a.filtered))
}

func TestSplitWidths(t *testing.T) {
	l, r := splitWidths(78)
	assert.Equal(t, 77, l+r)
	assert.Greater(t, l, r)

	l, r = splitWidths(5)
	assert.Equal(t, 4, l+r)

	// Degenerate widths still yield two usable panes.
	l, r = splitWidths(2)
	assert.GreaterOrEqual(t, l, 1)
	assert.GreaterOrEqual(t, r, 1)
}

func TestPtySizeFloorsAtOne(t *testing.T) {
	a := &App{termW: 2, termH: 2}
	rows, cols := a.ptySize()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, cols)
}

func TestPaneGeometrySingle(t *testing.T) {
	a := &App{termW: 80, termH: 24}
	a.panes[0] = &pane{}

	geo := a.paneGeometry(0)
	assert.Equal(t, 1, geo.X)
	assert.Equal(t, 1, geo.Y)
	assert.Equal(t, 78, geo.Width)
	assert.Equal(t, 21, geo.Height)
}

func TestPaneGeometryTwoPane(t *testing.T) {
	a := &App{termW: 80, termH: 24, twoPane: true}
	a.panes[0] = &pane{}
	a.panes[1] = &pane{}

	left := a.paneGeometry(0)
	right := a.paneGeometry(1)

	// One separator column between the panes, no overlap.
	assert.Equal(t, left.X+left.Width+1, right.X)
	assert.Equal(t, 78, left.Width+right.Width+1)
	assert.Equal(t, left.Height, right.Height)
}

func TestHitTestPane(t *testing.T) {
	a := &App{termW: 80, termH: 24, twoPane: true}
	a.panes[0] = &pane{}
	a.panes[1] = &pane{}

	leftGeo := a.paneGeometry(0)
	rightGeo := a.paneGeometry(1)

	idx, lx, ly, ok := a.hitTestPane(leftGeo.X, leftGeo.Y)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 0, lx)
	assert.Equal(t, 0, ly)

	idx, lx, ly, ok = a.hitTestPane(rightGeo.X+2, rightGeo.Y+3)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, lx)
	assert.Equal(t, 3, ly)

	// The separator column belongs to no pane.
	_, _, _, ok = a.hitTestPane(leftGeo.X+leftGeo.Width, 5)
	assert.False(t, ok)

	// Header row is outside every pane.
	_, _, _, ok = a.hitTestPane(10, 0)
	assert.False(t, ok)
}

func TestClampToPane(t *testing.T) {
	a := &App{termW: 80, termH: 24}
	a.panes[0] = &pane{}
	geo := a.paneGeometry(0)

	lx, ly := a.clampToPane(0, -5, -5)
	assert.Equal(t, 0, lx)
	assert.Equal(t, 0, ly)

	lx, ly = a.clampToPane(0, 500, 500)
	assert.Equal(t, geo.Width-1, lx)
	assert.Equal(t, geo.Height-1, ly)
}

func TestMoveSelectionBounds(t *testing.T) {
	a := &App{
		sessions: []screen.Session{{Name: "a"}, {Name: "b"}},
		filtered: []int{0, 1},
	}
	a.moveSelection(-1)
	assert.Equal(t, 0, a.selected)
	a.moveSelection(1)
	a.moveSelection(1)
	a.moveSelection(1)
	assert.Equal(t, 1, a.selected)
}

func TestTrimLastRune(t *testing.T) {
	assert.Equal(t, "ab", trimLastRune("abc"))
	assert.Equal(t, "日", trimLastRune("日本"))
	assert.Equal(t, "", trimLastRune(""))
}

func TestEncodeSgrMouse(t *testing.T) {
	press := input.MouseEvent{Kind: input.MousePress, Button: input.MouseLeft, X: 4, Y: 9}
	assert.Equal(t, "\x1b[<0;5;10M", string(encodeSgrMouse(press, 4, 9)))

	drag := input.MouseEvent{Kind: input.MouseDrag, Button: input.MouseLeft, X: 4, Y: 9}
	assert.Equal(t, "\x1b[<32;5;10M", string(encodeSgrMouse(drag, 4, 9)))

	rel := input.MouseEvent{Kind: input.MouseRelease, Button: input.MouseLeft, X: 4, Y: 9}
	assert.Equal(t, "\x1b[<0;5;10m", string(encodeSgrMouse(rel, 4, 9)))

	wheel := input.MouseEvent{Kind: input.MouseWheelUp, Button: input.MouseNone, X: 0, Y: 0}
	assert.Equal(t, "\x1b[<64;1;1M", string(encodeSgrMouse(wheel, 0, 0)))
}

func TestFrameBudgetFromConfig(t *testing.T) {
	a := New(config.Default())
	assert.Equal(t, int64(8), a.frameBudget().Milliseconds())
	assert.Equal(t, int64(300), a.doubleEscWindow().Milliseconds())
}

func testPane(t *testing.T) *pane {
	t.Helper()
	sess, err := pty.Spawn("cat", nil, 5, 20, "", 200)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return &pane{sess: sess, name: "t"}
}

func attachedApp(t *testing.T) *App {
	t.Helper()
	a := New(config.Default())
	a.termW, a.termH = 80, 24
	a.mode = ModeAttached
	a.panes[0] = testPane(t)
	return a
}

func TestDoubleEscapeDetaches(t *testing.T) {
	a := attachedApp(t)
	esc := input.KeyEvent{Code: input.KeyEsc}

	a.attachedKey(esc)
	assert.True(t, a.escArmed)
	assert.False(t, a.detachReq)

	a.attachedKey(esc)
	assert.False(t, a.escArmed)
	assert.True(t, a.detachReq)
}

func TestDoubleEscapeWindowExpires(t *testing.T) {
	a := attachedApp(t)
	esc := input.KeyEvent{Code: input.KeyEsc}

	a.attachedKey(esc)
	require.True(t, a.escArmed)

	// Outside the chord window the second press starts a new chord and
	// is forwarded like the first.
	a.lastEsc = time.Now().Add(-400 * time.Millisecond)
	a.attachedKey(esc)
	assert.False(t, a.detachReq)
	assert.True(t, a.escArmed)
}

func TestDoubleEscapeWhileScrolled(t *testing.T) {
	a := attachedApp(t)
	p := a.panes[0]
	p.hist = []string{"one", "two", "three"}
	p.offset = 3
	esc := input.KeyEvent{Code: input.KeyEsc}

	// First press snaps to the live tail instead of forwarding.
	a.attachedKey(esc)
	assert.Zero(t, p.offset)
	assert.True(t, a.escArmed)
	assert.False(t, a.detachReq)

	a.attachedKey(esc)
	assert.True(t, a.detachReq)
}

func TestNonEscapeKeyDisarmsChord(t *testing.T) {
	a := attachedApp(t)
	a.attachedKey(input.KeyEvent{Code: input.KeyEsc})
	require.True(t, a.escArmed)

	a.attachedKey(input.KeyEvent{Code: input.KeyRune, Rune: 'x'})
	assert.False(t, a.escArmed)

	a.attachedKey(input.KeyEvent{Code: input.KeyEsc})
	assert.False(t, a.detachReq)
}

func TestResizeDiscardsSnapshots(t *testing.T) {
	a := attachedApp(t)
	p := a.panes[0]
	p.hist = []string{"one", "two"}
	p.offset = 2
	p.snap = &render.Snapshot{W: 20, H: 5}
	a.sel = &render.Selection{EndRow: 1, EndCol: 3}

	a.termW, a.termH = 100, 30
	a.resizeAttached()

	assert.Nil(t, p.snap)
	assert.Zero(t, p.offset)
	assert.Nil(t, a.sel)
	rows, cols := p.sess.Size()
	assert.Equal(t, 27, rows)
	assert.Equal(t, 98, cols)
}

func TestListFrameHidesCursor(t *testing.T) {
	a := New(config.Default())
	a.termW, a.termH = 60, 20

	var fb bytes.Buffer
	a.renderList(&fb)
	out := fb.String()

	i := strings.Index(out, "\x1b[?2026h")
	require.GreaterOrEqual(t, i, 0)
	assert.True(t, strings.HasPrefix(out[i:], "\x1b[?2026h\x1b[?25l"),
		"cursor must be re-hidden inside the synchronized bracket")
}

func TestOpenWorkspaceRequiresDir(t *testing.T) {
	a := New(config.Default())
	a.openWorkspace()
	assert.NotEqual(t, ModeWorkspace, a.mode)
	assert.NotEmpty(t, a.status)
}

func TestOpenWorkspaceListsRepos(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "alpha", ".git"), 0o755))

	cfg := config.Default()
	cfg.Workspace.Dir = root
	a := New(cfg)
	a.openWorkspace()

	assert.Equal(t, ModeWorkspace, a.mode)
	require.Len(t, a.repos, 1)
	assert.Equal(t, "alpha", a.repos[0].Name)

	a.workspaceKey(input.KeyEvent{Code: input.KeyEsc})
	assert.Equal(t, ModeList, a.mode)
}

func TestGoHomeNeedsScreenSession(t *testing.T) {
	a := New(config.Default())
	a.insideScreen = false
	a.normalKey(input.KeyEvent{Code: input.KeyRune, Rune: 'g'})
	assert.False(t, a.quit)

	a.insideScreen = true
	a.normalKey(input.KeyEvent{Code: input.KeyRune, Rune: 'g'})
	assert.True(t, a.quit)
	assert.True(t, a.goHome)
}

func TestActionFileGoHomeWritesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "action")
	a := New(config.Default())
	a.SetActionFile(path)
	a.goHome = true

	a.finishActionFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestActionFileRemovedWithoutAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "action")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	a := New(config.Default())
	a.SetActionFile(path)

	a.finishActionFile()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

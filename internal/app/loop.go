package app

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/charmbracelet/log"
)

const (
	// Terminal setup: alternate screen, hidden cursor, SGR mouse
	// reporting, bracketed paste.
	initSeq = "\x1b[?1049h\x1b[?25l\x1b[?1000h\x1b[?1002h\x1b[?1006h\x1b[?2004h\x1b[2J"
	// Teardown reverses setup and resets attributes.
	teardownSeq = "\x1b[?2004l\x1b[?1006l\x1b[?1002l\x1b[?1000l\x1b[0m\x1b[?25h\x1b[?1049l"

	// idlePollTimeout is the poll wait when no pane is attached; the
	// list only changes on input or resize.
	idlePollTimeout = 100 * time.Millisecond
)

// Run puts the terminal in raw mode and drives the event loop until
// the user quits. Everything runs on this one goroutine; the SIGWINCH
// channel is the only concurrent producer and is drained non-blocking.
func (a *App) Run() error {
	stdinFd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer func() { _ = term.Restore(stdinFd, oldState) }()

	a.termW, a.termH, err = term.GetSize(stdinFd)
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	_, _ = os.Stdout.WriteString(initSeq)
	defer func() { _, _ = os.Stdout.WriteString(teardownSeq) }()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, unix.SIGWINCH)
	defer signal.Stop(winch)

	a.refreshSessions()
	a.chromeTick = true

	stdinBuf := make([]byte, 4096)
	for !a.quit {
		a.step(stdinFd, winch, stdinBuf)
	}

	for i := range a.panes {
		a.teardownPane(i)
	}
	a.finishActionFile()
	return nil
}

// step is one loop iteration: absorb a pending resize, drain child
// output, render if anything changed and the frame budget allows,
// honor a pending detach, then block on readiness and dispatch.
func (a *App) step(stdinFd int, winch <-chan os.Signal, stdinBuf []byte) {
	select {
	case <-winch:
		a.handleResize(stdinFd)
	default:
	}

	if a.drainPanes() {
		a.dirty = true
	}

	if a.shouldRender() {
		a.render()
	}

	if a.detachReq || a.returnReq {
		a.Detach()
	}

	a.pollAndDispatch(stdinFd, stdinBuf)
}

// handleResize re-reads the terminal size and propagates it.
func (a *App) handleResize(stdinFd int) {
	w, h, err := term.GetSize(stdinFd)
	if err != nil || (w == a.termW && h == a.termH) {
		return
	}
	a.termW, a.termH = w, h
	if a.mode == ModeAttached {
		a.resizeAttached()
	}
	a.chromeTick = true
	_, _ = os.Stdout.WriteString("\x1b[2J")
}

// drainPanes pulls all pending child output and culls dead panes.
func (a *App) drainPanes() bool {
	if a.mode != ModeAttached {
		return false
	}
	dirty := false
	for _, p := range a.panes {
		if p == nil {
			continue
		}
		if p.sess.TryRead() {
			dirty = true
		}
		if !p.dead && !p.sess.IsRunning() {
			p.dead = true
		}
	}

	// A dead pane means screen detached or the session died. With a
	// survivor the remaining pane takes over; otherwise back to the
	// list.
	for i, p := range a.panes {
		if p == nil || !p.dead {
			continue
		}
		if a.twoPane && a.panes[1-i] != nil && !a.panes[1-i].dead {
			a.dropPane(i)
			return true
		}
		a.returnReq = true
	}
	return dirty
}

// shouldRender gates drawing on dirtiness and the frame budget. The
// dirty flag persists across iterations so a deferred frame is not
// lost when no further bytes arrive.
func (a *App) shouldRender() bool {
	if !a.dirty && !a.chromeTick {
		return false
	}
	return time.Since(a.lastRender) >= a.frameBudget()
}

// pollAndDispatch blocks on stdin and every pane fd, then routes
// whatever became ready.
func (a *App) pollAndDispatch(stdinFd int, stdinBuf []byte) {
	fds := []unix.PollFd{{Fd: int32(stdinFd), Events: unix.POLLIN}}
	if a.mode == ModeAttached {
		for _, p := range a.panes {
			if p != nil {
				fds = append(fds, unix.PollFd{Fd: int32(p.sess.Fd()), Events: unix.POLLIN})
			}
		}
	}

	timeout := idlePollTimeout
	if a.mode == ModeAttached {
		timeout = a.frameBudget()
		if a.dirty || a.chromeTick {
			// A render is pending; wake at the frame boundary.
			if rem := a.frameBudget() - time.Since(a.lastRender); rem > 0 && rem < timeout {
				timeout = rem
			}
		}
	}

	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil && err != unix.EINTR {
		log.Error("poll failed", "err", err)
		a.quit = true
		return
	}
	if n <= 0 {
		return
	}

	// Pane readability is consumed by the next step's drain; only
	// stdin needs handling here.
	if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
		return
	}
	rn, err := unix.Read(stdinFd, stdinBuf)
	if rn <= 0 {
		if err != nil && err != unix.EAGAIN && err != unix.EINTR {
			a.quit = true
		}
		return
	}
	for _, ev := range a.decoder.Feed(stdinBuf[:rn]) {
		a.dispatch(ev)
	}
}

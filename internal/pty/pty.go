// Package pty owns one live attached pane: the pseudoterminal pair,
// the child process on its slave side, and the terminal-state model
// that absorbs its output.
package pty

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

const (
	// writePollTimeout caps a single write-readiness wait. Retries are
	// unbounded; see Session.WriteAll.
	writePollTimeout = 100 * time.Millisecond

	// teardownDeadline bounds the graceful-exit wait before SIGKILL.
	teardownDeadline = 100 * time.Millisecond

	readBufSize = 64 * 1024
)

// Session is one PTY-backed child process with its terminal-state
// model. Exactly one Session maps to one child and one model; the
// model's grid always matches the last successful resize.
type Session struct {
	ptmx *os.File
	fd   int
	cmd  *exec.Cmd

	// Term is the terminal-state model fed by TryRead.
	Term *vt.Emulator

	rows, cols int
	readBuf    []byte

	reaped bool
	eof    bool
}

// Spawn allocates a PTY pair sized rows x cols, starts program on the
// slave side in its own session group, and seeds the terminal-state
// model at the same size. dir may be empty.
func Spawn(program string, args []string, rows, cols int, dir string, scrollbackLines int) (*Session, error) {
	cmd := exec.Command(program, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = childEnv(os.Environ())

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", program, err)
	}

	fd := int(ptmx.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("set nonblocking: %w", err)
	}

	return &Session{
		ptmx:    ptmx,
		fd:      fd,
		cmd:     cmd,
		Term:    vt.NewWithScrollback(cols, rows, scrollbackLines),
		rows:    rows,
		cols:    cols,
		readBuf: make([]byte, readBufSize),
	}, nil
}

// childEnv scrubs inherited multiplexer identity and pins terminal
// capability variables.
func childEnv(env []string) []string {
	out := make([]string, 0, len(env)+2)
	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "STY="),
			strings.HasPrefix(kv, "WINDOW="),
			strings.HasPrefix(kv, "TERM="),
			strings.HasPrefix(kv, "COLORTERM="):
		default:
			out = append(out, kv)
		}
	}
	return append(out, "TERM=xterm-256color", "COLORTERM=truecolor")
}

// Fd returns the master-side descriptor for readiness polling.
func (s *Session) Fd() int { return s.fd }

// Size returns the current PTY dimensions.
func (s *Session) Size() (rows, cols int) { return s.rows, s.cols }

// TryRead drains every currently available byte from the master into
// the terminal-state model without blocking. It reports whether any
// bytes arrived.
func (s *Session) TryRead() bool {
	dirty := false
	for {
		n, err := unix.Read(s.fd, s.readBuf)
		if n > 0 {
			_, _ = s.Term.Write(s.readBuf[:n])
			dirty = true
		}
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				if err == unix.EINTR {
					continue
				}
				return dirty
			}
			// EIO means the slave side closed; any other failure is
			// treated the same as a child exit.
			s.eof = true
			return dirty
		}
		if n == 0 {
			s.eof = true
			return dirty
		}
	}
}

// WriteAll writes b to the child, waiting for write readiness in
// 100ms slices on backpressure. There is no cap on the number of
// retries; on a non-recoverable error the remaining bytes are dropped.
func (s *Session) WriteAll(b []byte) {
	for len(b) > 0 {
		n, err := unix.Write(s.fd, b)
		if n > 0 {
			b = b[n:]
			continue
		}
		if err == unix.EAGAIN {
			fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLOUT}}
			_, _ = unix.Poll(fds, int(writePollTimeout.Milliseconds()))
			continue
		}
		if err == unix.EINTR {
			continue
		}
		log.Debug("pty write failed, dropping input", "err", err, "dropped", len(b))
		return
	}
}

// Resize drains pending output at the old size, resizes the model and
// the PTY, and nudges the child with SIGWINCH in case the kernel
// notification was coalesced away.
func (s *Session) Resize(rows, cols int) error {
	s.TryRead()
	s.Term.Resize(cols, rows)
	s.rows, s.cols = rows, cols

	if err := pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("pty resize: %w", err)
	}
	if s.IsRunning() {
		_ = s.cmd.Process.Signal(unix.SIGWINCH)
	}
	return nil
}

// IsRunning is a non-blocking liveness check. A reaped child, or a
// master read that hit EOF, counts as not running.
func (s *Session) IsRunning() bool {
	if s.reaped {
		return false
	}
	if s.eof {
		return false
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(s.cmd.Process.Pid, &ws, unix.WNOHANG, nil)
	if err == unix.ECHILD || (err == nil && pid == s.cmd.Process.Pid) {
		s.reaped = true
		return false
	}
	return true
}

// Close tears the session down: graceful signal, bounded wait, then
// SIGKILL and a blocking reap. No PTY handle or zombie outlives it.
func (s *Session) Close() {
	defer func() { _ = s.ptmx.Close() }()

	if s.reaped {
		return
	}
	if exited := s.reap(unix.WNOHANG); exited {
		return
	}

	_ = s.cmd.Process.Signal(unix.SIGTERM)
	deadline := time.Now().Add(teardownDeadline)
	for time.Now().Before(deadline) {
		if s.reap(unix.WNOHANG) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}

	_ = s.cmd.Process.Kill()
	s.reap(0)
}

// reap waits on the child with the given flags, recording success.
func (s *Session) reap(flags int) bool {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(s.cmd.Process.Pid, &ws, flags, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECHILD || (err == nil && pid == s.cmd.Process.Pid) {
			s.reaped = true
			return true
		}
		return false
	}
}

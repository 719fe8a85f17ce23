// Package screen talks to GNU Screen, the session daemon behind scrn:
// enumerating, creating, renaming, and killing sessions, and managing
// the screenrc that scrn attaches with.
package screen

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SessionState is the daemon-reported attachment state.
type SessionState string

const (
	StateAttached SessionState = "Attached"
	StateDetached SessionState = "Detached"
)

// Session is one live screen session. PidName is the daemon's
// "<pid>.<name>" identifier and is what every mutating call takes.
type Session struct {
	Name    string
	PidName string
	State   SessionState
}

const minScreenMajor = 5

const installHint = "GNU Screen is not installed.\n\n" +
	"Install it with:\n" +
	"  macOS:  brew install screen\n" +
	"  Linux:  apt install screen  (or your distro's package manager)"

// CheckVersion verifies GNU Screen is installed and new enough for
// truecolor passthrough.
func CheckVersion() error {
	out, err := exec.Command("screen", "--version").Output()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s", installHint)
		}
		return fmt.Errorf("run screen: %w", err)
	}

	// "Screen version 5.0.1 ..." or "Screen version 4.00.03 (FAU) ...".
	fields := strings.Fields(string(out))
	version := "unknown"
	if len(fields) >= 3 {
		version = fields[2]
	}
	major := 0
	if i := strings.IndexByte(version, '.'); i > 0 {
		major, _ = strconv.Atoi(version[:i])
	}

	if major < minScreenMajor {
		return fmt.Errorf(
			"GNU Screen %s is too old. scrn requires Screen 5.0+ for truecolor support.\n\n"+
				"Your screen: %s\nRequired:    5.0+\n\n"+
				"Upgrade with:\n  macOS:  brew install screen\n"+
				"  Linux:  build from source (https://ftp.gnu.org/gnu/screen/)",
			version, version)
	}
	return nil
}

// ListSessions parses `screen -ls`. Screen exits nonzero when sessions
// exist, so the exit code is ignored and only the output matters.
func ListSessions() ([]Session, error) {
	out, err := exec.Command("screen", "-ls").Output()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s", installHint)
		}
		if ee, ok := err.(*exec.ExitError); ok {
			out = append(out, ee.Stderr...)
			err = nil
		}
		if err != nil {
			return nil, fmt.Errorf("run screen: %w", err)
		}
	}
	return parseSessions(string(out)), nil
}

// parseSessions extracts socket lines of the form
// "\t<pid>.<name>\t(<date>)\t(<State>)", skipping dead sessions.
func parseSessions(text string) []Session {
	if strings.Contains(text, "No Sockets found") || strings.TrimSpace(text) == "" {
		return nil
	}

	var sessions []Session
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(line, "\t") {
			continue
		}

		parts := strings.Split(trimmed, "\t")
		if len(parts) < 2 {
			continue
		}

		pidName := strings.TrimSpace(parts[0])
		dot := strings.IndexByte(pidName, '.')
		if dot < 0 {
			continue
		}

		rest := strings.Join(parts[1:], "\t")
		if strings.Contains(rest, "Dead") {
			continue
		}

		state := StateDetached
		if strings.Contains(rest, "Attached") {
			state = StateAttached
		}

		sessions = append(sessions, Session{
			Name:    pidName[dot+1:],
			PidName: pidName,
			State:   state,
		})
	}
	return sessions
}

// CreateSession starts a detached session under scrn's screenrc.
func CreateSession(name string) error {
	return createSession(name, "")
}

// CreateSessionInDir starts a detached session with the given working
// directory.
func CreateSessionInDir(name, dir string) error {
	return createSession(name, dir)
}

func createSession(name, dir string) error {
	rc := EnsureScreenrc()
	cmd := exec.Command("screen", "-c", rc, "-dmS", name)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "COLORTERM=truecolor")
	return runScreen(cmd, "create session")
}

// KillSession asks the daemon to quit the session.
func KillSession(pidName string) error {
	return runScreen(exec.Command("screen", "-X", "-S", pidName, "quit"), "kill session")
}

// RenameSession changes the daemon-side session name.
func RenameSession(pidName, newName string) error {
	return runScreen(exec.Command("screen", "-S", pidName, "-X", "sessionname", newName), "rename session")
}

func runScreen(cmd *exec.Cmd, action string) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s: %s", action, msg)
	}
	return nil
}

// EnsureScreenrc writes scrn's managed screenrc and returns its path.
// It sources the user's ~/.screenrc when present and enables truecolor
// passthrough, the same thing tmux and zellij do out of the box.
func EnsureScreenrc() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".config", "scrn")
	_ = os.MkdirAll(dir, 0o755)
	path := filepath.Join(dir, "screenrc")

	var content strings.Builder
	userRC := filepath.Join(home, ".screenrc")
	if _, err := os.Stat(userRC); err == nil {
		fmt.Fprintf(&content, "source %s\n", userRC)
	}
	content.WriteString("truecolor on\n")

	_ = os.WriteFile(path, []byte(content.String()), 0o644)
	return path
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

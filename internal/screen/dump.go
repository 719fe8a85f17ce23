package screen

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// hardcopySettle gives the daemon time to write the hardcopy file;
// `screen -X` returns before the command has run in the session.
const hardcopySettle = 150 * time.Millisecond

// DumpScrollback captures the session's existing scrollback as plain
// text, one line per entry, oldest first. It is called once at attach;
// failures degrade to an empty dump so the attach still proceeds.
func DumpScrollback(pidName string) []string {
	path := filepath.Join(os.TempDir(), "scrn-hardcopy-"+uuid.NewString())
	defer os.Remove(path)

	// -h includes the scrollback buffer above the visible screen.
	cmd := exec.Command("screen", "-X", "-S", pidName, "hardcopy", "-h", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Debug("hardcopy failed", "session", pidName, "err", err, "out", strings.TrimSpace(string(out)))
		return nil
	}

	var data []byte
	deadline := time.Now().Add(hardcopySettle)
	for {
		b, err := os.ReadFile(path)
		if err == nil && len(b) > 0 {
			data = b
			break
		}
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(data) == 0 {
		return nil
	}

	return trimDump(strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"))
}

// trimDump drops the blank padding hardcopy emits above and below the
// captured content, keeping interior blank lines.
func trimDump(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	for i, l := range lines[start:end] {
		out[i] = strings.TrimRight(l, " \t")
	}
	return out
}

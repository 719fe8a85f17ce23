package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// maxHistory caps the attach-history file.
const maxHistory = 50

// LoadHistory returns recently attached session names, most recent
// first.
func LoadHistory() []string {
	return readLines(filepath.Join(StateDir(), "history"))
}

// RecordAttach moves name to the front of the history and persists it.
func RecordAttach(name string) {
	hist := LoadHistory()
	out := make([]string, 0, len(hist)+1)
	out = append(out, name)
	for _, h := range hist {
		if h != name {
			out = append(out, h)
		}
	}
	if len(out) > maxHistory {
		out = out[:maxHistory]
	}
	writeLines(filepath.Join(StateDir(), "history"), out)
}

// LoadPins returns the pinned session names.
func LoadPins() []string {
	return readLines(filepath.Join(StateDir(), "pins"))
}

// SavePins persists the pinned session names.
func SavePins(pins []string) {
	writeLines(filepath.Join(StateDir(), "pins"), pins)
}

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func writeLines(path string, lines []string) {
	data := strings.Join(lines, "\n")
	if data != "" {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		log.Warn("cannot write state file", "path", path, "err", err)
	}
}

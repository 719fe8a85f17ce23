// Package workspace scans a directory tree for git repositories so
// sessions can be created rooted at a project directory.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Repo is one discovered repository.
type Repo struct {
	Name string
	Path string
	// Group is the path from the workspace root to the repo's parent,
	// used as a display prefix ("" for top-level repos).
	Group string
}

// Scan walks root for directories containing .git, sorted by group
// then name. Repos are not descended into; hidden directories are
// skipped. An unreadable directory is silently pruned.
func Scan(root string) []Repo {
	var repos []Repo
	scanDir(root, root, &repos)
	sort.SliceStable(repos, func(i, j int) bool {
		gi, gj := strings.ToLower(repos[i].Group), strings.ToLower(repos[j].Group)
		if gi != gj {
			return gi < gj
		}
		return strings.ToLower(repos[i].Name) < strings.ToLower(repos[j].Name)
	})
	return repos
}

func scanDir(root, dir string, repos *[]Repo) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			group := ""
			if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
				group = rel
			}
			*repos = append(*repos, Repo{Name: entry.Name(), Path: path, Group: group})
			continue
		}
		scanDir(root, path, repos)
	}
}

// Display is the list label for a repo: the group prefix, when any,
// followed by the name.
func (r Repo) Display() string {
	if r.Group == "" {
		return r.Name
	}
	return r.Group + "/" + r.Name
}

package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkRepo(t *testing.T, root string, parts ...string) {
	t.Helper()
	dir := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
}

func TestScanFindsNestedRepos(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, "alpha")
	mkRepo(t, root, "work", "zeta")
	mkRepo(t, root, "work", "beta")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "deep"), 0o755))

	repos := Scan(root)
	require.Len(t, repos, 3)

	// Sorted by group then name; top-level group is empty.
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, "", repos[0].Group)
	assert.Equal(t, "beta", repos[1].Name)
	assert.Equal(t, "work", repos[1].Group)
	assert.Equal(t, "zeta", repos[2].Name)

	assert.Equal(t, "alpha", repos[0].Display())
	assert.Equal(t, "work/beta", repos[1].Display())
}

func TestScanStopsAtRepoBoundary(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, "outer")
	// A repo nested inside another repo must not be reported.
	mkRepo(t, root, "outer", "vendored")

	repos := Scan(root)
	require.Len(t, repos, 1)
	assert.Equal(t, "outer", repos[0].Name)
}

func TestScanSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, ".config", "secret")

	assert.Empty(t, Scan(root))
}

func TestScanMissingRoot(t *testing.T) {
	assert.Empty(t, Scan(filepath.Join(t.TempDir(), "nope")))
}

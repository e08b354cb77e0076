package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T, extra ...string) *Workspace {
	t.Helper()
	ws, err := New(t.TempDir(), extra)
	require.NoError(t, err)
	return ws
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestWriteAndReadFile(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("src/main.py", "print('hi')"))

	content, err := ws.ReadFile("src/main.py")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", content)
	assert.True(t, ws.FileExists("src/main.py"))
	assert.False(t, ws.FileExists("src/other.py"))
}

func TestResolveRejectsEscapes(t *testing.T) {
	ws := newTestWorkspace(t)

	for _, p := range []string{
		"../outside.txt",
		"a/../../outside.txt",
		"/etc/passwd",
	} {
		_, err := ws.Resolve(p)
		assert.ErrorIs(t, err, ErrOutsideWorkspace, "path %q", p)
	}

	// The root itself and clean relative paths are fine.
	_, err := ws.Resolve(".")
	assert.NoError(t, err)
	_, err = ws.Resolve("a/b/../c.txt")
	assert.NoError(t, err)
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("outside-data"), 0o644))

	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linkdir")))

	ws, err := New(root, nil)
	require.NoError(t, err)

	// A link to an outside file must not be readable.
	_, err = ws.Resolve("link.txt")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
	_, err = ws.ReadFile("link.txt")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)

	// A link to an outside directory must not be writable through, even for
	// files that do not exist yet.
	err = ws.WriteFile("linkdir/evil.txt", "x")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)

	// A dangling link must not be writable either: the write would create
	// its target outside the workspace.
	require.NoError(t, os.Symlink(filepath.Join(outside, "not-yet.txt"), filepath.Join(root, "dangle.txt")))
	err = ws.WriteFile("dangle.txt", "x")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestResolveAllowsSymlinkInsideWorkspace(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("real.txt", "data"))
	require.NoError(t, os.Symlink(filepath.Join(ws.Root(), "real.txt"), filepath.Join(ws.Root(), "alias.txt")))

	content, err := ws.ReadFile("alias.txt")
	require.NoError(t, err)
	assert.Equal(t, "data", content)
}

func TestReadRejectsEscape(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.ReadFile("../../etc/hosts")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
	err = ws.WriteFile("../evil.txt", "x")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestListFilesRecursive(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a.py", ""))
	require.NoError(t, ws.WriteFile("pkg/b.py", ""))
	require.NoError(t, ws.WriteFile("pkg/c.txt", ""))

	files, err := ws.ListFiles("*.py", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", filepath.Join("pkg", "b.py")}, files)
}

func TestListFilesNonRecursive(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a.py", ""))
	require.NoError(t, ws.WriteFile("pkg/b.py", ""))

	files, err := ws.ListFiles("*.py", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files)
}

func TestListFilesAppliesIgnores(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("keep.py", ""))
	require.NoError(t, ws.WriteFile("__pycache__/skip.pyc", ""))
	require.NoError(t, ws.WriteFile("node_modules/lib/skip.py", ""))

	files, err := ws.ListFiles("*", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.py"}, files)
}

func TestExtraIgnorePatterns(t *testing.T) {
	ws := newTestWorkspace(t, "*.secret")
	require.NoError(t, ws.WriteFile("ok.txt", ""))
	require.NoError(t, ws.WriteFile("key.secret", ""))

	files, err := ws.ListFiles("*", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.txt"}, files)
}

func TestGitignoreFileRespected(t *testing.T) {
	root := t.TempDir()
	ws, err := New(root, nil)
	require.NoError(t, err)
	require.NoError(t, ws.WriteFile(".gitignore", "build/\n"))
	require.NoError(t, ws.WriteFile("build/out.bin", ""))
	require.NoError(t, ws.WriteFile("src.go", ""))

	// Rules are compiled at construction, so rebuild.
	ws, err = New(root, nil)
	require.NoError(t, err)

	files, err := ws.ListFiles("*", true)
	require.NoError(t, err)
	assert.NotContains(t, files, filepath.Join("build", "out.bin"))
	assert.Contains(t, files, "src.go")
}

func TestInfo(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("doc.md", "hello"))

	info, err := ws.Info("doc.md")
	require.NoError(t, err)
	assert.True(t, info.IsFile)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, ".md", info.Extension)
}

func TestSearchSubstring(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a.py", "def handler():\n    return TODO\n"))
	require.NoError(t, ws.WriteFile("b.py", "x = 1\n"))

	matches, err := ws.Search("todo", "", false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.py", matches[0].Path)
	assert.Equal(t, 2, matches[0].Line)
}

func TestSearchRegex(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a.go", "func Alpha() {}\nfunc beta() {}\n"))

	matches, err := ws.Search(`func [A-Z]\w*`, "*.go", true)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Line)
}

func TestSearchBadRegex(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.Search("[unclosed", "", true)
	assert.Error(t, err)
}

func TestCountLines(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a.py", "# comment\n\nx = 1\ny = 2\n"))

	stats, err := ws.CountLines("*.py")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 4, stats.TotalLines)
	assert.Equal(t, 2, stats.CodeLines)
	assert.Equal(t, 1, stats.CommentLines)
	assert.Equal(t, 1, stats.BlankLines)
}

func TestTree(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("src/app.py", ""))
	require.NoError(t, ws.WriteFile("readme.md", ""))

	tree := ws.Tree(0)
	assert.Contains(t, tree, "src")
	assert.Contains(t, tree, "app.py")
	assert.Contains(t, tree, "readme.md")
	assert.Contains(t, tree, "└──")
}

func TestTreeDepthLimit(t *testing.T) {
	ws := newTestWorkspace(t)
	require.NoError(t, ws.WriteFile("a/b/c/deep.txt", ""))

	tree := ws.Tree(1)
	assert.Contains(t, tree, "a")
	assert.NotContains(t, tree, "deep.txt")
}

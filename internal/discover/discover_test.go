package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFilesWalkFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "export const x = 1\n")
	writeFile(t, root, "src/util.py", "def f():\n    pass\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/react/index.js", "module.exports = {}\n")
	writeFile(t, root, ".hidden/secret.ts", "export const y = 2\n")

	paths, err := Files(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts", "src/util.py"}, paths)
}

func TestFilesLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.rs", "pub fn b() {}\n")

	paths, err := Files(root, Options{Languages: []string{"rust"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.rs"}, paths)
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestFilesRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.ts", "export const x = 1\n")

	_, err := Files(filepath.Join(root, "f.ts"), Options{})
	assert.Error(t, err)
}

func TestLanguage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "m.go", "package m\n")

	lang, ok := Language(root, "m.go")
	require.True(t, ok)
	assert.Equal(t, "go", lang)

	_, ok = Language(root, "m.txt")
	assert.False(t, ok)
}

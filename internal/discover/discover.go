// Package discover enumerates the source files of an analysis root.
// Inside a git repository it defers to git ls-files so .gitignore is
// respected; elsewhere it falls back to a filesystem walk that skips
// hidden and dependency directories. Either way the result is a sorted
// list of root-relative slash paths.
package discover

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/treeline-dev/treeline/internal/extract"
)

// skipDirs are excluded from the walk fallback.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"target":       true,
	"dist":         true,
}

// Options filters discovery output.
type Options struct {
	// Languages restricts results to the named languages. Nil means
	// every language with a registered extractor.
	Languages []string
}

// Files lists the analyzable source files under root. Paths come back
// relative to root, slash-separated and sorted. Returns an error if
// root does not exist or is not a directory.
func Files(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover: %s is not a directory", root)
	}

	wanted := languageFilter(opts.Languages)

	paths, err := gitListFiles(root)
	if err != nil {
		// Not a git repo or git not available.
		paths, err = walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}

	out := paths[:0]
	for _, rel := range paths {
		lang, ok := languageOf(root, rel)
		if !ok {
			continue
		}
		if wanted != nil && !wanted[lang] {
			continue
		}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

// Language reports the analyzed language of a root-relative path, or
// false when no extractor handles it.
func Language(root, rel string) (string, bool) {
	return languageOf(root, rel)
}

// languageOf maps a file to its language, preferring the extension
// table and falling back to enry content detection for ambiguous
// extensions. Files enry flags as generated are skipped.
func languageOf(root, rel string) (string, bool) {
	lang, ok := extract.LanguageForFile(rel)
	if !ok {
		return "", false
	}
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err == nil {
		if enry.IsGenerated(rel, content) {
			return "", false
		}
		if detected, safe := enry.GetLanguageByContent(rel, content); safe {
			if normalized, ok := normalizeEnry(detected); ok && normalized != lang {
				// Content detection disagrees with the extension, e.g. a
				// TypeScript-flavored .js file. Trust the content.
				lang = normalized
			}
		}
	}
	return lang, true
}

func normalizeEnry(name string) (string, bool) {
	switch name {
	case "Go":
		return "go", true
	case "Python":
		return "python", true
	case "Rust":
		return "rust", true
	case "JavaScript":
		return "javascript", true
	case "TypeScript", "TSX":
		return "typescript", true
	}
	return "", false
}

func languageFilter(langs []string) map[string]bool {
	if langs == nil {
		return nil
	}
	m := make(map[string]bool, len(langs))
	for _, l := range langs {
		m[strings.ToLower(l)] = true
	}
	return m
}

// gitListFiles discovers tracked plus untracked-but-not-ignored files.
func gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, filepath.ToSlash(line))
	}
	return paths, nil
}

// walkListFiles is the non-git fallback. Skips hidden directories and
// the usual dependency/build directories.
func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

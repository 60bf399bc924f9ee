// Package classify decides which role a module plays during
// cross-referencing: test file, entry point, or command surface. Each
// predicate has a built-in default and can be replaced by a Risor
// expression from configuration, so a repository with unusual layout
// conventions can reshape gap detection without forking the analyzer.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// Classifier answers the role questions for one analysis run. The
// zero-value-ish classifier from New with empty scripts uses the
// built-in heuristics only.
type Classifier struct {
	entryPoints  map[string]bool
	surfaceKinds map[string]bool

	testScript  string
	entryScript string
}

// Options configures a Classifier.
type Options struct {
	// EntryPoints are module ids that are always considered externally
	// reachable, in addition to the basename defaults.
	EntryPoints []string
	// SurfaceKinds are the export kinds subject to undocumented-export
	// detection. Empty means every kind is public surface.
	SurfaceKinds []string
	// TestScript and EntryScript are optional Risor expressions. Each
	// is evaluated with `path` and `module` globals and must yield a
	// bool; evaluation errors fail the predicate closed (false).
	TestScript  string
	EntryScript string
}

// New builds a Classifier from options.
func New(opts Options) *Classifier {
	c := &Classifier{
		entryPoints: make(map[string]bool, len(opts.EntryPoints)),
		testScript:  opts.TestScript,
		entryScript: opts.EntryScript,
	}
	for _, id := range opts.EntryPoints {
		c.entryPoints[id] = true
	}
	if len(opts.SurfaceKinds) > 0 {
		c.surfaceKinds = make(map[string]bool, len(opts.SurfaceKinds))
		for _, kind := range opts.SurfaceKinds {
			c.surfaceKinds[kind] = true
		}
	}
	return c
}

// IsTestFile reports whether the file at path holds tests. The default
// heuristic matches conventional test directories and test-suffix
// filenames across the supported languages.
func (c *Classifier) IsTestFile(ctx context.Context, path string) bool {
	if c.testScript != "" {
		return c.evalBool(ctx, c.testScript, path, "")
	}
	return defaultIsTestFile(path)
}

// IsEntryPoint reports whether the module is externally reachable on
// its own, exempting its exports from dead-export detection. The
// configured entry-point list always applies; a script replaces only
// the basename heuristic.
func (c *Classifier) IsEntryPoint(ctx context.Context, path, module string) bool {
	if c.entryPoints[module] {
		return true
	}
	if c.entryScript != "" {
		return c.evalBool(ctx, c.entryScript, path, module)
	}
	return defaultIsEntryPoint(path) || defaultIsEntryPoint(module)
}

// IsSurfaceKind reports whether an export kind belongs to the public
// surface checked for documentation.
func (c *Classifier) IsSurfaceKind(kind string) bool {
	if c.surfaceKinds == nil {
		return true
	}
	return c.surfaceKinds[kind]
}

func (c *Classifier) evalBool(ctx context.Context, script, path, module string) bool {
	result, err := risor.Eval(ctx, script,
		risor.WithGlobal("path", path),
		risor.WithGlobal("module", module),
	)
	if err != nil {
		return false
	}
	b, ok := result.(*object.Bool)
	return ok && b.Value()
}

var testDirSegments = []string{"/test/", "/tests/", "/__tests__/", "/spec/"}

var testNameInfixes = []string{"_test.", ".test.", "_spec.", ".spec."}

func defaultIsTestFile(path string) bool {
	p := "/" + strings.ReplaceAll(path, "\\", "/")
	for _, seg := range testDirSegments {
		if strings.Contains(p, seg) {
			return true
		}
	}
	base := p[strings.LastIndex(p, "/")+1:]
	for _, infix := range testNameInfixes {
		if strings.Contains(base, infix) {
			return true
		}
	}
	// Python convention: test_*.py.
	return strings.HasPrefix(base, "test_")
}

var entryBasenames = map[string]bool{"main": true, "index": true}

// defaultIsEntryPoint matches the main/index naming convention against
// a path or module id, stripping any extension first.
func defaultIsEntryPoint(pathOrModule string) bool {
	base := pathOrModule
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return entryBasenames[base]
}

// ValidateScript compiles-by-evaluating a predicate script against a
// dummy input so configuration errors surface before a run starts.
func ValidateScript(ctx context.Context, script string) error {
	if script == "" {
		return nil
	}
	result, err := risor.Eval(ctx, script,
		risor.WithGlobal("path", "probe.ts"),
		risor.WithGlobal("module", "probe"),
	)
	if err != nil {
		return fmt.Errorf("classify: predicate script: %w", err)
	}
	if _, ok := result.(*object.Bool); !ok {
		return fmt.Errorf("classify: predicate script must evaluate to bool, got %s", result.Type())
	}
	return nil
}

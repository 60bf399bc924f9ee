package treeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/treeline-dev/treeline/internal/classify"
	"github.com/treeline-dev/treeline/internal/discover"
	"github.com/treeline-dev/treeline/internal/graph"
	"github.com/treeline-dev/treeline/internal/record"
	"github.com/treeline-dev/treeline/internal/resolve"
)

// Config is the externally supplied run configuration. The zero value
// means defaults everywhere.
type Config struct {
	// Workers bounds the extraction pool. <= 0 means one per CPU.
	Workers int
	// Languages restricts analysis to the named languages.
	Languages []string
	// Extensions and IndexNames drive relative import probing. Empty
	// means the built-in defaults for the supported languages.
	Extensions []string
	IndexNames []string
	// EntryPoints lists module ids exempt from dead-export detection,
	// in addition to the main/index basename convention.
	EntryPoints []string
	// SurfaceKinds narrows undocumented-export detection to the named
	// export kinds. Empty means every kind.
	SurfaceKinds []string
	// TestScript and EntryScript replace the built-in test-file and
	// entry-point heuristics with Risor predicates. The EntryPoints
	// list applies either way.
	TestScript  string
	EntryScript string
}

// Engine runs analyses. It is stateless between runs; every Analyze
// call produces an independent Analysis.
type Engine struct {
	cfg Config
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the extraction worker pool.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.cfg.Workers = n }
}

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) { e.cfg.Languages = languages }
}

// WithConfig replaces the whole configuration. Later options still
// apply on top.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConfigurationError reports unusable run input: a missing root, an
// empty tree, or an invalid predicate script. Distinguished from
// per-file degradation, which never surfaces as an error.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "treeline: " + e.Reason
}

// Analysis is the complete, immutable result of one run. All slices
// are in canonical sorted order; queries never mutate it, so it is
// safe for concurrent readers.
type Analysis struct {
	Root    string
	Records []record.FileRecord
	Graph   *record.ModuleGraph
	Index   graph.ExportIndex

	files      *resolve.FileSet
	classifier *classify.Classifier
	gaps       []record.Gap
}

// ModuleID maps a root-relative path to its module id.
func (a *Analysis) ModuleID(path string) (string, bool) {
	return a.files.ModuleID(path)
}

// FailedFiles lists the records that degraded during extraction.
func (a *Analysis) FailedFiles() []record.FileRecord {
	var failed []record.FileRecord
	for _, rec := range a.Records {
		if rec.Status == record.StatusFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}

// Analyze runs the full pipeline over the tree rooted at root. A
// cancelled context discards all partial state and returns ctx.Err().
// Per-file parse failures degrade to failed records instead of
// aborting the run.
func (e *Engine) Analyze(ctx context.Context, root string) (*Analysis, error) {
	for _, script := range []string{e.cfg.TestScript, e.cfg.EntryScript} {
		if err := classify.ValidateScript(ctx, script); err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}
	}

	paths, err := discover.Files(root, discover.Options{Languages: e.cfg.Languages})
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if len(paths) == 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("no analyzable files under %s", root)}
	}

	resolveOpts := resolve.DefaultOptions()
	if len(e.cfg.Extensions) > 0 {
		resolveOpts.Extensions = e.cfg.Extensions
	}
	if len(e.cfg.IndexNames) > 0 {
		resolveOpts.IndexNames = e.cfg.IndexNames
	}
	files := resolve.NewFileSet(paths, resolveOpts)

	records, err := e.extractAll(ctx, root, paths)
	if err != nil {
		return nil, err
	}

	// Resolution is pure: each import depends only on its specifier,
	// its file's path, and the complete file set.
	for i := range records {
		for j := range records[i].Imports {
			imp := &records[i].Imports[j]
			imp.Resolution = files.Resolve(imp.Specifier, records[i].Path)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	g, idx := graph.Build(records, files)

	a := &Analysis{
		Root:    root,
		Records: records,
		Graph:   g,
		Index:   idx,
		files:   files,
		classifier: classify.New(classify.Options{
			EntryPoints:  e.cfg.EntryPoints,
			SurfaceKinds: e.cfg.SurfaceKinds,
			TestScript:   e.cfg.TestScript,
			EntryScript:  e.cfg.EntryScript,
		}),
	}
	a.gaps = a.crossReference(ctx)
	return a, nil
}

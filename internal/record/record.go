// Package record defines the data model shared by every stage of a
// treeline analysis run: per-file extraction results, resolved imports,
// the module graph, and derived gaps. All types are plain data; they are
// created during a run and never mutated after the stage that produced
// them finishes.
package record

import "fmt"

// ParseStatus describes how extraction went for a single file.
type ParseStatus string

const (
	StatusOK      ParseStatus = "ok"
	StatusPartial ParseStatus = "partial"
	StatusFailed  ParseStatus = "failed"
)

// Span is a source position range, 1-based lines and 0-based columns
// the way tree-sitter reports them.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// ExportDecl is a named symbol a file makes available to other modules.
// Kind is an open enumeration ("function", "class", "type", "const",
// "enum", "interface", "struct", "trait", "module", "command", ...).
type ExportDecl struct {
	Name      string
	Kind      string
	Signature string
	Doc       string
	Span      Span
}

// ResolutionState classifies what an import specifier points at.
type ResolutionState string

const (
	// ResolvedInternal means the specifier maps to a module inside the
	// analyzed tree.
	ResolvedInternal ResolutionState = "resolved"
	// External means the specifier references a dependency outside the
	// tree.
	External ResolutionState = "external"
	// Unresolved means the specifier looked internal but no candidate
	// matched (or several matched ambiguously).
	Unresolved ResolutionState = "unresolved"
)

// ResolutionResult annotates an ImportDecl after the resolver runs.
// Target is the module id for ResolvedInternal and empty otherwise.
type ResolutionResult struct {
	State  ResolutionState
	Target string
}

// ImportDecl is a reference from one file to a name declared elsewhere.
// Empty Names means a whole-module import. Resolution is set exactly
// once by the resolver and never mutated afterward.
type ImportDecl struct {
	Specifier  string
	Names      []string
	Span       Span
	Resolution ResolutionResult
}

// FileRecord is the extraction result for one discovered file. It is
// the unit of work for the parallel extraction stage and immutable once
// the extractor returns it (resolution enriches Imports in place at the
// single-threaded resolve stage).
type FileRecord struct {
	Path       string
	Language   string
	Exports    []ExportDecl
	Imports    []ImportDecl
	Status     ParseStatus
	FailReason string
}

// Failed builds the degraded record for a file that could not be
// extracted. One bad file never aborts a run; it contributes this
// record and nothing else.
func Failed(path, language, reason string) *FileRecord {
	return &FileRecord{
		Path:       path,
		Language:   language,
		Status:     StatusFailed,
		FailReason: reason,
	}
}

// ModuleNode is the resolved identity of a FileRecord inside the graph.
// ID is the root-relative path with the source extension stripped;
// directory-index files collapse to their directory's id.
type ModuleNode struct {
	ID       string
	Path     string
	Language string
	Status   ParseStatus
}

// DependencyEdge is a directed module dependency. Symbols is the sorted
// union of imported names across every import between the pair; empty
// means only whole-module imports exist between them.
type DependencyEdge struct {
	Source  string
	Target  string
	Symbols []string
}

// ModuleGraph is the single shared artifact produced by the builder.
// Nodes and Edges are sorted by stable keys and read-only once built.
type ModuleGraph struct {
	Nodes []ModuleNode
	Edges []DependencyEdge
}

// GapKind enumerates the deficiencies the analyzer reports.
type GapKind string

const (
	GapDeadExport         GapKind = "dead_export"
	GapUntestedExport     GapKind = "untested_export"
	GapUndocumentedExport GapKind = "undocumented_export"
)

// Gap is one detected documentation/usage/test deficiency. Purely
// derived from a finished graph; never persisted on its own.
type Gap struct {
	Kind   GapKind
	Module string
	Export string
}

func (g Gap) String() string {
	return fmt.Sprintf("%s: %s.%s", g.Kind, g.Module, g.Export)
}

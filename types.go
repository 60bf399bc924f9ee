package treeline

import (
	"github.com/treeline-dev/treeline/internal/graph"
	"github.com/treeline-dev/treeline/internal/record"
)

// Public type aliases for the internal record types that make up the
// analysis result. These are Go type aliases (=), identical to the
// internal types at compile time, so no conversion is needed.

type FileRecord = record.FileRecord
type ExportDecl = record.ExportDecl
type ImportDecl = record.ImportDecl
type ResolutionResult = record.ResolutionResult
type ResolutionState = record.ResolutionState
type ParseStatus = record.ParseStatus
type Span = record.Span
type ModuleNode = record.ModuleNode
type DependencyEdge = record.DependencyEdge
type ModuleGraph = record.ModuleGraph
type Gap = record.Gap
type GapKind = record.GapKind
type ExportIndex = graph.ExportIndex

const (
	StatusOK      = record.StatusOK
	StatusPartial = record.StatusPartial
	StatusFailed  = record.StatusFailed

	ResolvedInternal = record.ResolvedInternal
	External         = record.External
	Unresolved       = record.Unresolved

	GapDeadExport         = record.GapDeadExport
	GapUntestedExport     = record.GapUntestedExport
	GapUndocumentedExport = record.GapUndocumentedExport
)

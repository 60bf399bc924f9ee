// Package treeline cross-references a source tree: it extracts exports
// and imports per file with tree-sitter, resolves import specifiers to
// modules inside the tree, builds a module dependency graph, and
// reports documentation and usage gaps (dead, untested, and
// undocumented exports).
//
// # Pipeline
//
// An analysis run has four phases:
//
//  1. Discover: enumerate source files under the root (git ls-files
//     when available, a filtered walk otherwise).
//  2. Extract: parse each file in parallel and normalize its exports,
//     imports, signatures, and doc comments into a FileRecord. A file
//     that fails to parse degrades to a failed record; it never aborts
//     the run.
//  3. Resolve: classify every import specifier as internal (with a
//     target module id), external, or unresolved. Resolution is pure
//     and order-independent.
//  4. Cross-reference: merge the records into a ModuleGraph plus an
//     ExportIndex and derive the gap lists.
//
// # Usage
//
//	e := treeline.New(treeline.WithWorkers(8))
//	a, err := e.Analyze(ctx, "path/to/project")
//	if err != nil { ... }
//
//	for _, gap := range a.DeadExports() {
//		fmt.Println(gap)
//	}
//
// All result slices come back in a canonical sorted order, so repeated
// runs over the same tree are byte-for-byte diffable.
package treeline

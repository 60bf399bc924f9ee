// Package graph turns per-file extraction records into a module
// dependency graph and an export index. Both outputs are deterministic:
// nodes and edges are sorted, edge symbol lists are de-duplicated
// unions, and self-edges are dropped.
package graph

import (
	"sort"

	"github.com/treeline-dev/treeline/internal/record"
	"github.com/treeline-dev/treeline/internal/resolve"
)

// ExportIndex maps module id -> export name -> declaration, for O(1)
// lookup while cross-referencing.
type ExportIndex map[string]map[string]record.ExportDecl

// Lookup returns the declaration of name exported by module, if any.
func (idx ExportIndex) Lookup(module, name string) (record.ExportDecl, bool) {
	decls, ok := idx[module]
	if !ok {
		return record.ExportDecl{}, false
	}
	decl, ok := decls[name]
	return decl, ok
}

// ModulesExporting returns the sorted ids of every module that
// declares an export with the given name.
func (idx ExportIndex) ModulesExporting(name string) []string {
	var modules []string
	for id, decls := range idx {
		if _, ok := decls[name]; ok {
			modules = append(modules, id)
		}
	}
	sort.Strings(modules)
	return modules
}

// Build assembles the graph from the complete record set. Every file
// becomes a node, including failed ones (they contribute no exports or
// edges but stay visible as graph members). Edges between the same
// ordered pair of modules merge into one, unioning their imported
// symbol names.
func Build(records []record.FileRecord, files *resolve.FileSet) (*record.ModuleGraph, ExportIndex) {
	idx := make(ExportIndex, len(records))
	nodes := make([]record.ModuleNode, 0, len(records))
	merged := make(map[[2]string]map[string]bool)

	for _, rec := range records {
		id, ok := files.ModuleID(rec.Path)
		if !ok {
			continue
		}
		nodes = append(nodes, record.ModuleNode{
			ID:       id,
			Path:     rec.Path,
			Language: rec.Language,
			Status:   rec.Status,
		})

		if len(rec.Exports) > 0 {
			decls := make(map[string]record.ExportDecl, len(rec.Exports))
			for _, exp := range rec.Exports {
				decls[exp.Name] = exp
			}
			idx[id] = decls
		}

		for _, imp := range rec.Imports {
			if imp.Resolution.State != record.ResolvedInternal || imp.Resolution.Target == id {
				continue
			}
			key := [2]string{id, imp.Resolution.Target}
			symbols, ok := merged[key]
			if !ok {
				symbols = make(map[string]bool)
				merged[key] = symbols
			}
			for _, name := range imp.Names {
				symbols[name] = true
			}
		}
	}

	edges := make([]record.DependencyEdge, 0, len(merged))
	for key, symbols := range merged {
		names := make([]string, 0, len(symbols))
		for name := range symbols {
			names = append(names, name)
		}
		sort.Strings(names)
		edges = append(edges, record.DependencyEdge{Source: key[0], Target: key[1], Symbols: names})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return &record.ModuleGraph{Nodes: nodes, Edges: edges}, idx
}

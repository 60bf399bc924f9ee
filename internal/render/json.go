// Package render writes analysis results to their external formats:
// a machine-readable analysis.json, per-module markdown pages with a
// SUMMARY index, and a terminal gap table.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/treeline-dev/treeline/internal/record"
)

// Input is everything the renderers consume. Records, nodes, edges and
// gaps are expected in their canonical sorted order.
type Input struct {
	Records []record.FileRecord
	Graph   *record.ModuleGraph
	Gaps    []record.Gap
	// ModuleID maps a record path to its module id.
	ModuleID func(path string) (string, bool)
}

type jsonOutput struct {
	Version        string        `json:"version"`
	Modules        []jsonModule  `json:"modules"`
	CrossReference jsonCrossRef  `json:"cross_reference"`
	Statistics     jsonStats     `json:"statistics"`
}

type jsonModule struct {
	Path     string       `json:"path"`
	Module   string       `json:"module"`
	Language string       `json:"language"`
	Status   string       `json:"status"`
	Exports  []jsonExport `json:"exports"`
	Imports  []jsonImport `json:"imports"`
}

type jsonExport struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Signature   string `json:"signature,omitempty"`
	Description string `json:"description"`
	Line        int    `json:"line"`
}

type jsonImport struct {
	Source string   `json:"source"`
	Items  []string `json:"items"`
	State  string   `json:"state"`
	Target string   `json:"target,omitempty"`
}

type jsonCrossRef struct {
	Dependencies []jsonDependency `json:"dependencies"`
	ExternalDeps []string         `json:"external_deps"`
	Gaps         []jsonGap        `json:"gaps"`
}

type jsonDependency struct {
	Module    string   `json:"module"`
	DependsOn []string `json:"depends_on"`
}

type jsonGap struct {
	Kind     string `json:"kind"`
	Module   string `json:"module"`
	Export   string `json:"export"`
	Location string `json:"location,omitempty"`
}

type jsonStats struct {
	TotalModules         int `json:"total_modules"`
	TotalExports         int `json:"total_exports"`
	FailedFiles          int `json:"failed_files"`
	ExternalDependencies int `json:"external_dependencies"`
	PotentialGaps        int `json:"potential_gaps"`
}

// JSON writes analysis.json under outDir.
func JSON(in Input, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	out := jsonOutput{Version: "1.0"}

	externals := map[string]bool{}
	totalExports := 0
	failed := 0
	for _, rec := range in.Records {
		module := rec.Path
		if in.ModuleID != nil {
			if id, ok := in.ModuleID(rec.Path); ok {
				module = id
			}
		}
		m := jsonModule{
			Path:     rec.Path,
			Module:   module,
			Language: rec.Language,
			Status:   string(rec.Status),
			Exports:  []jsonExport{},
			Imports:  []jsonImport{},
		}
		for _, exp := range rec.Exports {
			m.Exports = append(m.Exports, jsonExport{
				Name:        exp.Name,
				Kind:        exp.Kind,
				Signature:   exp.Signature,
				Description: exp.Doc,
				Line:        exp.Span.StartLine,
			})
		}
		for _, imp := range rec.Imports {
			items := imp.Names
			if items == nil {
				items = []string{}
			}
			m.Imports = append(m.Imports, jsonImport{
				Source: imp.Specifier,
				Items:  items,
				State:  string(imp.Resolution.State),
				Target: imp.Resolution.Target,
			})
			if imp.Resolution.State == record.External {
				externals[imp.Specifier] = true
			}
		}
		totalExports += len(rec.Exports)
		if rec.Status == record.StatusFailed {
			failed++
		}
		out.Modules = append(out.Modules, m)
	}

	deps := map[string][]string{}
	if in.Graph != nil {
		for _, edge := range in.Graph.Edges {
			deps[edge.Source] = append(deps[edge.Source], edge.Target)
		}
	}
	sources := make([]string, 0, len(deps))
	for src := range deps {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		out.CrossReference.Dependencies = append(out.CrossReference.Dependencies,
			jsonDependency{Module: src, DependsOn: deps[src]})
	}

	out.CrossReference.ExternalDeps = sortedKeys(externals)
	out.CrossReference.Gaps = []jsonGap{}
	for _, gap := range in.Gaps {
		out.CrossReference.Gaps = append(out.CrossReference.Gaps, jsonGap{
			Kind:   string(gap.Kind),
			Module: gap.Module,
			Export: gap.Export,
		})
	}

	out.Statistics = jsonStats{
		TotalModules:         len(in.Records),
		TotalExports:         totalExports,
		FailedFiles:          failed,
		ExternalDependencies: len(out.CrossReference.ExternalDeps),
		PotentialGaps:        len(in.Gaps),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("render: marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "analysis.json"), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

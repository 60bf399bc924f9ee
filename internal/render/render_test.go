package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/record"
)

func sampleInput() Input {
	return Input{
		Records: []record.FileRecord{
			{
				Path:     "src/app.ts",
				Language: "typescript",
				Status:   record.StatusOK,
				Exports: []record.ExportDecl{
					{Name: "run", Kind: "function", Signature: "export function run()", Doc: "Starts the app.", Span: record.Span{StartLine: 3}},
				},
				Imports: []record.ImportDecl{
					{Specifier: "./util", Names: []string{"clamp"}, Resolution: record.ResolutionResult{State: record.ResolvedInternal, Target: "src/util"}},
					{Specifier: "react", Resolution: record.ResolutionResult{State: record.External}},
				},
			},
			{
				Path:     "src/util.ts",
				Language: "typescript",
				Status:   record.StatusOK,
				Exports: []record.ExportDecl{
					{Name: "clamp", Kind: "function", Span: record.Span{StartLine: 1}},
				},
			},
		},
		Graph: &record.ModuleGraph{
			Edges: []record.DependencyEdge{{Source: "src/app", Target: "src/util", Symbols: []string{"clamp"}}},
		},
		Gaps: []record.Gap{{Kind: record.GapUndocumentedExport, Module: "src/util", Export: "clamp"}},
	}
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, JSON(sampleInput(), dir))

	data, err := os.ReadFile(filepath.Join(dir, "analysis.json"))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "1.0", out["version"])
	modules := out["modules"].([]any)
	require.Len(t, modules, 2)
	first := modules[0].(map[string]any)
	assert.Equal(t, "src/app.ts", first["path"])
	assert.Equal(t, "src/app.ts", first["module"], "no ModuleID func falls back to path")

	xref := out["cross_reference"].(map[string]any)
	assert.Equal(t, []any{"react"}, xref["external_deps"])
	gaps := xref["gaps"].([]any)
	require.Len(t, gaps, 1)
	assert.Equal(t, "undocumented_export", gaps[0].(map[string]any)["kind"])

	stats := out["statistics"].(map[string]any)
	assert.EqualValues(t, 2, stats["total_modules"])
	assert.EqualValues(t, 2, stats["total_exports"])
	assert.EqualValues(t, 1, stats["potential_gaps"])
}

func TestMarkdownOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Markdown(sampleInput(), dir))

	page, err := os.ReadFile(filepath.Join(dir, "modules", "src_app_ts.md"))
	require.NoError(t, err)
	content := string(page)
	assert.Contains(t, content, "# app")
	assert.Contains(t, content, "| `run` | function | 3 |")
	assert.Contains(t, content, "### External")
	assert.Contains(t, content, "- `react`")
	assert.Contains(t, content, "- `./util` -> `src/util`")

	summary, err := os.ReadFile(filepath.Join(dir, "SUMMARY.md"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "[src/app.ts](modules/src_app_ts.md)")
	assert.Contains(t, string(summary), "`src/app` -> `src/util` (clamp)")
	assert.Contains(t, string(summary), "undocumented_export: src/util.clamp")
}

func TestMarkdownMarksFailedFiles(t *testing.T) {
	dir := t.TempDir()
	in := Input{Records: []record.FileRecord{*record.Failed("bad.py", "python", "unreadable")}}
	require.NoError(t, Markdown(in, dir))

	page, err := os.ReadFile(filepath.Join(dir, "modules", "bad_py.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "**Status:** failed (unreadable)")
}

func TestGapTable(t *testing.T) {
	assert.Empty(t, GapTable(nil))

	out := GapTable(sampleInput().Gaps)
	assert.Contains(t, out, "undocumented_export")
	assert.Contains(t, out, "src/util")
	assert.Contains(t, out, "1 gaps")
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleInput())

	out := buf.String()
	assert.Contains(t, out, "2 files")
	assert.Contains(t, out, "1 dependency edge")
	assert.Contains(t, out, "1 potential gap")
	assert.NotContains(t, out, "failed to parse")
}

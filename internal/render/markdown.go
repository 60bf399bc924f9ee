package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/treeline-dev/treeline/internal/record"
)

// Markdown writes one page per analyzed file under outDir/modules plus
// a SUMMARY.md index at outDir. Page filenames flatten the source path
// so the output directory stays a single level deep.
func Markdown(in Input, outDir string) error {
	modulesDir := filepath.Join(outDir, "modules")
	if err := os.MkdirAll(modulesDir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	for _, rec := range in.Records {
		page := modulePage(rec)
		name := safeName(rec.Path) + ".md"
		if err := os.WriteFile(filepath.Join(modulesDir, name), []byte(page), 0o644); err != nil {
			return fmt.Errorf("render: %s: %w", rec.Path, err)
		}
	}

	summary := summaryPage(in)
	if err := os.WriteFile(filepath.Join(outDir, "SUMMARY.md"), []byte(summary), 0o644); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func modulePage(rec record.FileRecord) string {
	var b strings.Builder

	name := filepath.Base(rec.Path)
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "**Path:** `%s`\n\n", rec.Path)
	fmt.Fprintf(&b, "**Language:** %s\n\n", rec.Language)
	if rec.Status != record.StatusOK {
		fmt.Fprintf(&b, "**Status:** %s", rec.Status)
		if rec.FailReason != "" {
			fmt.Fprintf(&b, " (%s)", rec.FailReason)
		}
		b.WriteString("\n\n")
	}

	if len(rec.Exports) > 0 {
		b.WriteString("## Exports\n\n")
		b.WriteString("| Name | Kind | Line | Description |\n")
		b.WriteString("|------|------|------|-------------|\n")
		for _, exp := range rec.Exports {
			fmt.Fprintf(&b, "| `%s` | %s | %d | %s |\n", exp.Name, exp.Kind, exp.Span.StartLine, truncate(exp.Doc, 50))
		}

		b.WriteString("\n## Export Details\n\n")
		for _, exp := range rec.Exports {
			fmt.Fprintf(&b, "### `%s`\n\n", exp.Name)
			fmt.Fprintf(&b, "**Kind:** %s | **Line:** %d\n\n", exp.Kind, exp.Span.StartLine)
			if exp.Signature != "" {
				fmt.Fprintf(&b, "```%s\n%s\n```\n\n", rec.Language, exp.Signature)
			}
			if exp.Doc != "" {
				fmt.Fprintf(&b, "%s\n\n", exp.Doc)
			}
		}
	}

	if len(rec.Imports) > 0 {
		b.WriteString("## Dependencies\n\n")
		var external, internal, unresolved []record.ImportDecl
		for _, imp := range rec.Imports {
			switch imp.Resolution.State {
			case record.External:
				external = append(external, imp)
			case record.ResolvedInternal:
				internal = append(internal, imp)
			default:
				unresolved = append(unresolved, imp)
			}
		}
		writeImportSection(&b, "External", external)
		writeImportSection(&b, "Internal", internal)
		writeImportSection(&b, "Unresolved", unresolved)
	}

	return b.String()
}

func writeImportSection(b *strings.Builder, title string, imports []record.ImportDecl) {
	if len(imports) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, imp := range imports {
		fmt.Fprintf(b, "- `%s`", imp.Specifier)
		if imp.Resolution.Target != "" {
			fmt.Fprintf(b, " -> `%s`", imp.Resolution.Target)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func summaryPage(in Input) string {
	var b strings.Builder

	b.WriteString("# Analysis Summary\n\n")
	b.WriteString("## Modules\n\n")
	for _, rec := range in.Records {
		fmt.Fprintf(&b, "- [%s](modules/%s.md)", rec.Path, safeName(rec.Path))
		if rec.Status != record.StatusOK {
			fmt.Fprintf(&b, " (%s)", rec.Status)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if in.Graph != nil && len(in.Graph.Edges) > 0 {
		b.WriteString("## Dependency Graph\n\n")
		for _, edge := range in.Graph.Edges {
			fmt.Fprintf(&b, "- `%s` -> `%s`", edge.Source, edge.Target)
			if len(edge.Symbols) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(edge.Symbols, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(in.Gaps) > 0 {
		b.WriteString("## Gaps\n\n")
		for _, gap := range in.Gaps {
			fmt.Fprintf(&b, "- %s\n", gap)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// safeName flattens a source path to a single filename.
func safeName(path string) string {
	return strings.NewReplacer("/", "_", ".", "_").Replace(path)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

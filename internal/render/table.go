package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/treeline-dev/treeline/internal/record"
)

// GapTable renders the gap list as a terminal table. Returns the empty
// string when there is nothing to show.
func GapTable(gaps []record.Gap) string {
	if len(gaps) == 0 {
		return ""
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Kind", "Module", "Export"})
	for _, gap := range gaps {
		tbl.AppendRow(table.Row{string(gap.Kind), gap.Module, gap.Export})
	}
	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d gaps", len(gaps))})

	return tbl.Render()
}

// Summary writes a one-screen run summary, meant for stderr so stdout
// stays parseable.
func Summary(w io.Writer, in Input) {
	failed := 0
	exports := 0
	externals := map[string]bool{}
	for _, rec := range in.Records {
		if rec.Status == record.StatusFailed {
			failed++
		}
		exports += len(rec.Exports)
		for _, imp := range rec.Imports {
			if imp.Resolution.State == record.External {
				externals[imp.Specifier] = true
			}
		}
	}

	edges := 0
	if in.Graph != nil {
		edges = len(in.Graph.Edges)
	}

	fmt.Fprintf(w, "analyzed %s across %s\n",
		plural(len(in.Records), "file"), plural(edges, "dependency edge"))
	fmt.Fprintf(w, "%s exported, %s external, %s\n",
		humanize.Comma(int64(exports)),
		plural(len(externals), "package"),
		plural(len(in.Gaps), "potential gap"))
	if failed > 0 {
		fmt.Fprintf(w, "%s failed to parse\n", plural(failed, "file"))
	}
}

func plural(n int, noun string) string {
	s := humanize.Comma(int64(n)) + " " + noun
	if n != 1 {
		if strings.HasSuffix(noun, "s") {
			return s + "es"
		}
		return s + "s"
	}
	return s
}

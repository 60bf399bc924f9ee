package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline"
	"github.com/treeline-dev/treeline/internal/render"
	"github.com/treeline-dev/treeline/internal/store"
)

var (
	flagOut    string
	flagFormat string
	flagDB     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a source tree and write its report",
	Long:  "Runs the full pipeline over the tree and writes the report in the chosen format. A SQLite snapshot of the run can be kept with --db.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagOut, "out", "o", "treeline-out", "output directory")
	analyzeCmd.Flags().StringVar(&flagFormat, "format", "markdown", "output format: markdown|json")
	analyzeCmd.Flags().StringVar(&flagDB, "db", "", "also persist the run to a SQLite snapshot at this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	a, err := treeline.New(treeline.WithConfig(cfg)).Analyze(cmd.Context(), root)
	if err != nil {
		return err
	}

	in := render.Input{
		Records:  a.Records,
		Graph:    a.Graph,
		Gaps:     a.Gaps(),
		ModuleID: a.ModuleID,
	}
	switch flagFormat {
	case "markdown":
		err = render.Markdown(in, flagOut)
	case "json":
		err = render.JSON(in, flagOut)
	default:
		return fmt.Errorf("unknown format %q (want markdown or json)", flagFormat)
	}
	if err != nil {
		return err
	}

	if flagDB != "" {
		if err := snapshot(flagDB, root, a); err != nil {
			return err
		}
	}

	render.Summary(os.Stderr, in)
	fmt.Fprintf(os.Stderr, "Report: %s (%s)\n", flagOut, time.Since(start).Round(time.Millisecond))
	return nil
}

func snapshot(dbPath, root string, a *treeline.Analysis) error {
	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	_, err = s.SaveRun(store.Snapshot{
		Root:     root,
		Records:  a.Records,
		Graph:    a.Graph,
		Gaps:     a.Gaps(),
		ModuleID: a.ModuleID,
	})
	return err
}

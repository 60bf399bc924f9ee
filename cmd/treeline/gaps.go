package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline"
	"github.com/treeline-dev/treeline/internal/render"
)

var flagKind string

var gapsCmd = &cobra.Command{
	Use:   "gaps [path]",
	Short: "List dead, untested, and undocumented exports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGaps,
}

func init() {
	gapsCmd.Flags().StringVar(&flagKind, "kind", "", "filter: dead|untested|undocumented")
}

func runGaps(cmd *cobra.Command, args []string) error {
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

	var gaps []treeline.Gap
	switch flagKind {
	case "":
		gaps = a.Gaps()
	case "dead":
		gaps = a.DeadExports()
	case "untested":
		gaps = a.UntestedExports()
	case "undocumented":
		gaps = a.UndocumentedExports()
	default:
		return fmt.Errorf("unknown gap kind %q (want dead, untested, or undocumented)", flagKind)
	}

	if len(gaps) == 0 {
		fmt.Fprintln(os.Stderr, "no gaps found")
		return nil
	}
	fmt.Println(render.GapTable(gaps))
	return nil
}

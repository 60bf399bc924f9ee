package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline"
)

var (
	flagOf         string
	flagDependents bool
	flagCycles     bool
	flagExternal   bool
)

var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Inspect the module dependency graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&flagOf, "of", "", "show the dependencies of one module id")
	graphCmd.Flags().BoolVar(&flagDependents, "dependents", false, "with --of, show dependents instead")
	graphCmd.Flags().BoolVar(&flagCycles, "cycles", false, "show import cycles")
	graphCmd.Flags().BoolVar(&flagExternal, "external", false, "show external dependencies")
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	switch {
	case flagOf != "" && flagDependents:
		for _, id := range a.DependentsOf(flagOf) {
			fmt.Println(id)
		}
	case flagOf != "":
		for _, id := range a.DependenciesOf(flagOf) {
			fmt.Println(id)
		}
	case flagCycles:
		for _, cycle := range a.Cycles() {
			fmt.Println(strings.Join(cycle, " <-> "))
		}
	case flagExternal:
		for _, spec := range a.ExternalDependencies() {
			fmt.Println(spec)
		}
	default:
		for _, edge := range a.Graph.Edges {
			line := fmt.Sprintf("%s -> %s", edge.Source, edge.Target)
			if len(edge.Symbols) > 0 {
				line += " (" + strings.Join(edge.Symbols, ", ") + ")"
			}
			fmt.Println(line)
		}
	}
	return nil
}

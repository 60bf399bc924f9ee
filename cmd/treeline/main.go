package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/treeline-dev/treeline"
)

var (
	flagConfig    string
	flagWorkers   int
	flagLanguages string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "treeline",
	Short:         "Cross-reference analysis for source trees",
	Long:          "Treeline extracts exports and imports per file with tree-sitter, resolves imports to modules, builds a dependency graph, and reports dead, untested, and undocumented exports.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .treeline.yaml in the analyzed root)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "extraction workers (default: one per CPU)")
	rootCmd.PersistentFlags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,typescript)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveRoot returns the absolute path of the tree to analyze.
func resolveRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// loadConfig merges, in increasing precedence: .treeline.yaml found in
// the analyzed root (or --config), TREELINE_* environment variables,
// and command-line flags.
func loadConfig(root string) (treeline.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("treeline")
	v.AutomaticEnv()

	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
		if err := v.ReadInConfig(); err != nil {
			return treeline.Config{}, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName(".treeline")
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return treeline.Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg treeline.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return treeline.Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagLanguages != "" {
		langs := strings.Split(flagLanguages, ",")
		for i := range langs {
			langs[i] = strings.TrimSpace(langs[i])
		}
		cfg.Languages = langs
	}
	return cfg, nil
}

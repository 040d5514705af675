package main

import (
	"fmt"
	"os"

	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}
	cfg = config.ApplyEnv(cfg)

	if err := newRootCommand(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:     "budgetview",
		Short:   "budgetview compares municipal budget categories across years in the terminal.",
		Version: version.String(),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDashboard(*cfg)
		},
	}
	root.SilenceUsage = true

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Source.Kind, "source", cfg.Source.Kind, "data source: http, file or sqlite")
	flags.StringVar(&cfg.Source.Endpoint, "endpoint", cfg.Source.Endpoint, "comparison endpoint for the http source")
	flags.StringVar(&cfg.Source.File, "file", cfg.Source.File, "comparison JSON for the file source")
	flags.StringVar(&cfg.Source.Database, "db", cfg.Source.Database, "database for the sqlite source")
	flags.StringVar(&cfg.Source.Municipality, "municipality", cfg.Source.Municipality, "municipality id")
	flags.StringVar(&cfg.Source.Year, "year", cfg.Source.Year, "selected year")
	flags.StringVar(&cfg.UI.Fragment, "fragment", cfg.UI.Fragment, "initial view, e.g. #odhodki;04")

	root.AddCommand(newExportCommand(cfg))
	root.AddCommand(newServeCommand(cfg))
	root.AddCommand(newSeedCommand(cfg))
	root.AddCommand(newMunicipalitiesCommand(cfg))
	root.AddCommand(newTokenCommand(cfg))
	root.AddCommand(newVersionCommand(cfg))
	return root
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/store"
	"github.com/spf13/cobra"
)

func newSeedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <dataset.json>...",
		Short: "Import budget datasets into the database",
		Long:  "Import one or more dataset files. Re-importing a municipality's year replaces its items.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.OpenStore(cfg.Source.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, path := range args {
				ds, err := store.LoadDataset(path)
				if err != nil {
					return err
				}
				n, err := st.Import(cmd.Context(), ds)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d items for %s\n", path, n, ds.Municipality)
			}
			return nil
		},
	}
}

func newMunicipalitiesCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "municipalities",
		Aliases: []string{"ls"},
		Short:   "List imported municipalities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.OpenStore(cfg.Source.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			ids, err := st.Municipalities(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MUNICIPALITY\tYEAR")
			for _, id := range ids {
				year, err := st.SelectedYear(cmd.Context(), id)
				if err != nil {
					return err
				}
				if year == "" {
					year = "-"
				}
				fmt.Fprintf(w, "%s\t%s\n", id, year)
			}
			return w.Flush()
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/route"
	"github.com/janekbaraniewski/budgetview/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exportTimeout = 30 * time.Second

func newExportCommand(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the comparison chart to an SVG file",
		Long:  "Fetch the configured comparison and write it as a fully grown static SVG chart.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := config.LoadCredentials()
			if err != nil {
				return err
			}
			src, closeSource, err := source.FromConfig(*cfg, creds)
			if err != nil {
				return err
			}
			defer func() { _ = closeSource() }()

			opts := chartOptions(cfg.Chart)
			opts.Width, opts.Height = cfg.Chart.Width, cfg.Chart.Height

			ctx, cancel := context.WithTimeout(cmd.Context(), exportTimeout)
			defer cancel()

			if output == "-" {
				return exportSVG(ctx, os.Stdout, src, route.Parse(cfg.UI.Fragment), opts)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := exportSVG(ctx, f, src, route.Parse(cfg.UI.Fragment), opts); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chart.svg", "output file, - for stdout")
	return cmd
}

// exportSVG fetches frag and writes the chart without animation. A failed
// fetch still renders, carrying the inline error, but is reported.
func exportSVG(ctx context.Context, w io.Writer, src source.Source, frag route.Fragment, opts chart.Options) error {
	opts.GrowDuration, opts.HoverDuration, opts.FadeDuration = 0, 0, 0
	st := chart.New(opts, nil, zap.NewNop())
	st.SetFragment(frag)

	now := time.Now()
	resp, fetchErr := src.Fetch(ctx, frag)
	if fetchErr != nil {
		st.Fail(fetchErr)
	} else if err := st.Load(resp, now); err != nil {
		fetchErr = err
	}
	st.Advance(now)

	if err := chart.WriteSVG(w, st.Scene(now)); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return fetchErr
}

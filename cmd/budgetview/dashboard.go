package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janekbaraniewski/budgetview/internal/appupdate"
	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/logging"
	"github.com/janekbaraniewski/budgetview/internal/route"
	"github.com/janekbaraniewski/budgetview/internal/source"
	"github.com/janekbaraniewski/budgetview/internal/tui"
	"github.com/janekbaraniewski/budgetview/internal/version"
	"go.uber.org/zap"
)

func runDashboard(cfg config.Config) error {
	logger, err := logging.ForDashboard(filepath.Join(config.ConfigDir(), "budgetview.log"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := tui.LoadThemes(config.ConfigDir()); err != nil {
		logger.Warn("loading themes", zap.Error(err))
	}
	tui.SetThemeByName(cfg.Theme)

	creds, err := config.LoadCredentials()
	if err != nil {
		logger.Warn("loading credentials", zap.Error(err))
	}
	src, closeSource, err := source.FromConfig(cfg, creds)
	if err != nil {
		return err
	}
	defer func() { _ = closeSource() }()

	model := tui.NewModel(tui.Options{
		Chart:        chartOptions(cfg.Chart),
		Source:       src,
		Fragment:     initialFragment(cfg.UI),
		LoaderDelay:  cfg.UI.LoaderDelay(),
		TickInterval: cfg.UI.TickInterval(),
		Logger:       logger,
		PersistTheme: config.SaveTheme,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.UI.Watch && cfg.Source.Kind == config.SourceFile {
		go func() {
			err := source.WatchFile(ctx, cfg.Source.File, logger, func() {
				program.Send(tui.ReloadMsg{})
			})
			if err != nil {
				logger.Warn("file watch stopped", zap.Error(err))
			}
		}()
	}

	if !cfg.Update.Disabled {
		go runStartupUpdateCheck(ctx, version.Version, logger, appupdate.NewChecker(cfg.Update).Check, func(msg tui.AppUpdateMsg) {
			program.Send(msg)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// chartOptions maps the chart settings onto engine options. Width and height
// are left to the dashboard, which sizes the chart to the terminal.
func chartOptions(c config.ChartConfig) chart.Options {
	opts := chart.DefaultOptions()
	if len(c.Palette) > 0 {
		opts.Palette = append([]string(nil), c.Palette...)
	}
	opts.GrowDuration = c.GrowDuration()
	opts.HoverDuration = c.HoverDuration()
	opts.FadeDuration = c.FadeDuration()
	return opts
}

// initialFragment opens the table panel when configured to, without
// overriding a fragment that already asks for it.
func initialFragment(ui config.UIConfig) route.Fragment {
	frag := route.Parse(ui.Fragment)
	if ui.ShowTable {
		frag = frag.WithPopup(true)
	}
	return frag
}

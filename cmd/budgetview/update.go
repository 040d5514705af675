package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/janekbaraniewski/budgetview/internal/appupdate"
	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/tui"
	"github.com/janekbaraniewski/budgetview/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type updateCheckFunc func(ctx context.Context, current string) (appupdate.Result, error)

// runStartupUpdateCheck sends an AppUpdateMsg when a newer release exists.
// Failures are only logged.
func runStartupUpdateCheck(ctx context.Context, current string, logger *zap.Logger, check updateCheckFunc, send func(tui.AppUpdateMsg)) {
	res, err := check(ctx, strings.TrimSpace(current))
	if err != nil {
		logger.Debug("app update check failed", zap.Error(err))
		return
	}
	if !res.UpdateAvailable {
		return
	}
	send(tui.AppUpdateMsg{
		CurrentVersion: res.CurrentVersion,
		LatestVersion:  res.LatestVersion,
		UpgradeHint:    res.UpgradeHint,
		NotesURL:       res.NotesURL,
	})
}

func newVersionCommand(cfg *config.Config) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version, optionally checking for a newer release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "budgetview %s\n", version.String())
			if !check {
				return nil
			}
			if cfg.Update.Disabled {
				fmt.Fprintln(out, "update checks are disabled")
				return nil
			}
			res, err := appupdate.NewChecker(cfg.Update).Check(cmd.Context(), version.Version)
			if err != nil {
				return err
			}
			switch {
			case res.CurrentVersion == "":
				fmt.Fprintln(out, "development build, not checking for updates")
			case res.UpdateAvailable:
				fmt.Fprintf(out, "%s is available: %s\n", res.LatestVersion, res.UpgradeHint)
				if res.NotesURL != "" {
					fmt.Fprintf(out, "release notes: %s\n", res.NotesURL)
				}
			default:
				fmt.Fprintln(out, "up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check for a newer release")
	return cmd
}

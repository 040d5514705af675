package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/janekbaraniewski/budgetview/internal/appupdate"
	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/tui"
	"go.uber.org/zap"
)

func TestRunStartupUpdateCheckSendsMessageOnUpdate(t *testing.T) {
	var got *tui.AppUpdateMsg

	runStartupUpdateCheck(context.Background(), " v1.2.0 ", zap.NewNop(),
		func(_ context.Context, current string) (appupdate.Result, error) {
			if current != "v1.2.0" {
				t.Fatalf("current = %q, want v1.2.0", current)
			}
			return appupdate.Result{
				UpdateAvailable: true,
				CurrentVersion:  "v1.2.0",
				LatestVersion:   "v1.3.0",
				NotesURL:        "https://github.com/janekbaraniewski/budgetview/releases/tag/v1.3.0",
				UpgradeHint:     "go install github.com/janekbaraniewski/budgetview/cmd/budgetview@latest",
			}, nil
		},
		func(msg tui.AppUpdateMsg) { got = &msg },
	)

	if got == nil {
		t.Fatal("expected AppUpdateMsg to be sent")
	}
	if got.LatestVersion != "v1.3.0" || !strings.HasSuffix(got.NotesURL, "/tag/v1.3.0") {
		t.Fatalf("message = %+v", *got)
	}
}

func TestRunStartupUpdateCheckQuietWithoutUpdate(t *testing.T) {
	checks := []updateCheckFunc{
		func(context.Context, string) (appupdate.Result, error) {
			return appupdate.Result{UpdateAvailable: false}, nil
		},
		func(context.Context, string) (appupdate.Result, error) {
			return appupdate.Result{}, errors.New("feed unreachable")
		},
	}
	for i, check := range checks {
		sent := false
		runStartupUpdateCheck(context.Background(), "v1.2.0", zap.NewNop(), check, func(tui.AppUpdateMsg) { sent = true })
		if sent {
			t.Fatalf("check %d: did not expect a message", i)
		}
	}
}

func TestVersionCheckRespectsDisabledUpdates(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Update.Disabled = true
	cfg.Update.Feed = "http://127.0.0.1:0/unreachable"

	cmd := newVersionCommand(&cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--check"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version --check: %v", err)
	}
	if !strings.Contains(out.String(), "update checks are disabled") {
		t.Fatalf("output = %q", out.String())
	}
}

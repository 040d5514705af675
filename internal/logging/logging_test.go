package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDebugEnabled(t *testing.T) {
	tests := map[string]bool{"": false, "0": false, "false": false, "1": true, "yes": true}
	for v, want := range tests {
		t.Setenv(DebugEnv, v)
		if got := DebugEnabled(); got != want {
			t.Fatalf("DebugEnabled(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestForDashboardIsSilentByDefault(t *testing.T) {
	t.Setenv(DebugEnv, "")
	path := filepath.Join(t.TempDir(), "budgetview.log")
	log, err := ForDashboard(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("log file should not exist without debug, stat err = %v", err)
	}
}

func TestToFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "budgetview.log")
	log, err := ToFile(path, zapcore.DebugLevel)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	log.Debug("chart loaded", zap.Int("columns", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"chart loaded"`) || !strings.Contains(string(data), `"columns":3`) {
		t.Fatalf("log = %s", data)
	}
}

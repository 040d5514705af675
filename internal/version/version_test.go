package version

import "testing"

func TestString(t *testing.T) {
	prev := []string{Version, CommitHash, BuildDate}
	defer func() { Version, CommitHash, BuildDate = prev[0], prev[1], prev[2] }()

	Version, CommitHash, BuildDate = "v0.3.0", "abc123", "2026-10-01"
	if got := String(); got != "v0.3.0 (abc123) built 2026-10-01" {
		t.Fatalf("String() = %q", got)
	}
}

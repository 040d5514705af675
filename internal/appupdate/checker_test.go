package appupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"testing"

	"github.com/janekbaraniewski/budgetview/internal/config"
)

func devBuild() (*debug.BuildInfo, bool) {
	return &debug.BuildInfo{Path: "github.com/janekbaraniewski/budgetview/cmd/budgetview", Main: debug.Module{Version: "(devel)"}}, true
}

func taggedBuild() (*debug.BuildInfo, bool) {
	return &debug.BuildInfo{Path: "github.com/janekbaraniewski/budgetview/cmd/budgetview", Main: debug.Module{Version: "v1.2.0"}}, true
}

type seen struct {
	hits   int
	header http.Header
}

// feed serves body and records the requests it gets.
func feed(t *testing.T, status int, body string) (*Checker, *seen) {
	t.Helper()
	last := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.hits++
		last.header = r.Header.Clone()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().Update
	cfg.Feed = srv.URL
	c := NewChecker(cfg)
	c.Client = srv.Client()
	c.BuildInfo = devBuild
	return c, last
}

func TestStableVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v1.2.3", "v1.2.3"},
		{" 1.4 ", "v1.4.0"},
		{"v2.0.0-rc.1", ""},
		{"v1.0.0+dirty", ""},
		{"dev", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stableVersion(tt.in); got != tt.want {
			t.Fatalf("stableVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckReportsReleaseNotes(t *testing.T) {
	c, req := feed(t, http.StatusOK, `{"tag_name":"v1.3.0","html_url":"https://github.com/janekbaraniewski/budgetview/releases/tag/v1.3.0"}`)

	res, err := c.Check(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.UpdateAvailable || res.LatestVersion != "v1.3.0" || res.CurrentVersion != "v1.2.0" {
		t.Fatalf("result = %+v", res)
	}
	if res.NotesURL != "https://github.com/janekbaraniewski/budgetview/releases/tag/v1.3.0" {
		t.Fatalf("NotesURL = %q", res.NotesURL)
	}
	if res.UpgradeHint != "download it from "+res.NotesURL {
		t.Fatalf("UpgradeHint = %q", res.UpgradeHint)
	}
	if got := req.header.Get("User-Agent"); got != "budgetview/v1.2.0" {
		t.Fatalf("User-Agent = %q", got)
	}
}

func TestCheckFallsBackToConfiguredNotes(t *testing.T) {
	c, _ := feed(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	c.BuildInfo = taggedBuild

	res, err := c.Check(context.Background(), "v1.2.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.UpdateAvailable {
		t.Fatal("same version should not be an update")
	}
	if res.NotesURL != config.DefaultConfig().Update.NotesURL {
		t.Fatalf("NotesURL = %q, want the configured page", res.NotesURL)
	}
	if res.UpgradeHint != "go install github.com/janekbaraniewski/budgetview/cmd/budgetview@latest" {
		t.Fatalf("UpgradeHint = %q", res.UpgradeHint)
	}
}

func TestCheckSkipsUnreleasedBuilds(t *testing.T) {
	c, req := feed(t, http.StatusOK, `{"tag_name":"v9.0.0"}`)
	for _, current := range []string{"dev", "v1.3.0-rc.1"} {
		res, err := c.Check(context.Background(), current)
		if err != nil || res.UpdateAvailable || res.CurrentVersion != "" {
			t.Fatalf("Check(%q) = %+v, %v", current, res, err)
		}
	}
	if req.hits != 0 {
		t.Fatal("unreleased builds should not query the feed")
	}
}

func TestCheckFeedErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, ``},
		{"bad json", http.StatusOK, `{`},
		{"pre-release tag", http.StatusOK, `{"tag_name":"v2.0.0-beta"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := feed(t, tt.status, tt.body)
			if _, err := c.Check(context.Background(), "v1.0.0"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestTokenAllowed(t *testing.T) {
	tests := []struct {
		feed string
		want bool
	}{
		{"https://api.github.com/repos/x/y/releases/latest", true},
		{"http://api.github.com/repos/x/y/releases/latest", false},
		{"https://github.com.example.org/releases", false},
		{"https://example.org/releases/latest", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		if got := tokenAllowed(tt.feed); got != tt.want {
			t.Fatalf("tokenAllowed(%q) = %v, want %v", tt.feed, got, tt.want)
		}
	}
}

func TestCheckKeepsTokenOffOtherHosts(t *testing.T) {
	c, req := feed(t, http.StatusOK, `{"tag_name":"v1.0.0"}`)
	c.Token = "secret"

	if _, err := c.Check(context.Background(), "v1.0.0"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := req.header.Get("Authorization"); got != "" {
		t.Fatalf("Authorization = %q, want none for a non-GitHub feed", got)
	}
}

// Package appupdate asks the release feed whether a newer budgetview exists.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/config"
	"golang.org/x/mod/semver"
)

// Checker fetches the latest release from a GitHub-style feed.
type Checker struct {
	Feed     string
	NotesURL string
	Token    string
	Timeout  time.Duration
	Client   *http.Client

	// BuildInfo describes the running binary; nil means the embedded info.
	BuildInfo func() (*debug.BuildInfo, bool)
}

func NewChecker(cfg config.UpdateConfig) *Checker {
	return &Checker{
		Feed:     strings.TrimSpace(cfg.Feed),
		NotesURL: strings.TrimSpace(cfg.NotesURL),
		Token:    strings.TrimSpace(cfg.Token),
		Timeout:  cfg.Timeout(),
	}
}

type Result struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	NotesURL        string
	UpgradeHint     string
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check compares current with the latest release. Development and
// pre-release builds are never reported as outdated and skip the request.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	res := Result{CurrentVersion: stableVersion(current), NotesURL: c.NotesURL}
	if res.CurrentVersion == "" {
		return res, nil
	}

	rel, err := c.latest(ctx, res.CurrentVersion)
	if err != nil {
		return res, err
	}
	res.LatestVersion = stableVersion(rel.TagName)
	if res.LatestVersion == "" {
		return res, fmt.Errorf("appupdate: release tag %q is not a stable version", rel.TagName)
	}
	if rel.HTMLURL != "" {
		res.NotesURL = rel.HTMLURL
	}
	res.UpdateAvailable = semver.Compare(res.LatestVersion, res.CurrentVersion) > 0
	res.UpgradeHint = c.upgradeHint(res.NotesURL)
	return res, nil
}

func (c *Checker) latest(ctx context.Context, current string) (release, error) {
	var rel release
	if c.Feed == "" {
		return rel, fmt.Errorf("appupdate: no release feed configured")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Feed, nil)
	if err != nil {
		return rel, fmt.Errorf("appupdate: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "budgetview/"+current)
	if c.Token != "" && tokenAllowed(c.Feed) {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return rel, fmt.Errorf("appupdate: fetch %s: %w", c.Feed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return rel, fmt.Errorf("appupdate: fetch %s: %s", c.Feed, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, fmt.Errorf("appupdate: decode release: %w", err)
	}
	return rel, nil
}

// upgradeHint repeats the go install line for binaries built from a tagged
// module and points everyone else at the release notes.
func (c *Checker) upgradeHint(notes string) string {
	info := c.BuildInfo
	if info == nil {
		info = debug.ReadBuildInfo
	}
	if bi, ok := info(); ok && bi.Path != "" && stableVersion(bi.Main.Version) != "" {
		return "go install " + bi.Path + "@latest"
	}
	if notes == "" {
		return "download the latest release"
	}
	return "download it from " + notes
}

func stableVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

// tokenAllowed keeps the token off plain HTTP and off hosts outside github.com.
func tokenAllowed(feed string) bool {
	u, err := url.Parse(feed)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}

// Package source fetches comparison datasets for a location fragment.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/janekbaraniewski/budgetview/internal/route"
	"github.com/janekbaraniewski/budgetview/internal/store"
)

// Source returns the comparison dataset for frag. Implementations must be
// safe to call from a goroutine other than the one driving the chart.
type Source interface {
	Fetch(ctx context.Context, frag route.Fragment) (core.YearsResponse, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("comparison data: HTTP %s", e.Status)
	}
	return fmt.Sprintf("comparison data: HTTP %d", e.StatusCode)
}

// IsStatus reports whether err carries an HTTP status error.
func IsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HTTP fetches from a JSON endpoint. Query is forwarded verbatim; the
// fragment's code is set as the "code" parameter. There is no timeout and no
// retry beyond what ctx imposes.
type HTTP struct {
	Endpoint string
	Query    string
	// Token, when set, is sent as a bearer token.
	Token  string
	Client *http.Client
}

func (h *HTTP) URL(frag route.Fragment) (string, error) {
	u, err := url.Parse(strings.TrimSpace(h.Endpoint))
	if err != nil {
		return "", fmt.Errorf("comparison data: parse endpoint: %w", err)
	}
	if q := strings.TrimPrefix(h.Query, "?"); q != "" {
		u.RawQuery = q
	}
	if frag.Code == "" {
		return u.String(), nil
	}
	if q := u.Query(); q.Has("code") {
		q.Set("code", frag.Code)
		u.RawQuery = q.Encode()
	} else {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += "code=" + url.QueryEscape(frag.Code)
	}
	return u.String(), nil
}

func (h *HTTP) Fetch(ctx context.Context, frag route.Fragment) (core.YearsResponse, error) {
	target, err := h.URL(frag)
	if err != nil {
		return core.YearsResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return core.YearsResponse{}, fmt.Errorf("comparison data: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return core.YearsResponse{}, fmt.Errorf("comparison data: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return core.YearsResponse{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var out core.YearsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return core.YearsResponse{}, fmt.Errorf("comparison data: decode: %w", err)
	}
	return out, nil
}

// File serves comparisons from a dataset file on disk. The file is re-read on
// every fetch so edits show up on reload.
type File struct {
	Path string
	Year string
}

func (f *File) Fetch(ctx context.Context, frag route.Fragment) (core.YearsResponse, error) {
	if err := ctx.Err(); err != nil {
		return core.YearsResponse{}, err
	}
	ds, err := store.LoadDataset(f.Path)
	if err != nil {
		return core.YearsResponse{}, err
	}
	year := f.Year
	if year == "" {
		year = ds.Year
	}
	return store.Comparison(ds.Items, frag.Code, year), nil
}

// SQLite serves comparisons from an imported budget database.
type SQLite struct {
	Store        *store.Store
	Municipality string
	Year         string
}

func (s *SQLite) Fetch(ctx context.Context, frag route.Fragment) (core.YearsResponse, error) {
	return s.Store.Comparison(ctx, s.Municipality, frag.Code, s.Year)
}

// Static returns a fixed response regardless of the fragment.
type Static struct {
	Resp core.YearsResponse
	Err  error
}

func (s *Static) Fetch(ctx context.Context, _ route.Fragment) (core.YearsResponse, error) {
	if err := ctx.Err(); err != nil {
		return core.YearsResponse{}, err
	}
	return s.Resp, s.Err
}

package source

import (
	"fmt"

	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/store"
)

// FromConfig builds the configured source. The returned close function
// releases any database the source opened.
func FromConfig(cfg config.Config, creds config.Credentials) (Source, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return &HTTP{
			Endpoint: cfg.Source.Endpoint,
			Query:    cfg.Source.Query,
			Token:    creds.TokenFor(cfg.Source.Endpoint),
		}, noop, nil
	case config.SourceFile:
		return &File{Path: cfg.Source.File, Year: cfg.Source.Year}, noop, nil
	case config.SourceSQLite:
		st, err := store.OpenStore(cfg.Source.Database)
		if err != nil {
			return nil, noop, err
		}
		return &SQLite{Store: st, Municipality: cfg.Source.Municipality, Year: cfg.Source.Year}, st.Close, nil
	default:
		return nil, noop, fmt.Errorf("source: unknown kind %q", cfg.Source.Kind)
	}
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening DB: %w", err)
	}
	if err := configureSQLiteConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: configure DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS budget_items (
			municipality TEXT NOT NULL,
			year TEXT NOT NULL,
			code TEXT NOT NULL,
			parent_code TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			amount REAL NOT NULL DEFAULT 0,
			planned REAL NOT NULL DEFAULT 0,
			imported_at TEXT NOT NULL,
			PRIMARY KEY (municipality, year, code)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_budget_items_parent ON budget_items(municipality, parent_code);`,
		`CREATE TABLE IF NOT EXISTS datasets (
			municipality TEXT PRIMARY KEY,
			selected_year TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// Import replaces the items of every (municipality, year) that ds touches in
// one transaction and returns the number of rows written.
func (s *Store) Import(ctx context.Context, ds Dataset) (int, error) {
	municipality := strings.TrimSpace(ds.Municipality)
	if municipality == "" {
		return 0, fmt.Errorf("store: dataset has no municipality")
	}

	for i, it := range ds.Items {
		if strings.TrimSpace(it.Year) == "" || strings.TrimSpace(it.Code) == "" {
			return 0, fmt.Errorf("store: item %d: year and code are required", i)
		}
	}
	type slot struct{ municipality, year string }
	slots := lo.Uniq(lo.Map(ds.Items, func(it Item, _ int) slot {
		return slot{municipality: lo.Ternary(it.Municipality == "", municipality, it.Municipality), year: it.Year}
	}))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin import: %w", err)
	}
	defer tx.Rollback()

	for _, sl := range slots {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM budget_items WHERE municipality = ? AND year = ?`,
			sl.municipality, sl.year); err != nil {
			return 0, fmt.Errorf("store: clear %s/%s: %w", sl.municipality, sl.year, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget_items (municipality, year, code, parent_code, name, amount, planned, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(municipality, year, code) DO UPDATE SET
			parent_code = excluded.parent_code,
			name = excluded.name,
			amount = excluded.amount,
			planned = excluded.planned,
			imported_at = excluded.imported_at`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare import: %w", err)
	}
	defer stmt.Close()

	importedAt := s.now().UTC().Format(time.RFC3339)
	n := 0
	for _, it := range ds.Items {
		m := it.Municipality
		if m == "" {
			m = municipality
		}
		if _, err := stmt.ExecContext(ctx, m, it.Year, it.Code, it.ParentCode, it.Name,
			float64(it.Amount), float64(it.Planned), importedAt); err != nil {
			return 0, fmt.Errorf("store: import %s/%s: %w", it.Year, it.Code, err)
		}
		n++
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (municipality, selected_year) VALUES (?, ?)
		ON CONFLICT(municipality) DO UPDATE SET selected_year = excluded.selected_year`,
		municipality, ds.Year); err != nil {
		return 0, fmt.Errorf("store: record dataset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit import: %w", err)
	}
	return n, nil
}

// Items returns every item of municipality ordered by year and code.
func (s *Store) Items(ctx context.Context, municipality string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT municipality, year, code, parent_code, name, amount, planned
		FROM budget_items
		WHERE municipality = ?
		ORDER BY year, code`, municipality)
	if err != nil {
		return nil, fmt.Errorf("store: query items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		var amount, planned float64
		if err := rows.Scan(&it.Municipality, &it.Year, &it.Code, &it.ParentCode, &it.Name, &amount, &planned); err != nil {
			return nil, fmt.Errorf("store: scan item: %w", err)
		}
		it.Amount = core.Amount(amount)
		it.Planned = core.Amount(planned)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate items: %w", err)
	}
	return out, nil
}

// SelectedYear returns the year recorded with municipality's dataset.
func (s *Store) SelectedYear(ctx context.Context, municipality string) (string, error) {
	var year string
	err := s.db.QueryRowContext(ctx,
		`SELECT selected_year FROM datasets WHERE municipality = ?`, municipality).Scan(&year)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: selected year: %w", err)
	}
	return year, nil
}

// Municipalities lists every imported municipality.
func (s *Store) Municipalities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT municipality FROM datasets ORDER BY municipality`)
	if err != nil {
		return nil, fmt.Errorf("store: query municipalities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("store: scan municipality: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Comparison answers a comparison query for the children of code. An empty
// year falls back to the year recorded at import.
func (s *Store) Comparison(ctx context.Context, municipality, code, year string) (core.YearsResponse, error) {
	items, err := s.Items(ctx, municipality)
	if err != nil {
		return core.YearsResponse{}, err
	}
	if year == "" {
		if year, err = s.SelectedYear(ctx, municipality); err != nil {
			return core.YearsResponse{}, err
		}
	}
	return Comparison(items, code, year), nil
}

func configureSQLiteConnection(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("set journal_mode WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return nil
}

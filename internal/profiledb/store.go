// Package profiledb persists an imported load profile and its category
// catalog in SQLite so later runs skip spreadsheet parsing.
package profiledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
	_ "github.com/mattn/go-sqlite3"
)

var ErrEmpty = errors.New("profiledb: no profile imported")

type DB struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("profiledb: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("profiledb: opening DB: %w", err)
	}
	if err := configureSQLiteConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("profiledb: configure DB: %w", err)
	}

	store := New(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func New(db *sql.DB) *DB {
	return &DB{db: db, now: time.Now}
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile_timestamps (
			row_index INTEGER PRIMARY KEY,
			ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile_columns (
			position INTEGER PRIMARY KEY,
			code TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS profile_values (
			code TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			kwh REAL NOT NULL,
			PRIMARY KEY (code, row_index)
		) WITHOUT ROWID;`,
		`CREATE TABLE IF NOT EXISTS categories (
			position INTEGER PRIMARY KEY,
			code TEXT NOT NULL,
			display_name TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_code ON categories(code);`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("profiledb: init schema: %w", err)
		}
	}
	return nil
}

type SaveResult struct {
	Rows       int
	Categories int
	Values     int
}

// Save replaces the stored profile and catalog in a single transaction.
// source is recorded for display only.
func (d *DB) Save(ctx context.Context, table profile.Table, catalog []core.CategoryInfo, source string) (SaveResult, error) {
	if err := table.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: save: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, name := range []string{"profile_meta", "profile_timestamps", "profile_columns", "profile_values", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+name); err != nil {
			return SaveResult{}, fmt.Errorf("profiledb: clear %s: %w", name, err)
		}
	}

	if err := insertEach(ctx, tx, `INSERT INTO profile_timestamps (row_index, ts) VALUES (?, ?)`, len(table.Timestamps), func(i int) []any {
		return []any{i, table.Timestamps[i].UTC().Format(time.RFC3339)}
	}); err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: insert timestamps: %w", err)
	}
	if err := insertEach(ctx, tx, `INSERT INTO profile_columns (position, code) VALUES (?, ?)`, len(table.Categories), func(i int) []any {
		return []any{i, table.Categories[i]}
	}); err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: insert columns: %w", err)
	}

	rows := len(table.Timestamps)
	values := 0
	for _, code := range table.Categories {
		col := table.Columns[code]
		if err := insertEach(ctx, tx, `INSERT INTO profile_values (code, row_index, kwh) VALUES (?, ?, ?)`, rows, func(i int) []any {
			return []any{code, i, col[i]}
		}); err != nil {
			return SaveResult{}, fmt.Errorf("profiledb: insert values for %s: %w", code, err)
		}
		values += rows
	}

	if err := insertEach(ctx, tx, `INSERT INTO categories (position, code, display_name) VALUES (?, ?, ?)`, len(catalog), func(i int) []any {
		return []any{i, catalog[i].Code, catalog[i].DisplayName}
	}); err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: insert catalog: %w", err)
	}

	meta := map[string]string{
		"year":        strconv.Itoa(table.Timestamps[0].Year()),
		"source":      source,
		"imported_at": d.now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO profile_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return SaveResult{}, fmt.Errorf("profiledb: insert meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("profiledb: commit tx: %w", err)
	}
	return SaveResult{Rows: rows, Categories: len(table.Categories), Values: values}, nil
}

func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// Load reads back the stored profile and catalog.
func (d *DB) Load(ctx context.Context) (profile.Table, []core.CategoryInfo, error) {
	stamps, err := d.loadTimestamps(ctx)
	if err != nil {
		return profile.Table{}, nil, err
	}
	if len(stamps) == 0 {
		return profile.Table{}, nil, ErrEmpty
	}

	codes, err := queryStrings(ctx, d.db, `SELECT code FROM profile_columns ORDER BY position`)
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("profiledb: load columns: %w", err)
	}

	columns := make(map[string][]float64, len(codes))
	for _, code := range codes {
		col, err := d.loadColumn(ctx, code, len(stamps))
		if err != nil {
			return profile.Table{}, nil, err
		}
		columns[code] = col
	}

	catalog, err := d.loadCatalog(ctx)
	if err != nil {
		return profile.Table{}, nil, err
	}
	return profile.Table{Timestamps: stamps, Categories: codes, Columns: columns}, catalog, nil
}

func (d *DB) loadTimestamps(ctx context.Context) ([]time.Time, error) {
	raw, err := queryStrings(ctx, d.db, `SELECT ts FROM profile_timestamps ORDER BY row_index`)
	if err != nil {
		return nil, fmt.Errorf("profiledb: load timestamps: %w", err)
	}
	stamps := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("profiledb: parse timestamp %q: %w", s, err)
		}
		stamps = append(stamps, ts.UTC())
	}
	return stamps, nil
}

func (d *DB) loadColumn(ctx context.Context, code string, n int) ([]float64, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT kwh FROM profile_values WHERE code = ? ORDER BY row_index`, code)
	if err != nil {
		return nil, fmt.Errorf("profiledb: load %s: %w", code, err)
	}
	defer rows.Close()

	col := make([]float64, 0, n)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("profiledb: scan %s: %w", code, err)
		}
		col = append(col, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profiledb: load %s: %w", code, err)
	}
	if len(col) != n {
		return nil, fmt.Errorf("profiledb: column %s has %d values, want %d", code, len(col), n)
	}
	return col, nil
}

func (d *DB) loadCatalog(ctx context.Context) ([]core.CategoryInfo, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT code, display_name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("profiledb: load catalog: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryInfo
	for rows.Next() {
		var c core.CategoryInfo
		if err := rows.Scan(&c.Code, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("profiledb: scan catalog: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profiledb: load catalog: %w", err)
	}
	return out, nil
}

func queryStrings(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

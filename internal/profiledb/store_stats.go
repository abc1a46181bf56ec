package profiledb

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type Stats struct {
	Rows           int64
	Categories     int64
	CatalogEntries int64
	Year           int
	Source         string
	ImportedAt     time.Time
}

func (d *DB) Stats(ctx context.Context) (Stats, error) {
	if d == nil || d.db == nil {
		return Stats{}, fmt.Errorf("profiledb: store not initialized")
	}
	stats := Stats{}

	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_timestamps`).Scan(&stats.Rows); err != nil {
		return Stats{}, fmt.Errorf("profiledb: count profile_timestamps: %w", err)
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_columns`).Scan(&stats.Categories); err != nil {
		return Stats{}, fmt.Errorf("profiledb: count profile_columns: %w", err)
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&stats.CatalogEntries); err != nil {
		return Stats{}, fmt.Errorf("profiledb: count categories: %w", err)
	}

	meta, err := d.meta(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.Source = meta["source"]
	if y, err := strconv.Atoi(meta["year"]); err == nil {
		stats.Year = y
	}
	if t, err := time.Parse(time.RFC3339, meta["imported_at"]); err == nil {
		stats.ImportedAt = t
	}
	return stats, nil
}

func (d *DB) meta(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT key, value FROM profile_meta`)
	if err != nil {
		return nil, fmt.Errorf("profiledb: load meta: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("profiledb: scan meta: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

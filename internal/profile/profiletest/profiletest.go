// Package profiletest builds synthetic full-year load profiles for tests.
package profiletest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
	"github.com/samber/lo"
)

// WeightFunc returns the relative weight of the quarter hour starting at ts.
type WeightFunc func(ts time.Time) float64

// Flat spreads total evenly over every row.
func Flat(ts time.Time) float64 { return 1 }

// ByMonth weights each row with its month number, so December rows carry
// twelve times the energy of January rows.
func ByMonth(ts time.Time) float64 { return float64(ts.Month()) }

// Column describes one category of a synthetic profile.
type Column struct {
	Code   string
	Total  float64
	Weight WeightFunc
}

// Timestamps returns every quarter hour of year, starting at midnight January 1st.
func Timestamps(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return lo.Times(core.DaysInYear(year)*core.IntervalsPerDay, func(i int) time.Time {
		return start.Add(time.Duration(i) * profile.Interval)
	})
}

// Table builds a year of rows where each column sums to its Total.
func Table(year int, columns ...Column) profile.Table {
	stamps := Timestamps(year)
	table := profile.Table{
		Timestamps: stamps,
		Categories: lo.Map(columns, func(c Column, _ int) string { return c.Code }),
		Columns:    make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		weight := c.Weight
		if weight == nil {
			weight = Flat
		}
		weights := lo.Map(stamps, func(ts time.Time, _ int) float64 { return weight(ts) })
		total := lo.Sum(weights)
		table.Columns[c.Code] = lo.Map(weights, func(w float64, _ int) float64 {
			return c.Total * w / total
		})
	}
	return table
}

// Catalog builds catalog entries from code/name pairs.
func Catalog(pairs ...string) []core.CategoryInfo {
	return lo.Map(lo.Chunk(pairs, 2), func(p []string, _ int) core.CategoryInfo {
		return core.CategoryInfo{Code: p[0], DisplayName: p[1]}
	})
}

// Standard is the fixture most tests share:
//
//	H0  flat, 1000 kWh
//	G0  weighted by month number, 1000 kWh
//	L0  flat, 1005 kWh (inside tolerance)
//	X0  flat, 800 kWh (not normalized)
//	Z9  flat, 1000 kWh, absent from the catalog
//	B9  catalog entry without a data column
func Standard(year int) (profile.Table, []core.CategoryInfo) {
	table := Table(year,
		Column{Code: "H0", Total: 1000, Weight: Flat},
		Column{Code: "G0", Total: 1000, Weight: ByMonth},
		Column{Code: "L0", Total: 1005, Weight: Flat},
		Column{Code: "X0", Total: 800, Weight: Flat},
		Column{Code: "Z9", Total: 1000, Weight: Flat},
	)
	catalog := Catalog(
		"H0", "Haushalt",
		"G0", "Gewerbe allgemein",
		"L0", "Landwirtschaft",
		"X0", "Nicht normiert",
		"B9", "Ohne Daten",
	)
	return table, catalog
}

// NewStore builds the Standard fixture for year.
func NewStore(tb testing.TB, year int) *profile.Store {
	tb.Helper()
	table, catalog := Standard(year)
	store, err := profile.New(table, catalog)
	if err != nil {
		tb.Fatalf("profile.New: %v", err)
	}
	return store
}

// WriteCSV writes table as a comma-separated profile file and returns its path.
func WriteCSV(tb testing.TB, dir string, table profile.Table) string {
	tb.Helper()
	var b strings.Builder
	b.WriteString("timestamp," + strings.Join(table.Categories, ",") + "\n")
	for i, ts := range table.Timestamps {
		b.WriteString(ts.Format("2006-01-02 15:04:05"))
		for _, code := range table.Categories {
			b.WriteString("," + strconv.FormatFloat(table.Columns[code][i], 'g', -1, 64))
		}
		b.WriteString("\n")
	}
	path := filepath.Join(dir, "profile.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		tb.Fatalf("write profile csv: %v", err)
	}
	return path
}

// WriteCatalogCSV writes catalog as code,display_name and returns its path.
func WriteCatalogCSV(tb testing.TB, dir string, catalog []core.CategoryInfo) string {
	tb.Helper()
	var b strings.Builder
	b.WriteString("code,display_name\n")
	for _, c := range catalog {
		b.WriteString(c.Code + "," + c.DisplayName + "\n")
	}
	path := filepath.Join(dir, "categories.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		tb.Fatalf("write catalog csv: %v", err)
	}
	return path
}

// Package profile holds one immutable standard load profile: a year of
// quarter-hourly energy values per category plus the category catalog.
package profile

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

type span struct {
	start, end int
}

type annualCheck struct {
	sum float64
	err error
}

// Store is safe for concurrent readers. Energy values live in a single arena
// that is written once in New and never again.
type Store struct {
	year       int
	timestamps []time.Time
	categories []string
	column     map[string]int
	arena      []float64
	catalog    []core.CategoryInfo

	days   map[time.Time]span
	months map[core.Month]span

	annualMu sync.Mutex
	annual   map[string]annualCheck
}

// New copies table and catalog into a fresh Store. The caller may reuse or
// modify both afterwards without affecting the store.
func New(table Table, catalog []core.CategoryInfo) (*Store, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	rows := len(table.Timestamps)
	s := &Store{
		year:       table.Timestamps[0].Year(),
		timestamps: make([]time.Time, rows),
		categories: append([]string(nil), table.Categories...),
		column:     make(map[string]int, len(table.Categories)),
		arena:      make([]float64, rows*len(table.Categories)),
		catalog:    normalizeCatalog(catalog),
		days:       make(map[time.Time]span),
		months:     make(map[core.Month]span),
		annual:     make(map[string]annualCheck),
	}
	copy(s.timestamps, table.Timestamps)
	for k, code := range s.categories {
		s.column[code] = k
		copy(s.arena[k*rows:(k+1)*rows], table.Columns[code])
	}
	s.buildIndexes()
	return s, nil
}

// buildIndexes derives calendar date and month spans once. Rows are ordered,
// so every date and month occupies one contiguous span.
func (s *Store) buildIndexes() {
	for i, ts := range s.timestamps {
		date := core.DateOf(ts)
		if sp, ok := s.days[date]; ok {
			sp.end = i + 1
			s.days[date] = sp
		} else {
			s.days[date] = span{start: i, end: i + 1}
		}

		month := core.Month{Year: ts.Year(), Month: ts.Month()}
		if sp, ok := s.months[month]; ok {
			sp.end = i + 1
			s.months[month] = sp
		} else {
			s.months[month] = span{start: i, end: i + 1}
		}
	}
}

func normalizeCatalog(in []core.CategoryInfo) []core.CategoryInfo {
	return lo.Map(in, func(c core.CategoryInfo, _ int) core.CategoryInfo {
		return core.CategoryInfo{
			Code:        strings.TrimSpace(c.Code),
			DisplayName: strings.TrimSpace(c.DisplayName),
		}
	})
}

// Year is the calendar year the profile covers.
func (s *Store) Year() int { return s.year }

// Len is the number of quarter-hour rows.
func (s *Store) Len() int { return len(s.timestamps) }

func (s *Store) Has(category string) bool {
	_, ok := s.column[category]
	return ok
}

// Categories returns the category codes in column order.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

// Catalog returns the catalog entries as loaded.
func (s *Store) Catalog() []core.CategoryInfo {
	return append([]core.CategoryInfo(nil), s.catalog...)
}

// Describe pairs every category column with its display name, falling back
// to core.UnknownCategoryName.
func (s *Store) Describe() []core.CategoryInfo {
	return lo.Map(s.categories, func(code string, _ int) core.CategoryInfo {
		name, ok := s.DisplayName(code)
		if !ok {
			name = core.UnknownCategoryName
		}
		return core.CategoryInfo{Code: code, DisplayName: name}
	})
}

// DisplayName returns the first catalog entry for category. ok is false when
// the catalog has no usable entry, which is not the same as the category
// missing from the data.
func (s *Store) DisplayName(category string) (string, bool) {
	entry, ok := lo.Find(s.catalog, func(c core.CategoryInfo) bool {
		return c.Code == category
	})
	if !ok || entry.DisplayName == "" {
		return "", false
	}
	return entry.DisplayName, true
}

// TotalAnnualEnergy sums the category over the whole year and enforces the
// normalization invariant. The check runs on first use and its outcome is
// cached; the returned value is rounded to 2 decimals.
func (s *Store) TotalAnnualEnergy(category string) (float64, error) {
	s.annualMu.Lock()
	defer s.annualMu.Unlock()

	if cached, ok := s.annual[category]; ok {
		return cached.sum, cached.err
	}
	check := s.computeAnnual(category)
	s.annual[category] = check
	return check.sum, check.err
}

func (s *Store) computeAnnual(category string) annualCheck {
	values, ok := s.columnValues(category)
	if !ok {
		return annualCheck{err: core.CategoryNotFound(category)}
	}
	sum := lo.Sum(values)

	low := core.ReferenceAnnualEnergy * (1 - core.NormalizationTolerance)
	high := core.ReferenceAnnualEnergy * (1 + core.NormalizationTolerance)
	if math.IsNaN(sum) || sum < low || sum > high {
		return annualCheck{err: core.NormalizationFailed(category, sum)}
	}
	return annualCheck{sum: core.Round(sum, 2)}
}

// columnValues returns the arena slice backing a category. It must not escape the package.
func (s *Store) columnValues(category string) ([]float64, bool) {
	k, ok := s.column[category]
	if !ok {
		return nil, false
	}
	rows := len(s.timestamps)
	return s.arena[k*rows : (k+1)*rows], true
}

// RowsForDate returns the rows whose date component equals date, ignoring
// time-of-day. The view is empty when the date is not in the profile.
func (s *Store) RowsForDate(date time.Time) Rows {
	sp, ok := s.days[core.DateOf(date)]
	if !ok {
		return Rows{store: s}
	}
	return Rows{store: s, start: sp.start, end: sp.end}
}

// RowsForMonth returns the rows of one calendar month, empty when absent.
func (s *Store) RowsForMonth(month core.Month) Rows {
	sp, ok := s.months[month]
	if !ok {
		return Rows{store: s}
	}
	return Rows{store: s, start: sp.start, end: sp.end}
}

// Contains reports whether date falls in the profile's calendar year.
func (s *Store) Contains(date time.Time) bool {
	return date.Year() == s.year
}

func (s *Store) String() string {
	return fmt.Sprintf("profile(year=%d rows=%d categories=%d)", s.year, len(s.timestamps), len(s.categories))
}

package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/parsers"
	"github.com/janekbaraniewski/synthload/internal/profile"
	"github.com/samber/lo"
)

// ctxCheckEvery bounds how many rows are parsed between cancellation checks.
const ctxCheckEvery = 4096

// tableBuilder accumulates profile rows whose first column is the timestamp
// and whose remaining columns are category codes named by the header.
type tableBuilder struct {
	codes  []string
	index  []int // record column of each code
	stamps []time.Time
	cols   [][]float64
}

func newTableBuilder(header []string) (*tableBuilder, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns, want a timestamp and at least one category", len(header))
	}
	b := &tableBuilder{}
	for i, raw := range header[1:] {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		b.codes = append(b.codes, code)
		b.index = append(b.index, i+1)
	}
	if len(b.codes) == 0 {
		return nil, fmt.Errorf("header names no categories")
	}
	if dups := lo.FindDuplicates(b.codes); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate category columns: %s", strings.Join(dups, ", "))
	}
	b.cols = make([][]float64, len(b.codes))
	return b, nil
}

// add parses one data record. line is the 1-based source line used in errors.
// Records without a timestamp (unit or annotation rows) are skipped; a
// resulting gap is caught by profile validation.
func (b *tableBuilder) add(line int, record []string) error {
	if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
		return nil
	}
	ts, err := parsers.ParseTimestamp(record[0])
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	for k, col := range b.index {
		if col >= len(record) {
			return fmt.Errorf("line %d: missing value for %s", line, b.codes[k])
		}
		v := parsers.ParseFloat(record[col])
		if v == nil {
			return fmt.Errorf("line %d: invalid value %q for %s", line, record[col], b.codes[k])
		}
		b.cols[k] = append(b.cols[k], *v)
	}
	b.stamps = append(b.stamps, ts)
	return nil
}

func (b *tableBuilder) table() profile.Table {
	columns := make(map[string][]float64, len(b.codes))
	for k, code := range b.codes {
		columns[code] = b.cols[k]
	}
	return profile.Table{Timestamps: b.stamps, Categories: b.codes, Columns: columns}
}

// buildTable runs records through a builder, checking ctx periodically.
// firstLine is the source line of records[0].
func buildTable(ctx context.Context, header []string, records [][]string, firstLine int) (profile.Table, error) {
	b, err := newTableBuilder(header)
	if err != nil {
		return profile.Table{}, err
	}
	for i, record := range records {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return profile.Table{}, err
			}
		}
		if isBlank(record) {
			continue
		}
		if err := b.add(firstLine+i, record); err != nil {
			return profile.Table{}, err
		}
	}
	return b.table(), nil
}

// catalogFromRows reads category descriptions from a header row plus data
// rows. Both the workbook's Typname/Typtext header and code/display_name are
// understood.
func catalogFromRows(rows [][]string) ([]core.CategoryInfo, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	codeCol, nameCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "typname", "code", "category":
			codeCol = i
		case "typtext", "display_name", "name":
			nameCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("catalog header %q lacks code and name columns", strings.Join(rows[0], ","))
	}

	var out []core.CategoryInfo
	for _, row := range rows[1:] {
		code := cell(row, codeCol)
		if code == "" {
			continue
		}
		out = append(out, core.CategoryInfo{Code: code, DisplayName: cell(row, nameCol)})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(record []string) bool {
	return lo.EveryBy(record, func(s string) bool { return strings.TrimSpace(s) == "" })
}

package ingest

import (
	"context"
	"fmt"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
	"github.com/xuri/excelize/v2"
)

// Workbook layout as published by APCS: the first sheet holds the profile with
// category codes in row 1, units in row 2 and data from row 3; the second
// sheet describes the categories.
const workbookFirstDataRow = 3

// ReadWorkbook loads the profile table and, when present, the catalog sheet.
func ReadWorkbook(ctx context.Context, path string) (profile.Table, []core.CategoryInfo, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return profile.Table{}, nil, fmt.Errorf("ingest: workbook %s has no sheets", path)
	}

	// Raw values keep timestamps as serial numbers regardless of cell format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < workbookFirstDataRow {
		return profile.Table{}, nil, fmt.Errorf("ingest: sheet %q has %d rows, want data from row %d", sheets[0], len(rows), workbookFirstDataRow)
	}
	table, err := buildTable(ctx, rows[0], rows[workbookFirstDataRow-1:], workbookFirstDataRow)
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: read sheet %q: %w", sheets[0], err)
	}

	if len(sheets) < 2 {
		return table, nil, nil
	}
	catRows, err := f.GetRows(sheets[1])
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: read sheet %q: %w", sheets[1], err)
	}
	catalog, err := catalogFromRows(catRows)
	if err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: read sheet %q: %w", sheets[1], err)
	}
	return table, catalog, nil
}

package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable parses a CSV profile: a header "timestamp,<code>,<code>..."
// followed by one row per quarter hour. Fields may be separated by ',' or ';'.
func ReadTable(ctx context.Context, r io.Reader) (profile.Table, error) {
	records, err := readCSV(r)
	if err != nil {
		return profile.Table{}, err
	}
	if len(records) == 0 {
		return profile.Table{}, fmt.Errorf("ingest: read csv profile: empty input")
	}
	table, err := buildTable(ctx, records[0], records[1:], 2)
	if err != nil {
		return profile.Table{}, fmt.Errorf("ingest: read csv profile: %w", err)
	}
	return table, nil
}

// ReadCatalog parses a CSV catalog with code/display_name or Typname/Typtext columns.
func ReadCatalog(r io.Reader) ([]core.CategoryInfo, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	catalog, err := catalogFromRows(records)
	if err != nil {
		return nil, fmt.Errorf("ingest: read csv catalog: %w", err)
	}
	return catalog, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: parse csv: %w", err)
	}
	return records, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than commas.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
	"github.com/janekbaraniewski/synthload/internal/profile/profiletest"
	"github.com/janekbaraniewski/synthload/internal/profiledb"
	"github.com/xuri/excelize/v2"
)

// renderCSV writes table in the layout ReadTable expects.
func renderCSV(table profile.Table, sep string, decimalComma bool) string {
	var b strings.Builder
	b.WriteString("timestamp" + sep + strings.Join(table.Categories, sep) + "\n")
	for i, ts := range table.Timestamps {
		b.WriteString(ts.Format("2006-01-02 15:04:05"))
		for _, code := range table.Categories {
			v := strconv.FormatFloat(table.Columns[code][i], 'f', -1, 64)
			if decimalComma {
				v = strings.Replace(v, ".", ",", 1)
			}
			b.WriteString(sep + v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTable_Delimiters(t *testing.T) {
	want := profiletest.Table(2023,
		profiletest.Column{Code: "H0", Total: 1000},
		profiletest.Column{Code: "G0", Total: 1000, Weight: profiletest.ByMonth},
	)
	tests := []struct {
		name         string
		sep          string
		decimalComma bool
	}{
		{"comma", ",", false},
		{"semicolon", ";", false},
		{"semicolon with decimal comma", ";", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "\xEF\xBB\xBF" + renderCSV(want, tt.sep, tt.decimalComma)
			got, err := ReadTable(context.Background(), strings.NewReader(input))
			if err != nil {
				t.Fatalf("ReadTable: %v", err)
			}
			if err := got.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if strings.Join(got.Categories, ",") != "H0,G0" {
				t.Errorf("categories = %v", got.Categories)
			}
			if got.Columns["G0"][34000] != want.Columns["G0"][34000] {
				t.Errorf("G0[34000] = %v, want %v", got.Columns["G0"][34000], want.Columns["G0"][34000])
			}
			if !got.Timestamps[5].Equal(want.Timestamps[5]) {
				t.Errorf("timestamp[5] = %v, want %v", got.Timestamps[5], want.Timestamps[5])
			}
		})
	}
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty input"},
		{"no categories", "timestamp\n2024-01-01 00:00:00\n", "want a timestamp"},
		{"duplicate column", "ts,H0,H0\n", "duplicate"},
		{"bad value", "ts,H0\n2024-01-01 00:00:00,0.1\n2024-01-01 00:15:00,n/a\n", "line 3"},
		{"bad timestamp", "ts,H0\nsoon,0.1\n", "line 2"},
		{"short row", "ts,H0,G0\n2024-01-01 00:00:00,0.1\n", "missing value for G0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(context.Background(), strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadTable_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := renderCSV(profiletest.Table(2023, profiletest.Column{Code: "H0", Total: 1000}), ",", false)
	if _, err := ReadTable(ctx, strings.NewReader(input)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReadCatalog(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"code columns", "code,display_name\nH0,Haushalt\nG0,Gewerbe allgemein\n"},
		{"workbook columns", "Typname;Typtext;Bemerkung\nH0;Haushalt;x\nG0;Gewerbe allgemein;y\n;ignored;z\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCatalog(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCatalog: %v", err)
			}
			want := []core.CategoryInfo{{Code: "H0", DisplayName: "Haushalt"}, {Code: "G0", DisplayName: "Gewerbe allgemein"}}
			if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
				t.Errorf("catalog = %v, want %v", got, want)
			}
		})
	}

	if _, err := ReadCatalog(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Error("catalog without code/name header accepted")
	}
}

func writeWorkbook(t *testing.T, table profile.Table, catalog []core.CategoryInfo) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	header := []interface{}{"Zeitstempel"}
	units := []interface{}{nil}
	for _, code := range table.Categories {
		header = append(header, code)
		units = append(units, "kWh")
	}
	if err := sw.SetRow("A1", header); err != nil {
		t.Fatal(err)
	}
	if err := sw.SetRow("A2", units); err != nil {
		t.Fatal(err)
	}
	for i, ts := range table.Timestamps {
		row := []interface{}{ts.Format("2006-01-02 15:04:05")}
		for _, code := range table.Categories {
			row = append(row, table.Columns[code][i])
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			t.Fatal(err)
		}
		if err := sw.SetRow(cellName, row); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Flush(); err != nil {
		t.Fatal(err)
	}

	if catalog != nil {
		if _, err := f.NewSheet("Kategorien"); err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Kategorien", "A1", &[]interface{}{"Typname", "Typtext"}); err != nil {
			t.Fatal(err)
		}
		for i, c := range catalog {
			cellName, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow("Kategorien", cellName, &[]interface{}{c.Code, c.DisplayName}); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "synthload2023.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadWorkbook(t *testing.T) {
	table := profiletest.Table(2023, profiletest.Column{Code: "H0", Total: 1000})
	path := writeWorkbook(t, table, profiletest.Catalog("H0", "Haushalt", "G0", "Gewerbe"))

	got, catalog, err := ReadWorkbook(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(got.Timestamps) != 35040 {
		t.Fatalf("rows = %d, want 35040", len(got.Timestamps))
	}
	if !got.Timestamps[0].Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first timestamp = %v", got.Timestamps[0])
	}
	if len(catalog) != 2 || catalog[0].DisplayName != "Haushalt" {
		t.Errorf("catalog = %v", catalog)
	}

	store, err := profile.New(got, catalog)
	if err != nil {
		t.Fatalf("profile.New: %v", err)
	}
	if total, err := store.TotalAnnualEnergy("H0"); err != nil || total != 1000 {
		t.Errorf("TotalAnnualEnergy = %v, %v", total, err)
	}
}

func TestLoad_CSVWithCatalogFile(t *testing.T) {
	table, _ := profiletest.Standard(2024)
	data := writeFile(t, "profile.csv", renderCSV(table, ";", true))
	catalog := writeFile(t, "Kategorien.csv", "Typname;Typtext\nH0;Haushalt\n")

	store, err := Load(context.Background(), Source{Path: data, CatalogPath: catalog})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Year() != 2024 || len(store.Categories()) != 5 {
		t.Errorf("store = %s", store)
	}
	if name, ok := store.DisplayName("H0"); !ok || name != "Haushalt" {
		t.Errorf("DisplayName(H0) = %q, %v", name, ok)
	}
	if _, ok := store.DisplayName("G0"); ok {
		t.Error("G0 should have no display name with the separate catalog")
	}
}

func TestLoad_SQLite(t *testing.T) {
	table, catalog := profiletest.Standard(2023)
	path := filepath.Join(t.TempDir(), "profile.db")
	db, err := profiledb.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Save(context.Background(), table, catalog, "test"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	store, err := Load(context.Background(), Source{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if name, _ := store.DisplayName("G0"); name != "Gewerbe allgemein" {
		t.Errorf("DisplayName(G0) = %q", name)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Load(ctx, Source{}); err == nil {
		t.Error("empty source accepted")
	}
	if _, err := Load(ctx, Source{Path: "profile.parquet"}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v, want unsupported file type", err)
	}
	if _, err := Load(ctx, Source{Path: filepath.Join(t.TempDir(), "missing.db")}); err == nil {
		t.Error("missing database accepted")
	}

	partial := profiletest.Table(2023, profiletest.Column{Code: "H0", Total: 1000})
	partial.Timestamps = partial.Timestamps[:96]
	partial.Columns["H0"] = partial.Columns["H0"][:96]
	path := writeFile(t, "partial.csv", renderCSV(partial, ",", false))
	if _, err := Load(ctx, Source{Path: path}); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("err = %v, want ErrInvalidProfile", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"data/synthload2024.xlsx": FormatXLSX,
		"PROFILE.CSV":             FormatCSV,
		"state/profile.db":        FormatSQLite,
		"x.sqlite3":               FormatSQLite,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v, want %q", path, got, err, want)
		}
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janekbaraniewski/synthload/internal/config"
	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile/profiletest"
)

type fixture struct {
	dir     string
	data    string
	catalog string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	table, catalog := profiletest.Standard(2024)
	return fixture{
		dir:     dir,
		data:    profiletest.WriteCSV(t, dir, table),
		catalog: profiletest.WriteCatalogCSV(t, dir, catalog),
	}
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataFile = f.data
	cfg.CatalogFile = f.catalog

	var out bytes.Buffer
	root := newRootCommand(cfg)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestEnergyCommand(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "defaults",
			args: []string{"energy", "2024-01-01"},
			want: "Daily energy consumption for 2024-01-01 (H0): 2.73 kWh (0.27% of year).\n",
		},
		{
			name: "legacy alias with yearly sum",
			args: []string{"de", "2024-01-01", "-y", "5500"},
			want: "Daily energy consumption for 2024-01-01 (H0): 15.03 kWh (0.27% of year).\n",
		},
		{
			name: "category flag",
			args: []string{"energy", "2024-01-01", "-k", "L0"},
			want: "Daily energy consumption for 2024-01-01 (L0): 2.75 kWh (0.27% of year).\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.run(t, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonthCommand_JSON(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "pm", "2024-02", "-o", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got core.MonthResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.TotalKwh != 79.17 || got.TotalPercentage != 7.83 || len(got.DailyValues) != 29 {
		t.Errorf("month = %v kWh, %v%%, %d days", got.TotalKwh, got.TotalPercentage, len(got.DailyValues))
	}
	if got.CategoryName != "Haushalt" {
		t.Errorf("category_name = %q", got.CategoryName)
	}
}

func TestQueryError_JSON(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "energy", "2024-13-01", "-o", "json")
	if err == nil {
		t.Fatal("expected error")
	}
	var got core.ErrorResult
	if jerr := json.Unmarshal([]byte(out), &got); jerr != nil {
		t.Fatalf("decode: %v\n%s", jerr, out)
	}
	if got.Kind != core.KindInvalidPeriod || got.Input != "2024-13-01" {
		t.Errorf("error document = %+v", got)
	}
}

func TestOtherCommands(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{name: "day", args: []string{"day", "2024-01-01"}, contains: []string{"(Haushalt): 2.73 kWh", "23:00"}},
		{name: "day quarters", args: []string{"pd", "2024-01-01", "--quarters"}, contains: []string{"23:45:00"}},
		{name: "year-months", args: []string{"year-months", "2024"}, contains: []string{"1000.00 kWh", "Jan"}},
		{name: "year-days", args: []string{"pyd", "2024"}, contains: []string{"2024-12-31"}},
		{name: "categories", args: []string{"categories"}, contains: []string{"H0", "Haushalt", "Z9", core.UnknownCategoryName}},
		{name: "chart", args: []string{"year-months", "2024", "-o", "chart"}, contains: []string{"Haushalt · 2024 · 1000.00 kWh"}},
		{name: "version", args: []string{"version", "-o", "json"}, contains: []string{`"version"`, `"build_date"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.run(t, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown output", args: []string{"energy", "2024-01-01", "-o", "xml"}, wantErr: "unknown output format"},
		{name: "missing data file", args: []string{"energy", "2024-01-01", "--data", filepath.Join(f.dir, "absent.csv")}, wantErr: "synthload fetch"},
		{name: "unknown category", args: []string{"month", "2024-02", "-k", "NOPE"}, wantErr: "NOPE"},
		{name: "outside loaded year", args: []string{"year-days", "2023"}, wantErr: "2023"},
		{name: "missing period", args: []string{"energy"}, wantErr: "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestImportThenQueryDatabase(t *testing.T) {
	f := newFixture(t)
	db := filepath.Join(f.dir, "profile.db")

	out, err := f.run(t, "import", "--db", db, "--use")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 35136 rows, 5 categories") || !strings.Contains(out, "profile year 2024") {
		t.Errorf("import output:\n%s", out)
	}

	cfg, err := config.LoadFrom(config.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataFile != db {
		t.Errorf("config data_file = %q, want %q", cfg.DataFile, db)
	}

	got, err := f.run(t, "energy", "2024-01-01", "--data", db, "--catalog", "")
	if err != nil {
		t.Fatalf("energy from database: %v", err)
	}
	if !strings.Contains(got, "2.73 kWh") {
		t.Errorf("energy from database = %q", got)
	}
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/janekbaraniewski/synthload/internal/engine"
	"github.com/janekbaraniewski/synthload/internal/ingest"
	"github.com/janekbaraniewski/synthload/internal/profile/profiletest"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.DefaultYearlySum == 0 {
		cfg.DefaultYearlySum = 1000
	}
	s := New(cfg, engine.New(profiletest.NewStore(t, 2024)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
	return resp, body
}

func TestHandlers_Success(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	tests := []struct {
		name  string
		path  string
		field string
		want  any
	}{
		{"energy", "/api/v1/energy?date=2024-01-01&category=H0", "daily_kwh", 2.73},
		{"energy legacy", "/api/de?date=2024-01-01&kategorie=H0&yearly_sum=5500", "daily_kwh", 15.03},
		{"day", "/api/v1/day?date=2024-01-01", "total_kwh", 2.73},
		{"day legacy", "/api/pd?date=2024-01-01&kategorie=G0", "category_name", "Gewerbe allgemein"},
		{"month", "/api/v1/month?month=2024-02", "total_kwh", 79.17},
		{"month from date", "/api/pm?date=2024-02-14", "month", "2024-02"},
		{"year months", "/api/v1/year-months?year=2024", "total_kwh", 1000.0},
		{"year months legacy", "/api/pym?date=2024", "year", 2024.0},
		{"year days", "/api/v1/year-days?year=2024", "total_kwh", 999.18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if body[tt.field] != tt.want {
				t.Errorf("%s = %v, want %v", tt.field, body[tt.field], tt.want)
			}
		})
	}
}

func TestHandlers_Errors(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantKind   string
	}{
		{"missing date", "/api/v1/energy", http.StatusBadRequest, "invalid_argument"},
		{"bad yearly sum", "/api/v1/energy?date=2024-01-01&yearly_sum=lots", http.StatusBadRequest, "invalid_argument"},
		{"negative yearly sum", "/api/v1/month?month=2024-01&yearly_sum=-5", http.StatusBadRequest, "invalid_argument"},
		{"bad date", "/api/v1/day?date=01.01.2024", http.StatusBadRequest, "invalid_period"},
		{"year months needs YYYY", "/api/pym?date=2024-05-01", http.StatusBadRequest, "invalid_period"},
		{"year days needs YYYY", "/api/pyd?date=2024-01", http.StatusBadRequest, "invalid_period"},
		{"outside year", "/api/v1/energy?date=2023-01-01", http.StatusBadRequest, "invalid_period"},
		{"no display name", "/api/v1/energy?date=2024-01-01&category=Z9", http.StatusNotFound, "category_display_name_missing"},
		{"no data column", "/api/v1/month?month=2024-01&category=B9", http.StatusNotFound, "category_not_found"},
		{"not normalized", "/api/v1/year-days?year=2024&category=X0", http.StatusUnprocessableEntity, "normalization_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body["kind"] != tt.wantKind {
				t.Errorf("kind = %v, want %s", body["kind"], tt.wantKind)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestHandlers_ErrorEchoesInput(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	_, body := get(t, ts, "/api/v1/day?date=2024-02-30")
	if body["input"] != "2024-02-30" {
		t.Errorf("input = %v, want 2024-02-30", body["input"])
	}
}

func TestCategories(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/api/categories")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []struct {
		Code        string `json:"code"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 || got[0].Code != "H0" || got[0].DisplayName != "Haushalt" {
		t.Errorf("categories = %+v", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, err := http.Post(ts.URL+"/api/v1/energy?date=2024-01-01", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRequestID(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, _ := get(t, ts, "/healthz")
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("generated request id %q: %v", resp.Header.Get(RequestIDHeader), err)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("echoed request id = %q", got)
	}
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	get(t, ts, "/api/v1/energy?date=2024-01-01")
	get(t, ts, "/api/v1/energy?date=2024-01-01&category=Z9")

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	text := string(raw)

	for _, want := range []string{
		`synthload_http_requests_total{route="energy",status="200"} 1`,
		`synthload_http_requests_total{route="energy",status="404"} 1`,
		`synthload_query_errors_total{kind="category_display_name_missing"} 1`,
		`synthload_profile_year 2024`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", resp.StatusCode, body)
	}
	if body["profile_year"] != 2024.0 || body["api_version"] != APIVersion {
		t.Errorf("healthz body = %v", body)
	}
}

func TestNotLoaded(t *testing.T) {
	s := New(Config{}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/api/v1/energy?date=2024-01-01")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if body["error"] != "profile not loaded" {
		t.Errorf("body = %v", body)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	table, catalog := profiletest.Standard(2023)
	src := ingest.Source{
		Path:        profiletest.WriteCSV(t, dir, table),
		CatalogPath: profiletest.WriteCatalogCSV(t, dir, catalog),
	}
	s, ts := newTestServer(t, Config{Source: src})

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	_, body := get(t, ts, "/healthz")
	if body["profile_year"] != 2023.0 {
		t.Errorf("profile_year = %v, want 2023", body["profile_year"])
	}

	// A broken file leaves the previous profile serving.
	if err := os.WriteFile(src.Path, []byte("timestamp,H0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("Reload of broken file succeeded")
	}
	if got := s.Engine().Store().Year(); got != 2023 {
		t.Errorf("year after failed reload = %d, want 2023", got)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	table, catalog := profiletest.Standard(2023)
	src := ingest.Source{
		Path:        profiletest.WriteCSV(t, dir, table),
		CatalogPath: profiletest.WriteCatalogCSV(t, dir, catalog),
	}
	s, _ := newTestServer(t, Config{Source: src})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}

	next, _ := profiletest.Standard(2025)
	profiletest.WriteCSV(t, dir, next)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if s.Engine().Store().Year() == 2025 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("profile year = %d after file change, want 2025", s.Engine().Store().Year())
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(context.Canceled); got != http.StatusServiceUnavailable {
		t.Errorf("statusFor(canceled) = %d", got)
	}
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(EOF) = %d", got)
	}
}

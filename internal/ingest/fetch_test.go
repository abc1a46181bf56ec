package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func serveBytes(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "synthload/test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	body := zipBytes(t, map[string]string{
		"synthload2024.xlsx": "workbook",
		"docs/readme.txt":    "hello",
	})
	srv := serveBytes(t, body, http.StatusOK)
	dir := filepath.Join(t.TempDir(), "data")

	res, err := Fetch(context.Background(), FetchOptions{
		URL:       srv.URL + "/apcs/clearing/lastprofile/synthload2024.zip",
		DataDir:   dir,
		UserAgent: "synthload/test",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Downloaded != int64(len(body)) || len(res.Files) != 2 {
		t.Errorf("result = %+v", res)
	}
	if filepath.Base(res.Archive) != "synthload2024.zip" {
		t.Errorf("archive = %q", res.Archive)
	}
	if _, err := os.Stat(res.Archive); !os.IsNotExist(err) {
		t.Errorf("archive not removed: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "docs", "readme.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("extracted readme = %q, %v", got, err)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := serveBytes(t, []byte("gone"), http.StatusNotFound)
	dir := t.TempDir()

	_, err := Fetch(context.Background(), FetchOptions{URL: srv.URL + "/x.zip", DataDir: dir, UserAgent: "synthload/test"})
	if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("err = %v, want HTTP 404", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("data dir not empty after failed fetch: %d entries", len(entries))
	}
}

func TestFetch_RejectsEscapingEntries(t *testing.T) {
	body := zipBytes(t, map[string]string{"../evil.txt": "x"})
	srv := serveBytes(t, body, http.StatusOK)
	dir := filepath.Join(t.TempDir(), "data")

	_, err := Fetch(context.Background(), FetchOptions{URL: srv.URL + "/p.zip", DataDir: dir, UserAgent: "synthload/test"})
	if err == nil {
		t.Fatal("archive with an escaping entry was accepted")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil.txt")); !os.IsNotExist(err) {
		t.Error("escaping entry was written")
	}
}

func TestFetch_RequiresDataDir(t *testing.T) {
	if _, err := Fetch(context.Background(), FetchOptions{URL: "http://127.0.0.1:1/x.zip"}); err == nil {
		t.Fatal("Fetch without data dir succeeded")
	}
}

func TestArchiveName(t *testing.T) {
	tests := map[string]string{
		DefaultDownloadURL:              "synthload2024.zip",
		"https://example.com/":          "profile.zip",
		"https://example.com/a/b.zip?x": "b.zip",
	}
	for in, want := range tests {
		if got := archiveName(in); got != want {
			t.Errorf("archiveName(%q) = %q, want %q", in, got, want)
		}
	}
}

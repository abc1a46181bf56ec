package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultDownloadURL    = "https://www.apcs.at/apcs/clearing/lastprofile/synthload2024.zip"
	DefaultDataFile       = "synthload2024.xlsx"
	defaultRequestTimeout = 2 * time.Minute
)

type FetchOptions struct {
	URL        string
	DataDir    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type FetchResult struct {
	Archive    string
	Downloaded int64
	Files      []string
}

// Fetch downloads the profile archive into DataDir, extracts it there and
// removes the archive.
func Fetch(ctx context.Context, opts FetchOptions) (FetchResult, error) {
	rawURL := strings.TrimSpace(opts.URL)
	if rawURL == "" {
		rawURL = DefaultDownloadURL
	}
	dataDir := strings.TrimSpace(opts.DataDir)
	if dataDir == "" {
		return FetchResult{}, fmt.Errorf("ingest: fetch: no data dir")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return FetchResult{}, fmt.Errorf("ingest: creating data dir: %w", err)
	}

	archive := filepath.Join(dataDir, archiveName(rawURL))
	n, err := download(ctx, opts, rawURL, archive)
	if err != nil {
		os.Remove(archive)
		return FetchResult{}, err
	}

	files, err := extractZip(archive, dataDir)
	if removeErr := os.Remove(archive); removeErr != nil && err == nil {
		err = fmt.Errorf("ingest: remove archive: %w", removeErr)
	}
	if err != nil {
		return FetchResult{}, err
	}
	return FetchResult{Archive: archive, Downloaded: n, Files: files}, nil
}

func download(ctx context.Context, opts FetchOptions, rawURL, dest string) (int64, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("ingest: build download request: %w", err)
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ingest: download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ingest: download %s: HTTP %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("ingest: create archive: %w", err)
	}
	n, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("ingest: write archive: %w", err)
	}
	return n, nil
}

// extractZip writes every regular file of the archive below dir and returns
// the written paths. Entries that would escape dir are rejected.
func extractZip(archive, dir string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("ingest: open archive: %w", err)
	}
	defer zr.Close()

	var files []string
	for _, entry := range zr.File {
		name := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(name) {
			return files, fmt.Errorf("ingest: archive entry %q escapes data dir", entry.Name)
		}
		target := filepath.Join(dir, name)
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, fmt.Errorf("ingest: extract %s: %w", entry.Name, err)
			}
			continue
		}
		if err := extractFile(entry, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}
	return files, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("ingest: extract %s: %w", entry.Name, err)
	}
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("ingest: extract %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("ingest: extract %s: %w", entry.Name, err)
	}
	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("ingest: extract %s: %w", entry.Name, err)
	}
	return nil
}

func archiveName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			return base
		}
	}
	return "profile.zip"
}

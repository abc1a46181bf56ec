package api

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// watch reloads the profile whenever the data or catalog file changes. The
// parent directory is watched so that editors replacing files are seen.
func (s *Server) watch(ctx context.Context) error {
	targets := map[string]bool{}
	for _, p := range []string{s.cfg.Source.Path, s.cfg.Source.CatalogPath} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("api: watch %s: %w", p, err)
		}
		targets[abs] = true
	}
	if len(targets) == 0 {
		return fmt.Errorf("api: watch: no data file")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("api: watch: %w", err)
	}
	dirs := map[string]bool{}
	for p := range targets {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("api: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	go s.watchLoop(ctx, w, targets)
	s.infof("watch_started", "files=%d", len(targets))
	return nil
}

func (s *Server) watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]bool) {
	defer w.Close()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if s.shouldLog("watch_error", time.Minute) {
				s.warnf("watch_error", "error=%v", err)
			}
		case <-timerCh:
			timerCh = nil
			_ = s.Reload(ctx)
		}
	}
}

// Package api serves the aggregation engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/janekbaraniewski/synthload/internal/engine"
	"github.com/janekbaraniewski/synthload/internal/ingest"
)

const APIVersion = "v1"

type Config struct {
	Addr             string
	Source           ingest.Source
	DefaultCategory  string
	DefaultYearlySum float64
	Watch            bool
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	Verbose          bool
	// AccessLog receives combined-format access lines when Verbose is set.
	AccessLog io.Writer
}

type Server struct {
	cfg     Config
	engine  atomic.Pointer[engine.Engine]
	metrics *Metrics
	loadMu  sync.Mutex

	logMu     sync.Mutex
	lastLogAt map[string]time.Time
}

// New serves eng until a reload replaces it.
func New(cfg Config, eng *engine.Engine) *Server {
	if strings.TrimSpace(cfg.DefaultCategory) == "" {
		cfg.DefaultCategory = "H0"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.AccessLog == nil {
		cfg.AccessLog = os.Stderr
	}
	s := &Server{
		cfg:       cfg,
		metrics:   NewMetrics(),
		lastLogAt: make(map[string]time.Time),
	}
	s.swap(eng)
	return s
}

func (s *Server) Engine() *engine.Engine { return s.engine.Load() }

func (s *Server) swap(eng *engine.Engine) {
	s.engine.Store(eng)
	if eng != nil {
		s.metrics.Reload(true, eng.Store().Year())
	}
}

// Reload builds a fresh store from the configured source and swaps it in.
// On failure the current store keeps serving.
func (s *Server) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	store, err := ingest.Load(ctx, s.cfg.Source)
	if err != nil {
		s.metrics.Reload(false, 0)
		s.warnf("reload_failed", "path=%s error=%v", s.cfg.Source.Path, err)
		return fmt.Errorf("api: reload: %w", err)
	}
	s.swap(engine.New(store))
	s.infof("reload_ok", "path=%s profile=%q", s.cfg.Source.Path, store.String())
	return nil
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)

	routes := []struct {
		name    string
		paths   []string
		handler http.HandlerFunc
	}{
		{"energy", []string{"/api/v1/energy", "/api/de"}, s.handleEnergy},
		{"day", []string{"/api/v1/day", "/api/pd"}, s.handleDay},
		{"month", []string{"/api/v1/month", "/api/pm"}, s.handleMonth},
		{"year_months", []string{"/api/v1/year-months", "/api/pym"}, s.handleYearMonths},
		{"year_days", []string{"/api/v1/year-days", "/api/pyd"}, s.handleYearDays},
		{"categories", []string{"/api/v1/categories", "/api/categories"}, s.handleCategories},
		{"healthz", []string{"/healthz"}, s.handleHealth},
	}
	for _, route := range routes {
		h := s.metrics.WrapHandler(route.name, route.handler)
		for _, p := range route.paths {
			r.Handle(p, h).Methods(http.MethodGet)
		}
	}
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet}),
		handlers.AllowedOrigins([]string{"*"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Default()),
		handlers.PrintRecoveryStack(s.cfg.Verbose),
	)(h)
	if s.cfg.Verbose {
		h = handlers.CombinedLoggingHandler(s.cfg.AccessLog, h)
	}
	return h
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	if s.cfg.Watch {
		if err := s.watch(ctx); err != nil {
			s.warnf("watch_disabled", "error=%v", err)
		}
	}

	go func() {
		<-ctx.Done()
		s.infof("server_shutdown", "reason=context_done")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.infof("server_listening", "addr=%s", listener.Addr())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve: %w", err)
	}
	return nil
}

// RunServer serves eng until SIGINT or SIGTERM.
func RunServer(cfg Config, eng *engine.Engine) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := New(cfg, eng)
	err := s.Run(ctx)
	s.infof("server_stop", "reason=signal")
	return err
}

// --- Logging ---

func (s *Server) infof(event, format string, args ...any) {
	if s == nil || !s.cfg.Verbose {
		return
	}
	if strings.TrimSpace(format) == "" {
		log.Printf("api level=info event=%s", event)
		return
	}
	log.Printf("api level=info event=%s "+format, append([]any{event}, args...)...)
}

func (s *Server) warnf(event, format string, args ...any) {
	if s == nil || !s.cfg.Verbose {
		return
	}
	if strings.TrimSpace(format) == "" {
		log.Printf("api level=warn event=%s", event)
		return
	}
	log.Printf("api level=warn event=%s "+format, append([]any{event}, args...)...)
}

func (s *Server) shouldLog(key string, interval time.Duration) bool {
	if s == nil {
		return false
	}
	s.logMu.Lock()
	defer s.logMu.Unlock()
	now := time.Now()
	if interval > 0 {
		if last, ok := s.lastLogAt[key]; ok && now.Sub(last) < interval {
			return false
		}
	}
	s.lastLogAt[key] = now
	return true
}

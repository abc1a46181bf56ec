package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/engine"
	"github.com/janekbaraniewski/synthload/internal/version"
)

// query carries the parameters shared by every aggregation route.
type query struct {
	period    string
	category  string
	yearlySum float64
}

// parseQuery reads period (date, or month/year as aliases), category (or
// the German kategorie) and yearly_sum, falling back to configured defaults.
func (s *Server) parseQuery(r *http.Request, periodKeys ...string) (query, error) {
	v := r.URL.Query()
	q := query{category: s.cfg.DefaultCategory, yearlySum: s.cfg.DefaultYearlySum}

	for _, key := range periodKeys {
		if p := strings.TrimSpace(v.Get(key)); p != "" {
			q.period = p
			break
		}
	}
	if q.period == "" {
		return query{}, core.InvalidArgument("", periodKeys[0]+" is required")
	}

	for _, key := range []string{"category", "kategorie"} {
		if c := strings.TrimSpace(v.Get(key)); c != "" {
			q.category = c
			break
		}
	}

	if raw := strings.TrimSpace(v.Get("yearly_sum")); raw != "" {
		sum, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query{}, core.InvalidArgument(raw, "yearly_sum must be a number")
		}
		q.yearlySum = sum
	}
	return q, nil
}

// serveQuery is the common shape of the aggregation handlers.
func (s *Server) serveQuery(w http.ResponseWriter, r *http.Request, periodKeys []string, run func(*engine.Engine, query) (any, error)) {
	eng := s.Engine()
	if eng == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "profile not loaded")
		return
	}
	q, err := s.parseQuery(r, periodKeys...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := run(eng, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, []string{"date"}, func(e *engine.Engine, q query) (any, error) {
		return e.DayEnergy(q.category, q.period, q.yearlySum)
	})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, []string{"date"}, func(e *engine.Engine, q query) (any, error) {
		return e.DayProfile(q.category, q.period, q.yearlySum)
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, []string{"date", "month"}, func(e *engine.Engine, q query) (any, error) {
		return e.Month(q.category, q.period, q.yearlySum)
	})
}

func (s *Server) handleYearMonths(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, []string{"date", "year"}, func(e *engine.Engine, q query) (any, error) {
		return e.YearMonths(q.category, q.period, q.yearlySum)
	})
}

func (s *Server) handleYearDays(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, []string{"date", "year"}, func(e *engine.Engine, q query) (any, error) {
		return e.YearDays(q.category, q.period, q.yearlySum)
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	eng := s.Engine()
	if eng == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "profile not loaded")
		return
	}
	writeJSON(w, http.StatusOK, eng.Categories())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"status":      "ok",
		"version":     strings.TrimSpace(version.Version),
		"api_version": APIVersion,
	}
	if eng := s.Engine(); eng != nil {
		payload["profile_year"] = eng.Store().Year()
		payload["categories"] = len(eng.Store().Categories())
	} else {
		payload["status"] = "loading"
	}
	writeJSON(w, http.StatusOK, payload)
}

// statusFor maps aggregation errors to HTTP status codes.
func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindInvalidPeriod, core.KindInvalidArgument:
		return http.StatusBadRequest
	case core.KindCategoryNotFound, core.KindDisplayNameMissing:
		return http.StatusNotFound
	case core.KindNormalization:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	kind := string(core.KindOf(err))
	if kind == "" {
		kind = "internal"
	}
	s.metrics.QueryError(kind)
	if status >= http.StatusInternalServerError || s.shouldLog("query_error:"+kind, 10*time.Second) {
		s.warnf("query_error", "path=%s request_id=%s kind=%s error=%q", r.URL.Path, RequestID(r.Context()), kind, err.Error())
	}
	writeJSON(w, status, core.NewErrorResult(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

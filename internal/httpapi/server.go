// Package httpapi is the HTTP transport over the command dispatcher. It owns
// authentication, role gating and error-to-status mapping; all business
// operations go through the dispatcher.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/command"
	"officine.sn/internal/grid"
	"officine.sn/internal/inspection"
	"officine.sn/internal/obs"
	"officine.sn/internal/stream"
)

// ReadyProbe reports whether the backing store is reachable. With no DB the
// in-memory store is always ready.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config carries the tunables of the HTTP layer.
type Config struct {
	Version       string
	RateBurst     int
	RatePerSecond int
	MaxBodyBytes  int64
}

func (c *Config) fill() {
	if c.RateBurst <= 0 {
		c.RateBurst = 50
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 25
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	dispatcher *command.Dispatcher
	grids      grid.Catalog
	events     *stream.Stream
	trail      audit.Recorder
	readyProbe ReadyProbe
	cfg        Config
}

func New(d *command.Dispatcher, grids grid.Catalog, events *stream.Stream, trail audit.Recorder, rp ReadyProbe, cfg Config) *API {
	cfg.fill()
	a := &API{
		mux:        http.NewServeMux(),
		dispatcher: d,
		grids:      grids,
		events:     events,
		trail:      trail,
		readyProbe: rp,
		cfg:        cfg,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/v1/auth/session", a.handleSession)

	a.mux.HandleFunc("/v1/users", a.handleUsersCollection)
	a.mux.HandleFunc("/v1/users/", a.handleUserResource)

	a.mux.HandleFunc("/v1/inspections", a.handleInspectionsCollection)
	a.mux.HandleFunc("/v1/inspections/", a.handleInspectionResource)

	a.mux.HandleFunc("/v1/grids", a.handleGrids)
	a.mux.HandleFunc("/v1/grids/", a.handleGridResource)

	a.mux.HandleFunc("/v1/stats", a.handleStats)
	a.mux.HandleFunc("/v1/stats/trend", a.handleTrend)

	a.mux.HandleFunc("/v1/exports/csv", a.handleExportCSV)
	a.mux.HandleFunc("/v1/exports/json", a.handleExportJSON)

	a.mux.HandleFunc("/v1/audit", a.handleAudit)
	a.mux.HandleFunc("/v1/audit/count", a.handleAuditCount)

	a.mux.HandleFunc("/v1/stream", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, a.cfg.RateBurst, a.cfg.RatePerSecond)
	h = MaxBodyBytes(h, a.cfg.MaxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "officine-api",
		"version": a.cfg.Version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "officine-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.cfg.Version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := audit.RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleCoreError translates service and dispatcher errors to HTTP statuses.
func handleCoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingField),
		errors.Is(err, command.ErrValidation),
		errors.Is(err, inspection.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidSession):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrNotFound),
		errors.Is(err, inspection.ErrNotFound),
		errors.Is(err, command.ErrGridNotFound),
		errors.Is(err, command.ErrUnknownCommand):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrConflict),
		errors.Is(err, inspection.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

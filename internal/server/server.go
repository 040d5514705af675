// Package server exposes an imported budget database over HTTP: the JSON
// comparison endpoint the dashboard fetches from, and a static SVG render.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/store"
	"go.uber.org/zap"
)

type Handler struct {
	Store *store.Store
	Log   *zap.Logger
	// Chart sizes the SVG render. Durations are ignored; the render is always
	// fully grown.
	Chart chart.Options
	now   func() time.Time
}

func NewHandler(st *store.Store, opts chart.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: st, Log: logger, Chart: opts, now: time.Now}
}

// Routes returns the router for every endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.ServeHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/comparison", h.ServeComparison)
		r.Get("/municipalities", h.ServeMunicipalities)
	})
	r.Get("/chart.svg", h.ServeChartSVG)
	return r
}

func (h *Handler) ServeHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// ServeComparison handles GET /api/comparison?municipality=&code=&year=.
func (h *Handler) ServeComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	municipality := strings.TrimSpace(q.Get("municipality"))
	if municipality == "" {
		writeJSONError(w, http.StatusBadRequest, "municipality is required")
		return
	}

	resp, err := h.Store.Comparison(r.Context(), municipality, q.Get("code"), q.Get("year"))
	if err != nil {
		h.Log.Error("comparison query failed", zap.String("municipality", municipality), zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "comparison query failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ServeMunicipalities(w http.ResponseWriter, r *http.Request) {
	ms, err := h.Store.Municipalities(r.Context())
	if err != nil {
		h.Log.Error("municipality query failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "municipality query failed")
		return
	}
	if ms == nil {
		ms = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"municipalities": ms})
}

// ServeChartSVG renders the same comparison as a fully grown static chart.
// An empty dataset still renders, carrying the inline error.
func (h *Handler) ServeChartSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	municipality := strings.TrimSpace(q.Get("municipality"))
	if municipality == "" {
		http.Error(w, "municipality is required", http.StatusBadRequest)
		return
	}

	resp, err := h.Store.Comparison(r.Context(), municipality, q.Get("code"), q.Get("year"))
	if err != nil {
		h.Log.Error("comparison query failed", zap.String("municipality", municipality), zap.Error(err))
		http.Error(w, "comparison query failed", http.StatusInternalServerError)
		return
	}

	opts := h.Chart
	opts.GrowDuration, opts.HoverDuration, opts.FadeDuration = 0, 0, 0
	st := chart.New(opts, nil, h.Log)
	now := h.now()
	if err := st.Load(resp, now); err != nil {
		h.Log.Debug("rendering chart with inline error", zap.String("municipality", municipality), zap.Error(err))
	}
	st.Advance(now)

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.WriteSVG(w, st.Scene(now)); err != nil {
		h.Log.Warn("write svg failed", zap.Error(err))
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

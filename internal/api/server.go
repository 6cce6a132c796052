// Package api serves the recorded headline history over HTTP.
//
// The store file is reloaded on every request so a concurrently scheduled scrape is
// picked up without restarting the server. The API never writes to the store.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/dp-headlines/internal/chart"
	"github.com/pfrederiksen/dp-headlines/internal/headline"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/storage"
)

// Server exposes a store file read-only
type Server struct {
	storePath string
	log       *logger.Logger
}

// New creates a Server for the store at storePath
func New(storePath string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{storePath: storePath, log: log}
}

// Router returns the HTTP handler with all routes mounted
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(countRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/snapshots", s.handleList)
	r.Get("/snapshots/{date}", s.handleGet)
	r.Get("/chart", s.handleChart)

	return r
}

// countRequests increments a per-route counter on the default metrics tracker
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if pattern := chi.RouteContext(r.Context()).RoutePattern(); pattern != "" {
			logger.IncrCounter("api.requests " + pattern)
		}
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Count     int                  `json:"count"`
	Snapshots []*headline.Snapshot `json:"snapshots"`
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*storage.EventStore, bool) {
	start := time.Now()
	store, err := storage.Load(s.storePath)
	logger.RecordTiming("api.store_load", time.Since(start))
	if err != nil {
		logger.IncrCounter("api.store_errors")
		s.log.Error("Failed to load store", logger.Fields{
			"path":       s.storePath,
			"request_id": middleware.GetReqID(r.Context()),
		}, err)
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrStoreCorrupt) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return nil, false
	}
	logger.SetGauge("store.dates", float64(store.Len()))
	return store, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"dates":   store.Len(),
		"metrics": logger.GetMetricsSnapshot(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	store, ok := s.load(w, r)
	if !ok {
		return
	}
	snaps := store.Snapshots()
	writeJSON(w, http.StatusOK, listResponse{Count: len(snaps), Snapshots: snaps})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(headline.DateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}

	store, ok := s.load(w, r)
	if !ok {
		return
	}

	snap, found := store.Get(date)
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no snapshot for " + date})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	store, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderHeadlineCounts(w, store.Snapshots(), r.URL.Query().Get("title")); err != nil {
		s.log.Error("Failed to render chart", nil, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing useful to do with an encode error
	_ = json.NewEncoder(w).Encode(payload)
}

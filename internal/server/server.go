// Package server exposes grid expansion and spec storage over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jnothman/searchgrid"
	"github.com/jnothman/searchgrid/internal/logging"
	"github.com/jnothman/searchgrid/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// batchParallelism caps how many stored specs a batch request expands at once.
const batchParallelism = 4

// Server wires the expander, the spec store and the service metrics.
type Server struct {
	expander *searchgrid.Expander
	store    ports.SpecStore
	logger   *slog.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

// New creates a Server. A nil logger discards logs; a nil registry gets a
// private one (useful in tests).
func New(expander *searchgrid.Expander, store ports.SpecStore, logger *slog.Logger, reg *prometheus.Registry) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		expander: expander,
		store:    store,
		logger:   logger,
		metrics:  NewMetrics(reg),
		registry: reg,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/v1/expand", s.expand)
	r.Post("/v1/expand/batch", s.expandBatch)

	r.Route("/v1/specs", func(r chi.Router) {
		r.Get("/", s.listSpecs)
		r.Post("/", s.createSpec)
		r.Get("/{id}", s.getSpec)
		r.Put("/{id}", s.updateSpec)
		r.Delete("/{id}", s.deleteSpec)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type expandRequest struct {
	Name     string `json:"name,omitempty"`
	Document string `json:"document"`
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

type batchResult struct {
	ID        string                `json:"id"`
	Name      string                `json:"name,omitempty"`
	Error     string                `json:"error,omitempty"`
	Expansion *searchgrid.Expansion `json:"expansion,omitempty"`
}

type specRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
}

// expand handles POST /v1/expand: an inline document becomes grids + size.
func (s *Server) expand(w http.ResponseWriter, r *http.Request) {
	var body expandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("expand: invalid request body", "error", err)
		return
	}
	if body.Document == "" {
		http.Error(w, "document is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	exp, err := s.expander.Expand(r.Context(), []byte(body.Document))
	s.metrics.ExpandSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Expansions.WithLabelValues("error").Inc()
		http.Error(w, fmt.Sprintf("Expand error: %v", err), http.StatusUnprocessableEntity)
		s.logger.Warn("expand failed", "error", err)
		return
	}
	s.metrics.Expansions.WithLabelValues("ok").Inc()
	s.metrics.GridSize.Observe(float64(exp.Size))

	exp.Name = body.Name
	s.writeJSON(w, http.StatusOK, exp)
}

// expandBatch handles POST /v1/expand/batch: stored specs are expanded
// concurrently. Per-spec failures are reported in place, not as a request
// failure.
func (s *Server) expandBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("batch: invalid request body", "error", err)
		return
	}
	if len(body.IDs) == 0 {
		http.Error(w, "ids is required", http.StatusBadRequest)
		return
	}

	results := make([]batchResult, len(body.IDs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchParallelism)

	for i, id := range body.IDs {
		g.Go(func() error {
			rec, err := s.store.Get(ctx, id)
			if err != nil {
				results[i] = batchResult{ID: id, Error: err.Error()}
				return nil
			}

			start := time.Now()
			exp, err := s.expander.Expand(ctx, []byte(rec.Document))
			s.metrics.ExpandSeconds.Observe(time.Since(start).Seconds())
			if err != nil {
				s.metrics.Expansions.WithLabelValues("error").Inc()
				results[i] = batchResult{ID: id, Name: rec.Name, Error: err.Error()}
				return nil
			}
			s.metrics.Expansions.WithLabelValues("ok").Inc()
			s.metrics.GridSize.Observe(float64(exp.Size))

			exp.Name = rec.Name
			results[i] = batchResult{ID: id, Name: rec.Name, Expansion: exp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		http.Error(w, fmt.Sprintf("Batch error: %v", err), http.StatusInternalServerError)
		s.logger.Error("batch failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

// createSpec handles POST /v1/specs. Documents must compile before they are
// stored.
func (s *Server) createSpec(w http.ResponseWriter, r *http.Request) {
	var body specRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Document == "" {
		http.Error(w, "name and document are required", http.StatusBadRequest)
		return
	}
	if _, err := s.expander.Validate(r.Context(), []byte(body.Document)); err != nil {
		http.Error(w, fmt.Sprintf("Invalid document: %v", err), http.StatusUnprocessableEntity)
		return
	}

	now := time.Now().UTC()
	rec := &ports.SpecRecord{
		ID:        uuid.NewString(),
		Name:      body.Name,
		Document:  body.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("create spec failed", "error", err)
		return
	}

	s.logger.Info("spec created", "id", rec.ID, "name", rec.Name)
	s.writeJSON(w, http.StatusCreated, rec)
}

// getSpec handles GET /v1/specs/{id}.
func (s *Server) getSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrSpecNotFound) {
			http.Error(w, "spec not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("get spec failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// listSpecs handles GET /v1/specs.
func (s *Server) listSpecs(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("list specs failed", "error", err)
		return
	}
	if records == nil {
		records = []*ports.SpecRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// updateSpec handles PUT /v1/specs/{id}. The record keeps its creation
// timestamp.
func (s *Server) updateSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body specRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Document == "" {
		http.Error(w, "name and document are required", http.StatusBadRequest)
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrSpecNotFound) {
			http.Error(w, "spec not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}
	if _, err := s.expander.Validate(r.Context(), []byte(body.Document)); err != nil {
		http.Error(w, fmt.Sprintf("Invalid document: %v", err), http.StatusUnprocessableEntity)
		return
	}

	rec.Name = body.Name
	rec.Document = body.Document
	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), rec); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("update spec failed", "error", err)
		return
	}

	s.logger.Info("spec updated", "id", rec.ID, "name", rec.Name)
	s.writeJSON(w, http.StatusOK, rec)
}

// deleteSpec handles DELETE /v1/specs/{id}. Deleting an unknown spec is not
// an error.
func (s *Server) deleteSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("delete spec failed", "error", err)
		return
	}
	s.logger.Info("spec deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

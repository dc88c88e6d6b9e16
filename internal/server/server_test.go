package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jnothman/searchgrid"
	"github.com/jnothman/searchgrid/internal/server"
	"github.com/jnothman/searchgrid/pkg/adapters/memory"
	"github.com/jnothman/searchgrid/pkg/components"
	"github.com/jnothman/searchgrid/pkg/ports"
	"github.com/jnothman/searchgrid/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `version: 1
estimator:
  type: classifier
  grid:
    kernel: [linear, rbf]
`

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	reg := registry.New()
	components.Register(reg)
	expander := searchgrid.NewExpander(searchgrid.WithRegistry(reg))
	store := memory.NewStore()
	srv := server.New(expander, store, nil, prometheus.NewRegistry())
	return srv.Handler(), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestExpandEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/v1/expand", map[string]string{
		"name":     "svc-search",
		"document": validDoc,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var exp searchgrid.Expansion
	require.NoError(t, json.NewDecoder(w.Body).Decode(&exp))
	assert.Equal(t, "svc-search", exp.Name)
	assert.Equal(t, 2, exp.Size)
	require.Len(t, exp.Grids, 1)
	assert.Equal(t, []any{"linear", "rbf"}, exp.Grids[0]["kernel"])
}

func TestExpandEndpointErrors(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Malformed JSON
	req := httptest.NewRequest("POST", "/v1/expand", bytes.NewReader([]byte("{nope")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing document
	w = doJSON(t, handler, "POST", "/v1/expand", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Document that fails compilation
	w = doJSON(t, handler, "POST", "/v1/expand", map[string]string{
		"document": "version: 1\nestimator:\n  type: nope\n",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSpecCRUD(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Create
	w := doJSON(t, handler, "POST", "/v1/specs", map[string]string{
		"name":     "svc-search",
		"document": validDoc,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created ports.SpecRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "svc-search", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	// Get
	w = doJSON(t, handler, "GET", "/v1/specs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got ports.SpecRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, validDoc, got.Document)

	// List
	w = doJSON(t, handler, "GET", "/v1/specs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []*ports.SpecRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&records))
	require.Len(t, records, 1)

	// Update keeps the creation timestamp
	w = doJSON(t, handler, "PUT", "/v1/specs/"+created.ID, map[string]string{
		"name":     "svc-search-v2",
		"document": validDoc,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated ports.SpecRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "svc-search-v2", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	// Delete
	w = doJSON(t, handler, "DELETE", "/v1/specs/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, handler, "GET", "/v1/specs/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSpecRejectsInvalidDocument(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/v1/specs", map[string]string{
		"name":     "broken",
		"document": "version: 1\nestimator:\n  type: nope\n",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExpandBatch(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Put(ctx, &ports.SpecRecord{
		ID: "a", Name: "alpha", Document: validDoc, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Put(ctx, &ports.SpecRecord{
		ID: "b", Name: "beta", Document: "version: 1\nestimator:\n  type: linear\n", CreatedAt: now, UpdatedAt: now,
	}))

	w := doJSON(t, handler, "POST", "/v1/expand/batch", map[string][]string{
		"ids": {"a", "missing", "b"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results []struct {
		ID        string                `json:"id"`
		Name      string                `json:"name"`
		Error     string                `json:"error"`
		Expansion *searchgrid.Expansion `json:"expansion"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&results))
	require.Len(t, results, 3)

	assert.Equal(t, "a", results[0].ID)
	require.NotNil(t, results[0].Expansion)
	assert.Equal(t, 2, results[0].Expansion.Size)

	assert.Equal(t, "missing", results[1].ID)
	assert.Nil(t, results[1].Expansion)
	assert.Contains(t, results[1].Error, "not found")

	assert.Equal(t, "b", results[2].ID)
	require.NotNil(t, results[2].Expansion)
	assert.Equal(t, 1, results[2].Expansion.Size)
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Record one expansion so the counter family exists.
	w := doJSON(t, handler, "POST", "/v1/expand", map[string]string{"document": validDoc})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "searchgrid_expansions_total")
	assert.Contains(t, w.Body.String(), "searchgrid_expand_duration_seconds")
}

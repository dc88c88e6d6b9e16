package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnothman/searchgrid/pkg/ports"
)

// SpecStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.SpecStore.
func SpecStoreContractTest(t *testing.T, store ports.SpecStore) {
	t.Helper()

	ctx := context.Background()
	stamp := time.Now().UTC()
	id := "contract-spec-" + stamp.Format("20060102150405")

	newRecord := func(id, name string) *ports.SpecRecord {
		return &ports.SpecRecord{
			ID:        id,
			Name:      name,
			Document:  "estimator:\n  type: classifier\n",
			CreatedAt: stamp,
			UpdatedAt: stamp,
		}
	}

	t.Run("Put and Get", func(t *testing.T) {
		rec := newRecord(id, "svc-search")
		require.NoError(t, store.Put(ctx, rec), "Put should not return error")
		defer func() { _ = store.Delete(ctx, id) }()

		got, err := store.Get(ctx, id)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Name, got.Name)
		assert.Equal(t, rec.Document, got.Document)
		assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
		assert.WithinDuration(t, rec.UpdatedAt, got.UpdatedAt, time.Second)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ports.ErrSpecNotFound)
	})

	t.Run("Put Replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newRecord(id, "svc-search")))
		defer func() { _ = store.Delete(ctx, id) }()

		updated := newRecord(id, "svc-search-v2")
		updated.Document = "estimator:\n  type: linear\n"
		updated.UpdatedAt = stamp.Add(time.Minute)
		require.NoError(t, store.Put(ctx, updated))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "svc-search-v2", got.Name)
		assert.Equal(t, updated.Document, got.Document)
		assert.WithinDuration(t, updated.UpdatedAt, got.UpdatedAt, time.Second)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newRecord(id, "svc-search")))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ports.ErrSpecNotFound, "Get after Delete should return ErrSpecNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Put(ctx, newRecord(id1, "alpha-"+id)))
		require.NoError(t, store.Put(ctx, newRecord(id2, "beta-"+id)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		records, err := store.List(ctx)
		require.NoError(t, err)

		idx := make(map[string]int)
		for i, rec := range records {
			idx[rec.ID] = i
		}
		require.Contains(t, idx, id1)
		require.Contains(t, idx, id2)
		assert.Less(t, idx[id1], idx[id2], "List should sort by name")
	})

	t.Run("Isolation", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newRecord(id, "svc-search")))
		defer func() { _ = store.Delete(ctx, id) }()

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		got.Name = "mutated"

		again, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "svc-search", again.Name, "callers must not share the stored record")
	})
}

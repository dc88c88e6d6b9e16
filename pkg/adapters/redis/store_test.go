package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jnothman/searchgrid/pkg/adapters/redis"
	"github.com/jnothman/searchgrid/pkg/ports"
	"github.com/jnothman/searchgrid/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	// Initialize client
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Run contract
	store := redis.NewFromClient(client)
	tests.SpecStoreContractTest(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	rec := &ports.SpecRecord{
		ID:       "spec-ttl",
		Name:     "ttl-spec",
		Document: "version: 1",
	}

	// 1. Put
	err = store.Put(ctx, rec)
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	records, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Get (should fail)
	_, err = store.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ports.ErrSpecNotFound)

	// 5. Verify List (lazily cleaned up)
	// Workaround for Test:
	// verification of lazy cleanup requires time.Sleep because our implementation relies on time.Now()
	// to calculate the score for ZRemRangeByScore.
	// We wait > 1s so time.Now() > (start + 1s).
	time.Sleep(1200 * time.Millisecond)

	records, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Custom Prefix
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err = store.Put(ctx, &ports.SpecRecord{ID: "my-spec", Name: "mine"})
	assert.NoError(t, err)

	// Verify keys in Redis directly
	// Key should be "custom:app:my-spec"
	exists := mr.Exists("custom:app:my-spec")
	assert.True(t, exists, "Expected key with custom prefix to exist")

	// Index should be "custom:app:index"
	existsIndex := mr.Exists("custom:app:index")
	assert.True(t, existsIndex, "Expected index with custom prefix to exist")

	// Verify List works
	records, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "my-spec", records[0].ID)
}

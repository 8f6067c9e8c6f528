package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openphylo/sdk/taxonomy"
)

// setupTestStore creates a miniredis instance and returns a connected RedisStore.
func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, mr
}

func TestNewRedisStore(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewRedisStore(RedisOptions{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		require.NotNil(t, store)
		defer store.Close()
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisStore(RedisOptions{URL: "invalid://url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisStore(RedisOptions{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, mouse()))

	for _, tc := range []struct {
		facet taxonomy.Facet
		key   string
	}{
		{taxonomy.FacetID, "10090"},
		{taxonomy.FacetScientificName, "Mus musculus"},
		{taxonomy.FacetCode, "MOUSE"},
		{taxonomy.FacetCommonName, "house mouse"},
		{taxonomy.FacetLineage, "Eukaryota>Metazoa>Mus"},
	} {
		t.Run(tc.facet.String(), func(t *testing.T) {
			got, err := store.Get(ctx, tc.facet, tc.key)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equal(mouse()))
			assert.Equal(t, "ncbi", got.Identifier.Provider)
		})
	}
}

func TestRedisStoreMiss(t *testing.T) {
	store, _ := setupTestStore(t)

	got, err := store.Get(context.Background(), taxonomy.FacetCode, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheWithRemoteTier(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	writer := New(WithRemote(store))
	writer.Put(ctx, mouse())

	// A second cache with only the shared tier sees the record and pulls
	// it into its local maps.
	reader := New(WithRemote(store))
	got := reader.Get(ctx, taxonomy.FacetCode, "MOUSE")
	require.NotNil(t, got)
	assert.True(t, got.Equal(mouse()))
	assert.Equal(t, 1, reader.Len(taxonomy.FacetCode))
}

func TestCacheSurvivesRemoteOutage(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	c := New(WithRemote(store))
	mr.Close()

	assert.NotPanics(t, func() {
		c.Put(ctx, mouse())
	})
	// Local tier still serves.
	assert.NotNil(t, c.Get(ctx, taxonomy.FacetCode, "MOUSE"))
}

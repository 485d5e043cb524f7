package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoOptionsDefaults(t *testing.T) {
	var opts MongoOptions
	opts.setDefaults()

	assert.Equal(t, "mongodb://localhost:27017", opts.URI)
	assert.Equal(t, DefaultMongoDatabase, opts.Database)
	assert.Equal(t, DefaultMongoCollection, opts.Collection)
	assert.Equal(t, 10*time.Second, opts.ConnectTimeout)

	opts = MongoOptions{URI: "mongodb://db:27017", Database: "x"}
	opts.setDefaults()
	assert.Equal(t, "mongodb://db:27017", opts.URI)
	assert.Equal(t, "x", opts.Database)
}

func TestMongoEntryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	e := newMongoEntry("k", []byte("v"), time.Hour, now)
	require.NotNil(t, e.ExpiresAt)
	assert.False(t, e.expired(now.Add(30*time.Minute)))
	assert.True(t, e.expired(now.Add(2*time.Hour)))

	forever := newMongoEntry("k", []byte("v"), 0, now)
	assert.Nil(t, forever.ExpiresAt)
	assert.False(t, forever.expired(now.Add(24*365*time.Hour)))
}

// TestMongoCacheIntegration runs against a live server named by
// NODEGROUP_MONGO_URI.
func TestMongoCacheIntegration(t *testing.T) {
	uri := os.Getenv("NODEGROUP_MONGO_URI")
	if uri == "" {
		t.Skip("NODEGROUP_MONGO_URI not set")
	}

	ctx := context.Background()
	c, err := NewMongoCache(ctx, MongoOptions{
		URI:        uri,
		Database:   "nodegroup_test",
		Collection: "cache_" + Hash([]byte(t.Name()))[:8],
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = c.Clear(context.Background())
		_ = c.Close()
	})

	_, hit, err := c.Get(ctx, "groups:abc")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "groups:abc", []byte("payload"), time.Hour))
	data, hit, err := c.Get(ctx, "groups:abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "payload", string(data))

	// Upsert replaces
	require.NoError(t, c.Set(ctx, "groups:abc", []byte("updated"), time.Hour))
	data, _, _ = c.Get(ctx, "groups:abc")
	assert.Equal(t, "updated", string(data))

	require.NoError(t, c.Delete(ctx, "groups:abc"))
	_, hit, _ = c.Get(ctx, "groups:abc")
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

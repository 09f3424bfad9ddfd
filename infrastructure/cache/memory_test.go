package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/infrastructure/cache"
)

func TestMemoryKeyValue(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryKeyValue()

	_, found, err := kv.Get(ctx, "identity:u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "identity:u1", `{"uid":"u1"}`))
	value, found, err := kv.Get(ctx, "identity:u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"uid":"u1"}`, value)

	require.NoError(t, kv.Delete(ctx, "identity:u1"))
	_, found, err = kv.Get(ctx, "identity:u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryKeyValue_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cache.NewMemoryKeyValue().Set(ctx, "k", "v")
	assert.ErrorIs(t, err, context.Canceled)
}

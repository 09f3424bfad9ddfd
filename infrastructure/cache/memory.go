package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryKeyValue is the default key-value backend. It lives as long as the process.
type MemoryKeyValue struct {
	store *gocache.Cache
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *MemoryKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	raw, found := m.store.Get(key)
	if !found {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("memory kv: unexpected value type %T for %q", raw, key)
	}
	return value, true, nil
}

func (m *MemoryKeyValue) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.Set(key, value, gocache.NoExpiration)
	return nil
}

func (m *MemoryKeyValue) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.Delete(key)
	return nil
}

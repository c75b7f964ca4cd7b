package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Fencer is implemented by caches that refuse fills made stale by an
// invalidation of their prefix.
type Fencer interface {
	// Epoch returns the invalidation count of prefix.
	Epoch(prefix string) uint64
	// SetSince stores value only if prefix has not been invalidated since
	// epoch was read.
	SetSince(ctx context.Context, prefix string, epoch uint64, key string, value []byte, ttl time.Duration)
}

// Fenced wraps a Cache with per-prefix invalidation epochs. The ordering it
// gives holds within one process; fills from other replicas can still race.
type Fenced struct {
	Cache

	mu     sync.Mutex
	epochs map[string]uint64
}

func NewFenced(c Cache) *Fenced {
	return &Fenced{Cache: c, epochs: make(map[string]uint64)}
}

func (f *Fenced) Epoch(prefix string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epochs[prefix]
}

// InvalidatePrefix bumps the epoch of prefix before removing its keys, so a
// fill that read the old epoch is either refused or removed here.
func (f *Fenced) InvalidatePrefix(ctx context.Context, prefix string) {
	f.mu.Lock()
	f.epochs[prefix]++
	f.mu.Unlock()
	f.Cache.InvalidatePrefix(ctx, prefix)
}

func (f *Fenced) SetSince(ctx context.Context, prefix string, epoch uint64, key string, value []byte, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epochs[prefix] != epoch {
		return
	}
	f.Cache.Set(ctx, key, value, ttl)
}

// Epoch reads the epoch of prefix from c, or zero when c is not fenced.
func Epoch(c Cache, prefix string) uint64 {
	if f, ok := c.(Fencer); ok {
		return f.Epoch(prefix)
	}
	return 0
}

// SetJSONSince is SetJSON for a value computed after epoch was read from
// prefix. Unfenced caches store unconditionally.
func SetJSONSince(ctx context.Context, c Cache, prefix string, epoch uint64, key string, v interface{}, ttl time.Duration) {
	f, ok := c.(Fencer)
	if !ok {
		SetJSON(ctx, c, key, v, ttl)
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.SetSince(ctx, prefix, epoch, key, raw, ttl)
}

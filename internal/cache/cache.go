// Package cache stores raw API responses for a short time so that paging
// back and forth or reopening a flight does not hit the API again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache holds response bodies keyed by Key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives a fixed-length cache key from a request URL.
func Key(requestURL string) string {
	sum := sha256.Sum256([]byte(requestURL))
	return "flight:" + hex.EncodeToString(sum[:])
}

// NoOp never stores anything.
type NoOp struct{}

// NewNoOp returns a cache that always misses.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (NoOp) Set(context.Context, string, []byte) error { return nil }

func (NoOp) Close() error { return nil }

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Values are copied on the way in and
// out.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory returns a Memory cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && !m.now().Before(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return cloneBytes(e.value), true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if m.ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: cloneBytes(value), expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

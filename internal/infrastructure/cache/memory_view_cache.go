package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
)

var _ ports.ViewCache = (*MemoryViewCache)(nil)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryViewCache caché en proceso; se usa cuando no hay REDIS_URL.
// Guarda JSON igual que Redis para que ambos devuelvan copias independientes.
type MemoryViewCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryViewCache construye la caché con el TTL dado.
func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

// Get decodifica la vista en dst si no expiró.
func (c *MemoryViewCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, fmt.Errorf("decodificar vista %s: %w", key, err)
	}
	return true, nil
}

// Set guarda la vista.
func (c *MemoryViewCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("codificar vista %s: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate borra las vistas indicadas.
func (c *MemoryViewCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

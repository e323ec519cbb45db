package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is the stored form of a derived candidate payload.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Payload     []byte    `json:"payload"`
	StoredAt    time.Time `json:"stored_at"`
}

// Tier is a single cache level. Get returns (nil, nil) on a miss; the tiered
// cache above it performs fingerprint validation, so tiers store and return
// entries verbatim.
type Tier interface {
	Name() string
	Get(ctx context.Context, id string) (*Entry, error)
	Put(ctx context.Context, id string, entry *Entry) error
}

// MemoryTier is an in-process Tier used as the durable fallback when no
// Postgres is configured, and in tests.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryTier creates an empty in-memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string]*Entry)}
}

// Name identifies the tier in logs.
func (m *MemoryTier) Name() string { return "memory" }

// Get returns the stored entry, or (nil, nil) on a miss.
func (m *MemoryTier) Get(_ context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

// Put stores the entry, overwriting any previous one for the id.
func (m *MemoryTier) Put(_ context.Context, id string, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[id] = &copied
	return nil
}

// Len reports the number of stored entries.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

package tokenstore

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore keeps revocations in process. They are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *memoryStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.revoked[key(token)] = now.Add(ttl)

	// drop entries that expired on their own
	for k, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, k)
		}
	}
	return nil
}

func (m *memoryStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.revoked[key(token)]
	return ok && until.After(m.now()), nil
}

func (m *memoryStore) Close() error { return nil }

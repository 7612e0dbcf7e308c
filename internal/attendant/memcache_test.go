package attendant

import (
	"context"
	"sync"
	"time"

	"github.com/bookado/attendant/internal/store/redisstore"
)

// memCache is an in-memory Cache for tests. TTLs are recorded but not
// enforced; components that care about staleness check timestamps
// themselves.
type memCache struct {
	mu    sync.Mutex
	vals  map[string]string
	ttls  map[string]time.Duration
	lists map[string][]string
}

func newMemCache() *memCache {
	return &memCache{
		vals:  make(map[string]string),
		ttls:  make(map[string]time.Duration),
		lists: make(map[string][]string),
	}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	if !ok {
		return "", redisstore.ErrNotFound
	}
	return v, nil
}

func (m *memCache) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	delete(m.lists, key)
	return nil
}

func (m *memCache) PushList(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], value)
	return nil
}

func (m *memCache) GetList(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lists[key]...), nil
}

func (m *memCache) hasKey(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, inVals := m.vals[key]
	_, inLists := m.lists[key]
	return inVals || inLists
}

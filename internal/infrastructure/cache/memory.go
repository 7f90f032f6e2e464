package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	repo "github.com/johnquangdev/meetnotes/internal/domain/repositories"
)

// MemoryStore keeps pipeline sessions in process memory with expiration.
// Sessions are stored encoded so callers never share a live pointer with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*memoryItem
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      []byte
	expireTime time.Time
}

var _ repo.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[uuid.UUID]*memoryItem),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired(5 * time.Minute)

	return store
}

// Put stores a session and refreshes its expiration
func (ms *MemoryStore) Put(ctx context.Context, session *entities.PipelineSession) error {
	value, err := encodeSession(session)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[session.ID] = &memoryItem{
		value:      value,
		expireTime: time.Now().Add(ms.ttl),
	}
	return nil
}

// Get retrieves a session, treating expired entries as missing
func (ms *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	ms.mu.RLock()
	item, exists := ms.items[id]
	ms.mu.RUnlock()

	if !exists || time.Now().After(item.expireTime) {
		return nil, entities.ErrSessionNotFound
	}
	return decodeSession(item.value)
}

// Delete removes a session
func (ms *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, id)
	return nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.items {
				if now.After(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

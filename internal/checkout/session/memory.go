package session

import (
	"context"
	checkouterrors "storefront/internal/checkout/errors"
	"storefront/internal/checkout/flow"
	"sync"
	"time"
)

const minCleanupInterval = time.Second

type memoryEntry struct {
	snap      flow.Snapshot
	expiresAt time.Time
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*memoryEntry
	locks    map[string]memoryLock
	ttl      time.Duration
	lockTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(ttl, lockTTL time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		locks:   make(map[string]memoryLock),
		ttl:     ttl,
		lockTTL: lockTTL,
		stopCh:  make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*flow.Snapshot, error) {
	s.mu.RLock()
	entry, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists {
		return nil, checkouterrors.ErrSessionNotFound
	}

	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, checkouterrors.ErrSessionNotFound
	}

	snap := entry.snap
	return &snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, snap flow.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &memoryEntry{
		snap:      snap,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Lock(ctx context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock, held := s.locks[id]; held && time.Now().Before(lock.expiresAt) {
		return "", false, nil
	}
	token := newLockToken()
	s.locks[id] = memoryLock{token: token, expiresAt: time.Now().Add(s.lockTTL)}
	return token, true, nil
}

func (s *MemoryStore) Unlock(ctx context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock, held := s.locks[id]; held && lock.token == token {
		delete(s.locks, id)
	}
	return nil
}

func (s *MemoryStore) Locked(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, held := s.locks[id]
	return held && time.Now().Before(lock.expiresAt), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) cleanup() {
	interval := s.ttl / 2
	if interval < minCleanupInterval {
		interval = minCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired(time.Now())
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	for id, lock := range s.locks {
		if now.After(lock.expiresAt) {
			delete(s.locks, id)
		}
	}
}

func (s *MemoryStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

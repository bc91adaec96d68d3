package sessionstore

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in a bounded LRU. Entries expire after the TTL and the least
// recently used session is evicted when the cache is full.
type MemoryStore struct {
	cache *lru.Cache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryStore creates a store holding at most size sessions.
func NewMemoryStore(size int, ttl time.Duration, log zerolog.Logger) (*MemoryStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "memory-session-store").Logger(),
		now:   time.Now,
		locks: map[string]*sessionLock{},
	}, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*intake.Session, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, notFound(ctx, id)
	}
	entry := value.(memoryEntry)
	if s.expired(entry) {
		s.cache.Remove(id)
		return nil, notFound(ctx, id)
	}
	session, err := decode(entry.raw)
	if err != nil {
		return nil, storeError(ctx, "failed to decode session", err, "session-memory-decode-001")
	}
	return session, nil
}

// Save stores a copy so later mutation of session does not leak into the store.
func (s *MemoryStore) Save(ctx context.Context, session *intake.Session) error {
	raw, err := encode(session)
	if err != nil {
		return storeError(ctx, "failed to encode session", err, "session-memory-encode-001")
	}
	entry := memoryEntry{raw: raw}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.cache.Add(session.ID, entry)
	return nil
}

// Lock serializes turns of one session within this process.
func (s *MemoryStore) Lock(ctx context.Context, id string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{ch: make(chan struct{}, 1)}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		s.release(id, l)
		return nil, storeError(ctx, "failed to lock session", ctx.Err(), "session-memory-lock-001")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			s.release(id, l)
		})
	}, nil
}

func (s *MemoryStore) release(id string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	removed := 0
	for _, key := range s.cache.Keys() {
		value, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		if s.expired(value.(memoryEntry)) {
			s.cache.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("swept expired sessions")
	}
	return removed
}

// Len reports how many sessions are cached, expired ones included.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}

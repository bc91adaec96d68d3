package sessionstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func newMemory(t *testing.T, size int, ttl time.Duration) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(size, ttl, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestMemoryStoreRoundTripCopies(t *testing.T) {
	store := newMemory(t, 10, time.Hour)
	ctx := context.Background()

	session := &intake.Session{ID: "sess_a", State: intake.StateIdle, UserTurns: 2}
	require.NoError(t, store.Save(ctx, session))
	session.UserTurns = 9

	got, err := store.Get(ctx, "sess_a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UserTurns)
}

func TestMemoryStoreUnknownIsNotFound(t *testing.T) {
	_, err := newMemory(t, 10, time.Hour).Get(context.Background(), "sess_missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newMemory(t, 10, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &intake.Session{ID: "sess_a"}))
	require.NoError(t, store.Save(ctx, &intake.Session{ID: "sess_b"}))

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, &intake.Session{ID: "sess_c"}))

	_, err := store.Get(ctx, "sess_a")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	store := newMemory(t, 2, 0)
	ctx := context.Background()
	for _, id := range []string{"sess_a", "sess_b", "sess_c"} {
		require.NoError(t, store.Save(ctx, &intake.Session{ID: id}))
	}
	_, err := store.Get(ctx, "sess_a")
	assert.Error(t, err)
	_, err = store.Get(ctx, "sess_c")
	assert.NoError(t, err)
}

func TestMemoryStoreLockSerializes(t *testing.T) {
	store := newMemory(t, 10, time.Hour)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "sess_a")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, store.locks)
}

func TestMemoryStoreLockHonoursContext(t *testing.T) {
	store := newMemory(t, 10, time.Hour)
	unlock, err := store.Lock(context.Background(), "sess_a")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, "sess_a")
	assert.Error(t, err)
}

func TestMemoryStoreUnlockIsIdempotent(t *testing.T) {
	store := newMemory(t, 10, time.Hour)
	unlock, err := store.Lock(context.Background(), "sess_a")
	require.NoError(t, err)
	unlock()
	unlock()

	unlock, err = store.Lock(context.Background(), "sess_a")
	require.NoError(t, err)
	unlock()
}

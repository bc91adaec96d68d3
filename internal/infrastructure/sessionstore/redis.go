package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
)

const keyPrefix = "masterclass:v1:session:"

// RedisStore stores sessions as JSON with a sliding TTL and locks them with redsync.
type RedisStore struct {
	client  redis.UniversalClient
	rs      *redsync.Redsync
	ttl     time.Duration
	lockTTL time.Duration
	log     zerolog.Logger
}

// NewRedisStore connects to redisURL, a single URL or a comma separated cluster list.
func NewRedisStore(ctx context.Context, redisURL string, ttl, lockTTL time.Duration, log zerolog.Logger) (*RedisStore, error) {
	opts, err := buildUniversalOptions(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if len(opts.Addrs) > 1 && opts.DB != 0 {
		log.Warn().Msg("ignoring non-zero DB for Redis cluster configuration")
		opts.DB = 0
	}

	client := redis.NewUniversalClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRedisStore(client, ttl, lockTTL, log), nil
}

func newRedisStore(client redis.UniversalClient, ttl, lockTTL time.Duration, log zerolog.Logger) *RedisStore {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &RedisStore{
		client:  client,
		rs:      redsync.New(goredis.NewPool(client)),
		ttl:     ttl,
		lockTTL: lockTTL,
		log:     log.With().Str("component", "redis-session-store").Logger(),
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*intake.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(ctx, id)
	}
	if err != nil {
		return nil, storeError(ctx, "failed to load session", err, "session-redis-get-001")
	}
	session, err := decode(raw)
	if err != nil {
		return nil, storeError(ctx, "failed to decode session", err, "session-redis-decode-001")
	}
	return session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *intake.Session) error {
	raw, err := encode(session)
	if err != nil {
		return storeError(ctx, "failed to encode session", err, "session-redis-encode-001")
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return storeError(ctx, "failed to save session", err, "session-redis-set-001")
	}
	return nil
}

// Lock acquires a distributed mutex for the session. While held, the mutex is extended
// every third of the lock TTL so a slow completion call cannot outlive it; if the holder
// dies the mutex expires after the lock TTL.
func (s *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	mutex := s.rs.NewMutex(sessionKey(id)+":lock", redsync.WithExpiry(s.lockTTL), redsync.WithTries(64))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, storeError(ctx, "failed to lock session", err, "session-redis-lock-001")
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.keepAlive(mutex, id, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			if _, err := mutex.Unlock(); err != nil {
				s.log.Error().Err(err).Str("session_id", id).Msg("failed to unlock session")
			}
		})
	}, nil
}

func (s *RedisStore) keepAlive(mutex *redsync.Mutex, id string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := extendInterval(s.lockTTL)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			ok, err := mutex.ExtendContext(ctx)
			cancel()
			if err != nil || !ok {
				s.log.Warn().Err(err).Str("session_id", id).Msg("failed to extend session lock")
			}
		}
	}
}

// extendInterval leaves two extension attempts before the lock TTL runs out.
func extendInterval(lockTTL time.Duration) time.Duration {
	interval := lockTTL / 3
	if interval < 100*time.Millisecond {
		return 100 * time.Millisecond
	}
	return interval
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func buildUniversalOptions(raw string) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}

		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
	}
	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no Redis addresses provided")
	}
	return opts, nil
}

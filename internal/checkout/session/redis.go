package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	checkouterrors "storefront/internal/checkout/errors"
	"storefront/internal/checkout/flow"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:checkout:"

// unlockScript deletes the lock key only while it still holds the caller's
// token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewRedisStore(cfg RedisConfig, ttl, lockTTL time.Duration) *RedisStore {
	return NewRedisStoreWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl,
		lockTTL,
	)
}

func NewRedisStoreWithClient(client *redis.Client, ttl, lockTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*flow.Snapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, checkouterrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var snap flow.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, snap flow.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(id), payload, s.ttl).Err()
}

func (s *RedisStore) Lock(ctx context.Context, id string) (string, bool, error) {
	token := newLockToken()
	ok, err := s.client.SetNX(ctx, lockKey(id), token, s.lockTTL).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisStore) Unlock(ctx context.Context, id, token string) error {
	return unlockScript.Run(ctx, s.client, []string{lockKey(id)}, token).Err()
}

func (s *RedisStore) Locked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, lockKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func lockKey(id string) string {
	return keyPrefix + id + ":submit"
}

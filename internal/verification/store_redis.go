package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sportsreg/pkg/platform/sentinel"
)

const (
	challengeKeyPrefix = "verify:cid:"
	emailKeyPrefix     = "verify:email:"
)

// RedisStore persists challenges with a TTL so abandoned verifications clean
// themselves up. Recommended for multi-instance deployments where the verify
// call may land on a different instance than the request.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed challenge store. The ttl bounds how
// long an unconsumed challenge survives; zero disables expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, challenge Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, challengeKeyPrefix+challenge.CorrelationID, payload, s.ttl)
	pipe.Set(ctx, emailKeyPrefix+challenge.Email, challenge.CorrelationID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, correlationID string) (Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKeyPrefix+correlationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("find challenge: %w", err)
	}
	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return Challenge{}, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return ch, nil
}

func (s *RedisStore) FindByEmail(ctx context.Context, email string) (Challenge, error) {
	id, err := s.client.Get(ctx, emailKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("find challenge by email: %w", err)
	}
	return s.Find(ctx, id)
}

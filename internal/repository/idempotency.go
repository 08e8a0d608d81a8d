package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyNS = "reservation:v1:idem"

// IdempotencyKey scopes a client-supplied key to one operation and one
// customer, so the same header value cannot collide across callers.
func IdempotencyKey(operation, customerID, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", idempotencyNS, operation, customerID, key)
}

// StoredResponse is the replayable outcome of a completed request.
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyStore keeps in-flight locks and completed responses in Redis.
// A key holds either "LOCK" while the first request runs, or "RES:<json>"
// once it finished. It stores whole responses only, never seat state.
type IdempotencyStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, "LOCK", lockTTL).Result()
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, status int, body []byte) error {
	payload, err := json.Marshal(StoredResponse{Status: status, Body: body})
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, key, "RES:"+string(payload), s.ttl).Err()
}

func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (*StoredResponse, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !strings.HasPrefix(v, "RES:") {
		return nil, false, nil
	}

	var stored StoredResponse
	if err := json.Unmarshal([]byte(strings.TrimPrefix(v, "RES:")), &stored); err != nil {
		return nil, false, err
	}

	return &stored, true, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

package helper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPending = "pending"

type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyStore remembers the response of a request under its
// Idempotency-Key so a retried request replays it.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Begin claims key. It returns started=false with the stored response when
// the key already completed, and started=false with nil while it is in flight.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (bool, *StoredResponse, error) {
	ok, err := s.client.SetNX(ctx, key, idempotencyPending, s.ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}

	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return s.Begin(ctx, key)
	}
	if err != nil {
		return false, nil, err
	}
	if value == idempotencyPending {
		return false, nil, nil
	}
	var stored StoredResponse
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return false, nil, err
	}
	return false, &stored, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, status int, body []byte) error {
	payload, err := json.Marshal(StoredResponse{Status: status, Body: body})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, s.ttl).Err()
}

// Abort frees key so the request can be tried again.
func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

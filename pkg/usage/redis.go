package usage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStorage appends usage events to a capped Redis stream, from which
// billing aggregation and dashboards consume them.
type RedisStorage struct {
	client *redis.Client
	stream string
	maxLen int64
}

// RedisStorageOption configures a RedisStorage.
type RedisStorageOption func(*RedisStorage)

// WithStreamName overrides the default stream key.
func WithStreamName(name string) RedisStorageOption {
	return func(s *RedisStorage) {
		if name != "" {
			s.stream = name
		}
	}
}

// WithMaxLen caps the stream length (approximate trimming).
func WithMaxLen(n int64) RedisStorageOption {
	return func(s *RedisStorage) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// NewRedisStorage returns a sink writing to a Redis stream.
// Panics if client is nil.
func NewRedisStorage(client *redis.Client, opts ...RedisStorageOption) *RedisStorage {
	if client == nil {
		panic("usage: redis client cannot be nil")
	}

	s := &RedisStorage{
		client: client,
		stream: "usage:events",
		maxLen: 100_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store appends the event to the stream.
func (s *RedisStorage) Store(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrEventValidation, err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"tenant_id": event.TenantID.String(),
			"metric":    event.Metric,
			"quantity":  event.Quantity,
			"payload":   payload,
		},
	}).Err()
	if err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}

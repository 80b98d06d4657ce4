package analytics

import (
	"context"
	"errors"
	"time"
)

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(consumer, eventID string) string
}

// Guard deduplicates events per consumer via Redis SETNX with a TTL. Pub/Sub
// delivers at least once, so redeliveries of an already-written event must be
// acked without a second BigQuery insert.
type Guard struct {
	store    idempotencyStore
	consumer string
	ttl      time.Duration
}

// NewGuard builds an idempotency guard for the named consumer.
func NewGuard(store idempotencyStore, consumer string, ttl time.Duration) (*Guard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if consumer == "" {
		return nil, errors.New("consumer name is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &Guard{store: store, consumer: consumer, ttl: ttl}, nil
}

// CheckAndMark reports whether the event was already processed, marking it
// as processed otherwise.
func (g *Guard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	set, err := g.store.SetNX(ctx, g.store.IdempotencyKey(g.consumer, eventID), "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

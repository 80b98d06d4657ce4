package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/redis"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartItemsKey(userID string) string
	DeliveryInfoKey(userID string) string
}

type redisRepo struct {
	store kvStore
}

// NewRedisRepository builds the cart repository on top of the shared Redis
// client. Entries have no TTL; the cart lives until cleared.
func NewRedisRepository(store *redis.Client) (Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisRepo{store: store}, nil
}

func (r *redisRepo) LoadItems(ctx context.Context, userID string) ([]LineItem, error) {
	raw, err := r.store.Get(ctx, r.store.CartItemsKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("loading cart items: %w", err)
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart items: %w", err)
	}
	return items, nil
}

func (r *redisRepo) SaveItems(ctx context.Context, userID string, items []LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart items: %w", err)
	}
	if err := r.store.Set(ctx, r.store.CartItemsKey(userID), payload, 0); err != nil {
		return fmt.Errorf("saving cart items: %w", err)
	}
	return nil
}

func (r *redisRepo) LoadDelivery(ctx context.Context, userID string) (*DeliveryInfo, error) {
	raw, err := r.store.Get(ctx, r.store.DeliveryInfoKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading delivery info: %w", err)
	}
	var info DeliveryInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("decoding delivery info: %w", err)
	}
	return &info, nil
}

func (r *redisRepo) SaveDelivery(ctx context.Context, userID string, info DeliveryInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding delivery info: %w", err)
	}
	if err := r.store.Set(ctx, r.store.DeliveryInfoKey(userID), payload, 0); err != nil {
		return fmt.Errorf("saving delivery info: %w", err)
	}
	return nil
}

func (r *redisRepo) Clear(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, r.store.CartItemsKey(userID), r.store.DeliveryInfoKey(userID)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

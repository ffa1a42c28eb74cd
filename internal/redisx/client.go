package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// StockCache keeps short-lived inventory snapshots. Values may lag the database by up to TTL.
type StockCache struct {
	RDB redis.Cmdable
	TTL time.Duration
}

func (c *StockCache) GetStock(ctx context.Context, productID int64) (int, bool, error) {
	n, err := c.RDB.Get(ctx, fmt.Sprintf(KeyStock, productID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *StockCache) SetStock(ctx context.Context, productID int64, qty int) error {
	return c.RDB.Set(ctx, fmt.Sprintf(KeyStock, productID), qty, c.ttl()).Err()
}

func (c *StockCache) DropStock(ctx context.Context, productIDs ...int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = fmt.Sprintf(KeyStock, id)
	}
	return c.RDB.Del(ctx, keys...).Err()
}

func (c *StockCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return TTLStockCache
	}
	return c.TTL
}

// Dedup marks event ids as processed for one consuming service.
type Dedup struct {
	RDB     redis.Cmdable
	Service string
}

// Claim reports true the first time an id is seen.
func (d *Dedup) Claim(ctx context.Context, eventID string) (bool, error) {
	return d.RDB.SetNX(ctx, fmt.Sprintf(KeyDedup, d.Service, eventID), 1, TTLDedup).Result()
}

func (d *Dedup) Release(ctx context.Context, eventID string) error {
	return d.RDB.Del(ctx, fmt.Sprintf(KeyDedup, d.Service, eventID)).Err()
}

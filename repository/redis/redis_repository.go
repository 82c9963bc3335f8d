package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/posku/inventory-engine/cmd/redis"
	"github.com/posku/inventory-engine/model"
)

// Repository caches read-mostly stock data in Redis. Every method is a no-op
// when the client is not initialized, so the engine works without Redis.
type Repository interface {
	GetStockSummary(ctx context.Context, productID, warehouseID uint64) (*model.StockSummary, error)
	SetStockSummary(ctx context.Context, summary *model.StockSummary, ttl time.Duration) error
	InvalidateStockSummary(ctx context.Context, productID, warehouseID uint64) error
}

type redis struct{}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

func summaryKey(productID, warehouseID uint64) string {
	return fmt.Sprintf("stock:summary:%d:%d", productID, warehouseID)
}

// GetStockSummary returns the cached summary, or nil on a cache miss.
func (r *redis) GetStockSummary(ctx context.Context, productID, warehouseID uint64) (*model.StockSummary, error) {
	client := redisclient.Get()
	if client == nil {
		return nil, nil
	}
	val, err := client.Get(ctx, summaryKey(productID, warehouseID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var summary model.StockSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redis) SetStockSummary(ctx context.Context, summary *model.StockSummary, ttl time.Duration) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return client.Set(ctx, summaryKey(summary.ProductID, summary.WarehouseID), raw, ttl).Err()
}

// InvalidateStockSummary drops the cached summary after a stock mutation.
func (r *redis) InvalidateStockSummary(ctx context.Context, productID, warehouseID uint64) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, summaryKey(productID, warehouseID)).Err()
}

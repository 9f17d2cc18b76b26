package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

const (
	productTTL     = 10 * time.Minute
	listTTL        = 2 * time.Minute
	listVersionKey = "products:list:version"
)

// ProductCache is a read-through cache for the catalog. List entries are
// versioned: any catalog write bumps the version counter, which orphans
// every cached listing at once instead of tracking filter combinations.
// A nil *ProductCache is valid and disables caching.
type ProductCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewProductCache(addr string, logger *zap.Logger) *ProductCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &ProductCache{client: client, logger: logger}
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *ProductCache) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(product.ID), payload, productTTL).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.Error(err))
	}
}

func (c *ProductCache) GetList(ctx context.Context, filter models.ProductFilter) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	key, err := c.listKey(ctx, filter)
	if err != nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, filter models.ProductFilter, products []models.Product) {
	if c == nil {
		return
	}
	key, err := c.listKey(ctx, filter)
	if err != nil {
		return
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, listTTL).Err(); err != nil {
		c.logger.Warn("product list cache write failed", zap.Error(err))
	}
}

// Invalidate drops the detail entry and bumps the list version after a
// catalog write.
func (c *ProductCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	pipe := c.client.Pipeline()
	pipe.Del(ctx, productKey(id))
	pipe.Incr(ctx, listVersionKey)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

func (c *ProductCache) listKey(ctx context.Context, filter models.ProductFilter) (string, error) {
	version, err := c.client.Get(ctx, listVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	minPrice, maxPrice := int64(-1), int64(-1)
	if filter.MinPrice != nil {
		minPrice = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		maxPrice = *filter.MaxPrice
	}
	return fmt.Sprintf("products:list:v%d:%s:%s:%d:%d:%t",
		version, filter.Category, filter.Search, minPrice, maxPrice, filter.InStockOnly), nil
}

func productKey(id uuid.UUID) string {
	return "products:detail:" + id.String()
}

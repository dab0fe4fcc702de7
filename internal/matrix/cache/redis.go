// Package cache provides a Redis-backed cache for computed matrix
// snapshots, so repeated dashboard loads do not recompute the full grid.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const matrixKey = "skillmatrix:matrix"

type MatrixCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewMatrixCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) *MatrixCache {
	return &MatrixCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl:    ttl,
		logger: logger.Named("matrix_cache"),
	}
}

// Get returns the cached matrix snapshot, or (nil, nil) on a miss.
func (c *MatrixCache) Get(ctx context.Context) (*models.MatrixData, error) {
	raw, err := c.client.Get(ctx, matrixKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var data models.MatrixData
	if err := json.Unmarshal(raw, &data); err != nil {
		// A snapshot written by an incompatible version; treat as a miss.
		c.logger.Warn("discarding unreadable cached matrix", zap.Error(err))
		return nil, nil
	}
	return &data, nil
}

func (c *MatrixCache) Set(ctx context.Context, data *models.MatrixData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, matrixKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *MatrixCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, matrixKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *MatrixCache) Close() error {
	return c.client.Close()
}

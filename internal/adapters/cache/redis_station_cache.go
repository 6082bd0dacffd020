package cache

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStationCache decorates a StationProvider with a short-lived redis cache
// of bounding-box lookups. Provider failures are never cached, and redis
// failures fall through to the provider.
type RedisStationCache struct {
	client *redis.Client
	next   ports.StationProvider
	ttl    time.Duration
}

func NewRedisStationCache(client *redis.Client, next ports.StationProvider, ttl time.Duration) (*RedisStationCache, error) {
	if client == nil {
		return nil, errors.New("redis station cache: client is nil")
	}
	if next == nil {
		return nil, errors.New("redis station cache: provider is nil")
	}
	if ttl <= 0 {
		return nil, errors.New("redis station cache: ttl must be positive")
	}
	return &RedisStationCache{client: client, next: next, ttl: ttl}, nil
}

// Bounding boxes are keyed at 1e-4 degree precision.
func (c *RedisStationCache) key(bbox domain.BoundingBox, maxResults int) string {
	return fmt.Sprintf("stations:bbox:%.4f,%.4f,%.4f,%.4f:%d",
		bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat, maxResults)
}

func (c *RedisStationCache) StationsInBoundingBox(
	ctx context.Context,
	bbox domain.BoundingBox,
	maxResults int,
) ([]ports.RawStation, error) {
	key := c.key(bbox, maxResults)
	log := obs.Logger(ctx)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var recs []ports.RawStation
		if err := json.Unmarshal(data, &recs); err == nil {
			return recs, nil
		}
		log.Warn("station cache entry undecodable", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		log.Warn("station cache read failed", zap.String("key", key), zap.Error(err))
	}

	recs, err := c.next.StationsInBoundingBox(ctx, bbox, maxResults)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(recs); err != nil {
		log.Warn("station cache encode failed", zap.Error(err))
	} else if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn("station cache write failed", zap.String("key", key), zap.Error(err))
	}

	return recs, nil
}

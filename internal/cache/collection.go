// Package cache provides the process-wide collection cache backed by redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const collectionKeyPrefix = "collections:"

// CollectionCache is a write-through cache keyed by collection id. Mutating
// operations invalidate entries after their transaction commits, so a read
// racing a rolled-back write can never repopulate from an uncommitted
// snapshot.
type CollectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCollectionCache(client *redis.Client, ttl time.Duration) *CollectionCache {
	return &CollectionCache{client: client, ttl: ttl}
}

// NewClient connects a redis client from a URL and verifies it is reachable.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func collectionKey(id uuid.UUID) string {
	return collectionKeyPrefix + id.String()
}

// Get returns the cached collection, or nil on a miss.
func (c *CollectionCache) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	data, err := c.client.Get(ctx, collectionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var collection models.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &collection, nil
}

// GetMany returns the cached subset of ids. Misses are simply absent from
// the result map.
func (c *CollectionCache) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Collection, error) {
	found := make(map[uuid.UUID]*models.Collection, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = collectionKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var collection models.Collection
		if err := json.Unmarshal([]byte(raw), &collection); err != nil {
			continue
		}
		found[ids[i]] = &collection
	}
	return found, nil
}

func (c *CollectionCache) Set(ctx context.Context, collection *models.Collection) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, collectionKey(collection.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate drops the entry for id. Callers invoke it after every mutating
// operation commits.
func (c *CollectionCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, collectionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

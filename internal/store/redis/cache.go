package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/store"
)

// DefaultRecordTTL is used when the cache is built with a non-positive TTL.
const DefaultRecordTTL = time.Hour

// Cache is a read-through record cache. Records never change after creation,
// so entries only leave on delete or TTL expiry.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.Cache = (*Cache)(nil)

// NewCache creates a record cache on client.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// cachedRecord is the JSON layout stored under RecordKey.
type cachedRecord struct {
	ID          string `json:"id"`
	CreatedAt   int64  `json:"created_at"`
	Title       string `json:"title"`
	Markdown    string `json:"content_md"`
	HTML        string `json:"content_html"`
	Description string `json:"description"`
	Source      int    `json:"from_source"`
	URL         string `json:"url,omitempty"`
}

func encode(rec *domain.Record) ([]byte, error) {
	return json.Marshal(cachedRecord{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		Title:       rec.Title,
		Markdown:    rec.Markdown,
		HTML:        rec.HTML,
		Description: rec.Description,
		Source:      rec.Source,
		URL:         rec.URL,
	})
}

func decode(data []byte) (*domain.Record, error) {
	var c cachedRecord
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &domain.Record{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		Title:       c.Title,
		Markdown:    c.Markdown,
		HTML:        c.HTML,
		Description: c.Description,
		Source:      c.Source,
		URL:         c.URL,
	}, nil
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, id string) (*domain.Record, error) {
	data, err := c.client.Get(ctx, RecordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached record: %w", err)
	}

	rec, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}
	return rec, nil
}

// Set stores rec with the cache TTL.
func (c *Cache) Set(ctx context.Context, rec *domain.Record) error {
	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := c.client.Set(ctx, RecordKey(rec.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache record: %w", err)
	}
	return nil
}

// Delete evicts the given ids in one round trip.
func (c *Cache) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = RecordKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict records: %w", err)
	}
	return nil
}

// Flush removes every cached record.
func (c *Cache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixRecord+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

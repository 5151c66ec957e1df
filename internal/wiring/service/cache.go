package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyDevices  = "wiring:devices:list"
	cacheKeyDiagrams = "wiring:diagrams:list"
)

// ListCache keeps the unfiltered catalog and diagram lists in redis. A nil
// *ListCache, or one without a client, never hits and never stores.
//
// Every key has a generation counter that writers bump after they commit.
// Entries are stored under "<key>:<generation>", so a list read before a
// write can only ever fill a slot that is no longer looked up.
type ListCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewListCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ListCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *ListCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func generationKey(key string) string {
	return key + ":gen"
}

// slot returns the key the current generation of key is stored under, or ""
// when the generation cannot be read.
func (c *ListCache) slot(ctx context.Context, key string) string {
	gen, err := c.rdb.Get(ctx, generationKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache generation read failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key + ":" + strconv.FormatInt(gen, 10)
}

// Get decodes the cached value for key into dst and reports whether it was
// found. On a miss it also returns the slot a following Set must fill; take
// it before reading the database.
func (c *ListCache) Get(ctx context.Context, key string, dst interface{}) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	slot := c.slot(ctx, key)
	if slot == "" {
		return "", false
	}
	data, err := c.rdb.Get(ctx, slot).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", slot), zap.Error(err))
		}
		return slot, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", slot), zap.Error(err))
		return slot, false
	}
	return slot, true
}

// Set stores v in slot. An empty slot is ignored.
func (c *ListCache) Set(ctx context.Context, slot string, v interface{}) {
	if !c.enabled() || slot == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, slot, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", slot), zap.Error(err))
	}
}

// Invalidate moves each key to a new generation. Call it after the write commits.
func (c *ListCache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() {
		return
	}
	for _, key := range keys {
		if err := c.rdb.Incr(ctx, generationKey(key)).Err(); err != nil {
			c.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
)

// scanBatch is the SCAN page size used when invalidating.
const scanBatch = 100

// CacheRecorder counts ranking cache lookups by outcome.
type CacheRecorder interface {
	CacheLookup(outcome string)
}

// RedisRankingCache keeps top-rated results as JSON under one key per limit.
type RedisRankingCache struct {
	client   *redis.Client
	ttl      time.Duration
	recorder CacheRecorder
}

func NewRedisRankingCache(client *redis.Client, ttl time.Duration, recorder CacheRecorder) *RedisRankingCache {
	return &RedisRankingCache{client: client, ttl: ttl, recorder: recorder}
}

func rankingKey(limit int) string {
	return constants.RedisPrefixTopRated + strconv.Itoa(limit)
}

// Get returns the cached ranking. A miss reports false with a nil error.
func (cache *RedisRankingCache) Get(ctx context.Context, limit int) ([]*RankedBook, bool, error) {
	payload, err := cache.client.Get(ctx, rankingKey(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		cache.record(metrics.CacheMiss)
		return nil, false, nil
	}
	if err != nil {
		cache.record(metrics.CacheErr)
		return nil, false, fmt.Errorf("redis: get ranking: %w", err)
	}

	var books []*RankedBook
	if err := json.Unmarshal(payload, &books); err != nil {
		cache.record(metrics.CacheErr)
		return nil, false, fmt.Errorf("redis: decode ranking: %w", err)
	}

	cache.record(metrics.CacheHit)
	return books, true, nil
}

func (cache *RedisRankingCache) Set(ctx context.Context, limit int, books []*RankedBook) error {
	payload, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("redis: encode ranking: %w", err)
	}
	if err := cache.client.Set(ctx, rankingKey(limit), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set ranking: %w", err)
	}
	return nil
}

// Invalidate drops every cached ranking regardless of limit.
func (cache *RedisRankingCache) Invalidate(ctx context.Context) error {
	iterator := cache.client.Scan(ctx, 0, constants.RedisPrefixTopRated+"*", scanBatch).Iterator()

	var keys []string
	for iterator.Next(ctx) {
		keys = append(keys, iterator.Val())
	}
	if err := iterator.Err(); err != nil {
		return fmt.Errorf("redis: scan rankings: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := cache.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete rankings: %w", err)
	}
	return nil
}

func (cache *RedisRankingCache) record(outcome string) {
	if cache.recorder != nil {
		cache.recorder.CacheLookup(outcome)
	}
}

package gencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/talentdex/ormgen/internal/db"
	"github.com/talentdex/ormgen/internal/domain"
	"github.com/talentdex/ormgen/internal/domain/query"
)

var cacheKeyPrefix = domain.KeyPrefix + "gen_cache:"

// store is the consumer interface for the generation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedGenerator caches generated ORM expressions in a key-value store.
// Identical queries against the same model skip the completion round-trip.
type CachedGenerator struct {
	inner      domain.Generator
	store      store
	model      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. The cache key covers the model name, so a
// model switch never serves stale expressions.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Generator,
	s store,
	model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns a cached expression or calls the inner generator.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full GenerationResult from inner.
func (c *CachedGenerator) Generate(ctx context.Context, query string) (domain.GenerationResult, error) {
	key := c.cacheKey(query)

	if orm, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.GenerationResult{ORM: orm}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Generate(ctx, query)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}

	c.putToCache(ctx, key, result.ORM)
	return result, nil
}

func (c *CachedGenerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedGenerator) cacheKey(q string) string {
	h := sha256.Sum256([]byte(c.model + "\x00" + query.NormalizeText(q)))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached expression", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, orm string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(orm), c.ttl); err != nil {
		c.logger.Warn("Failed to cache expression", zap.String("key", key), zap.Error(err))
	}
}

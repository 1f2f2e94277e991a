package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"minishop/internal/cache"
	"minishop/internal/logger"
	"minishop/internal/metrics"
	"minishop/internal/models"
)

const catalogVersionKey = "catalog:version"

// CachedProducts caches catalog listings. Every successful write bumps a
// version counter that is part of each listing key, so stale pages are never
// served after an admin edit. Cache failures fall back to the wrapped store.
type CachedProducts struct {
	ProductStore
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedProducts(inner ProductStore, c cache.Cache, ttl time.Duration) *CachedProducts {
	return &CachedProducts{ProductStore: inner, cache: c, ttl: ttl}
}

func (s *CachedProducts) List(ctx context.Context, opts ProductListOptions) ([]models.Product, error) {
	log := logger.For(ctx, "catalog")
	key := s.listKey(ctx, opts)

	raw, err := s.cache.Get(ctx, key)
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(raw, &products); err == nil {
			metrics.CacheHits.WithLabelValues(s.cache.Driver()).Inc()
			return products, nil
		}
		log.Warn("discarding undecodable catalog cache entry", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn("catalog cache read failed", "error", err)
	}
	metrics.CacheMisses.WithLabelValues(s.cache.Driver()).Inc()

	products, err := s.ProductStore.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			log.Warn("catalog cache write failed", "error", err)
		}
	}
	return products, nil
}

func (s *CachedProducts) Create(ctx context.Context, product *models.Product) error {
	if err := s.ProductStore.Create(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedProducts) Update(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) error {
	if err := s.ProductStore.Update(ctx, id, fields); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.ProductStore.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedProducts) version(ctx context.Context) int64 {
	raw, err := s.cache.Get(ctx, catalogVersionKey)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *CachedProducts) listKey(ctx context.Context, opts ProductListOptions) string {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	return fmt.Sprintf("catalog:v%d:p%d:l%d:%s", s.version(ctx), opts.Page, opts.Limit, search)
}

func (s *CachedProducts) invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, catalogVersionKey); err != nil {
		logger.For(ctx, "catalog").Error("catalog cache invalidation failed", "error", err)
	}
}

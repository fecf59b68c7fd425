package store

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/metrics"
	gostore "github.com/eko/gocache/lib/v4/store"
	bigcache_store "github.com/eko/gocache/store/bigcache/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
)

/* Adds a memory read cache on to another store type. */

// CachedStore caches serialised collections in front of a slower backend.
// Writes and deletes invalidate, reads fill.
type CachedStore struct {
	manager cache.CacheInterface[[]byte]
	inner   Store
	ttl     time.Duration
}

func NewCachedStore(inner Store) (Store, error) {
	ttl := time.Second * time.Duration(st.Store.Cache.TTLSeconds)
	config := bigcache.DefaultConfig(ttl)
	config.HardMaxCacheSize = int(int64(st.Store.Cache.SizeBytes) / 1048576) // in MB
	config.Verbose = false
	config.Shards = int(st.Store.Cache.Shards)
	client, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}
	cacheClient := bigcache_store.NewBigcache(client)
	customRegistry := prometheus.NewRegistry()
	promMetrics := metrics.NewPrometheus("simdex", metrics.WithRegisterer(customRegistry))
	manager := cache.NewMetric[[]byte](promMetrics, cache.New[[]byte](cacheClient))
	return &CachedStore{manager: manager, inner: inner, ttl: ttl}, nil
}

func (c *CachedStore) IndexNames() []string {
	return c.inner.IndexNames()
}

func (c *CachedStore) Get(ctx context.Context, id string) (FeatureCollection, error) {
	prom.FCCacheLookups.Inc()
	raw, err := c.manager.Get(ctx, fcKeyPrefix+id)
	if err == nil && len(raw) > 0 {
		prom.FCCacheHits.Inc()
		return UnmarshalFC(raw)
	}
	fc, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err = MarshalFC(fc)
	if err != nil {
		return nil, err
	}
	_ = c.manager.Set(ctx, fcKeyPrefix+id, raw, gostore.WithExpiration(c.ttl))
	return fc, nil
}

func (c *CachedStore) Put(ctx context.Context, id string, fc FeatureCollection) error {
	if err := c.inner.Put(ctx, id, fc); err != nil {
		return err
	}
	_ = c.manager.Delete(ctx, fcKeyPrefix+id)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = c.manager.Delete(ctx, fcKeyPrefix+id)
	return nil
}

func (c *CachedStore) ScanPrefixIDs(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.ScanPrefixIDs(ctx, prefix)
}

func (c *CachedStore) IndexScan(ctx context.Context, index, value string) ([]string, error) {
	return c.inner.IndexScan(ctx, index, value)
}

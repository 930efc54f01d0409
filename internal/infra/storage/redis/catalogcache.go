package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/logger"
)

// catalogKeyPrefix is the namespace prefix for all cached catalog records.
const catalogKeyPrefix = "catalog"

// itemCacheTTL bounds how long a hydrated item record is served from cache.
// Records are immutable on the catalog side, but art and rarity metadata get
// re-rendered occasionally, so the cache expires rather than living forever.
const itemCacheTTL = 24 * time.Hour

// catalogItemKey constructs the Redis key for one cached item record.
// Format: "catalog:item:<id>"
func catalogItemKey(id int64) string {
	return fmt.Sprintf("%s:item:%d", catalogKeyPrefix, id)
}

// CatalogCache is a read-through mintresolve.Catalog decorator: item lookups
// are answered from Redis when possible, misses fall through to the inner
// catalog and get cached on the way back. Cache failures are logged and
// never surfaced; the inner catalog remains the source of truth.
type CatalogCache struct {
	client *client
	inner  mintresolve.Catalog
}

var _ mintresolve.Catalog = (*CatalogCache)(nil)

// NewCatalogCache wraps the inner catalog with the Redis-backed item cache.
func NewCatalogCache(c *client, inner mintresolve.Catalog) *CatalogCache {
	return &CatalogCache{
		client: c,
		inner:  inner,
	}
}

// cachedItems returns the subset of ids found in the cache and the ids that
// missed, preserving the requested order within each group.
func (c *CatalogCache) cachedItems(ctx context.Context, ids []int64) ([]mintresolve.CatalogItem, []int64) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = catalogItemKey(id)
	}

	values, err := c.client.conn.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warn(ctx, "catalog cache lookup failed", "error", err)
		return nil, ids
	}

	var (
		hits   = make([]mintresolve.CatalogItem, 0, len(ids))
		misses = make([]int64, 0, len(ids))
	)
	for i, raw := range values {
		payload, ok := raw.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}

		var item mintresolve.CatalogItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			misses = append(misses, ids[i])
			continue
		}

		hits = append(hits, item)
	}

	return hits, misses
}

// saveItems caches the given records, best-effort.
func (c *CatalogCache) saveItems(ctx context.Context, items []mintresolve.CatalogItem) {
	if len(items) == 0 {
		return
	}

	pipe := c.client.conn.Pipeline()
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			continue
		}

		pipe.Set(ctx, catalogItemKey(item.ID), payload, itemCacheTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn(ctx, "catalog cache write failed", "error", err)
	}
}

// GetItemsByIDs implements mintresolve.Catalog with read-through caching.
func (c *CatalogCache) GetItemsByIDs(ctx context.Context, ids []int64) ([]mintresolve.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	hits, misses := c.cachedItems(ctx, ids)
	if len(misses) == 0 {
		return hits, nil
	}

	fetched, err := c.inner.GetItemsByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}

	c.saveItems(ctx, fetched)

	return append(hits, fetched...), nil
}

// GetPackByID implements mintresolve.Catalog. The pack record itself is not
// cached (pack lookups happen once per purchase), but its hydrated items are.
func (c *CatalogCache) GetPackByID(ctx context.Context, packID int64) (mintresolve.PackRecord, error) {
	pack, err := c.inner.GetPackByID(ctx, packID)
	if err != nil {
		return mintresolve.PackRecord{}, err
	}

	c.saveItems(ctx, pack.Items)

	return pack, nil
}

// GetRecentPacksForBuyer implements mintresolve.Catalog. Pack history is
// polled precisely because it changes, so it passes through uncached.
func (c *CatalogCache) GetRecentPacksForBuyer(ctx context.Context, buyer string) (mintresolve.RecentPacks, error) {
	return c.inner.GetRecentPacksForBuyer(ctx, buyer)
}

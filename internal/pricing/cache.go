package pricing

import (
	"context"
	"log"
	"sync"

	"orderpad/internal/domain"
	"orderpad/internal/itemcode"
)

// Cache holds resolved prices for the currently active customer and
// deduplicates concurrent prefetches. All entries are scoped to one
// customer identity: changing customers wipes the cache synchronously, and
// an epoch counter makes sure a batch issued under the old customer can
// never merge its late reply into the new customer's cache.
type Cache struct {
	resolver Resolver
	logger   *log.Logger

	mu            sync.Mutex
	epoch         uint64
	customerID    string
	priceListCode string
	resolved      map[string]domain.ResolvedPrice
	inFlight      map[string]bool
}

// NewCache builds an empty cache. resolver may be nil; prefetches then do
// nothing and every lookup falls back.
func NewCache(resolver Resolver, logger *log.Logger) *Cache {
	return &Cache{
		resolver: resolver,
		logger:   logger,
		resolved: map[string]domain.ResolvedPrice{},
		inFlight: map[string]bool{},
	}
}

// SetCustomer records the active customer. A different identifier than
// before, including the transition to no customer, invalidates the whole
// cache before the call returns.
func (c *Cache) SetCustomer(customerID, priceListCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priceListCode = priceListCode
	if c.customerID == customerID {
		return
	}
	c.customerID = customerID
	c.invalidateLocked()
}

// Invalidate wipes all resolved entries and forgets in-flight batches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *Cache) invalidateLocked() {
	c.epoch++
	c.resolved = map[string]domain.ResolvedPrice{}
	c.inFlight = map[string]bool{}
}

// UnitPrice returns the cached resolved price for the item when present and
// numeric, the fallback otherwise. Never blocks on the network.
func (c *Cache) UnitPrice(itemID string, fallback float64) float64 {
	key := itemcode.Normalize(itemID)
	if key == "" {
		return fallback
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.resolved[key]; ok && entry.Price != nil {
		return *entry.Price
	}
	return fallback
}

// Resolved returns a copy of the cached entries.
func (c *Cache) Resolved() map[string]domain.ResolvedPrice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.ResolvedPrice, len(c.resolved))
	for k, v := range c.resolved {
		out[k] = v
	}
	return out
}

// Prefetch resolves prices for the given codes in one batched request.
// Cached codes are skipped unless force is set; codes already in flight are
// always skipped. Without an active customer this is a silent no-op.
// Failures are best-effort: nothing is cached, nothing propagates, and the
// codes become eligible again on the next call.
func (c *Cache) Prefetch(ctx context.Context, codes []string, force bool) {
	if c.resolver == nil {
		return
	}

	c.mu.Lock()
	customerID := c.customerID
	priceListCode := c.priceListCode
	if customerID == "" {
		c.mu.Unlock()
		return
	}

	needed := make([]string, 0, len(codes))
	for _, code := range itemcode.Uniq(codes) {
		if c.inFlight[code] {
			continue
		}
		if _, cached := c.resolved[code]; cached && !force {
			continue
		}
		c.inFlight[code] = true
		needed = append(needed, code)
	}
	epoch := c.epoch
	c.mu.Unlock()

	if len(needed) == 0 {
		return
	}

	prices, err := c.resolver.ResolvePrices(ctx, customerID, priceListCode, needed)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, code := range needed {
		delete(c.inFlight, code)
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("price prefetch failed for customer %s (%d codes): %v", customerID, len(needed), err)
		}
		return
	}
	if c.epoch != epoch {
		// customer changed while the batch was in flight; the reply prices
		// the wrong customer
		if c.logger != nil {
			c.logger.Printf("discarding stale price batch for customer %s", customerID)
		}
		return
	}
	for code, entry := range prices {
		c.resolved[code] = entry
	}
}

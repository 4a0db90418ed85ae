package files

import (
	"bytes"
	"context"
	"sync"

	"github.com/FavorLabs/ipsex/pkg/logging"
	"resenje.org/singleflight"
)

// OrderCache resolves (owner, key) pairs to positional order ids. Misses
// fall back to a full scan of the ledger's order list, so a cold lookup
// costs one ListOrders call and time linear in the number of orders.
//
// Entries never expire. A cached id goes stale when an earlier order is
// deleted by someone else, since that shifts every later position.
type OrderCache struct {
	ledger  Ledger
	logger  logging.Logger
	metrics metrics

	mu  sync.Mutex
	ids map[string]uint64

	scans singleflight.Group
}

func NewOrderCache(ledger Ledger, logger logging.Logger) *OrderCache {
	return newOrderCache(ledger, logger, newMetrics())
}

func newOrderCache(ledger Ledger, logger logging.Logger, m metrics) *OrderCache {
	return &OrderCache{
		ledger:  ledger,
		logger:  logger,
		metrics: m,
		ids:     make(map[string]uint64),
	}
}

func cacheKey(owner AccountID, key []byte) string {
	return string(owner[:]) + string(key)
}

type scanResult struct {
	id    uint64
	found bool
}

// Lookup returns the id of the first order owned by owner under key.
// Only successful scans are remembered.
func (c *OrderCache) Lookup(ctx context.Context, key []byte, owner AccountID) (id uint64, found bool, err error) {
	k := cacheKey(owner, key)

	c.mu.Lock()
	id, found = c.ids[k]
	c.mu.Unlock()
	if found {
		c.metrics.CacheHits.Inc()
		return id, true, nil
	}
	c.metrics.CacheMisses.Inc()

	v, shared, err := c.scans.Do(ctx, k, func(ctx context.Context) (interface{}, error) {
		return c.scan(ctx, key, owner)
	})
	if err != nil {
		return 0, false, err
	}
	if shared {
		c.logger.Tracef("order cache: shared ledger scan for key %x", key)
	}
	r := v.(scanResult)
	return r.id, r.found, nil
}

func (c *OrderCache) scan(ctx context.Context, key []byte, owner AccountID) (scanResult, error) {
	c.metrics.LedgerScans.Inc()
	orders, err := c.ledger.ListOrders(ctx)
	if err != nil {
		return scanResult{}, newError("resolve order", ErrLedgerQuery, err)
	}
	for i, o := range orders {
		if o.Owner != owner || !bytes.Equal(o.Key, key) {
			continue
		}
		id := uint64(i)
		c.mu.Lock()
		c.ids[cacheKey(owner, key)] = id
		c.mu.Unlock()
		c.logger.Debugf("order cache: key %x resolved to order %d after scanning %d orders", key, id, len(orders))
		return scanResult{id: id, found: true}, nil
	}
	c.logger.Debugf("order cache: key %x not found in %d orders", key, len(orders))
	return scanResult{}, nil
}

// Forget drops the entry for (owner, key).
func (c *OrderCache) Forget(key []byte, owner AccountID) {
	c.mu.Lock()
	delete(c.ids, cacheKey(owner, key))
	c.mu.Unlock()
}

func (c *OrderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

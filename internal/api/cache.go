package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/kagwathi/movenow-dashboard/internal/models"
)

// estimateCache is a tiny in-memory TTL cache for price quotes. Customers
// hammer the quote button while composing a booking; identical routes
// within the TTL skip the upstream call.
type estimateCache struct {
	mu    sync.RWMutex
	store map[string]estimateEntry
	ttl   time.Duration
}

type estimateEntry struct {
	v  models.PriceEstimate
	ts time.Time
}

func newEstimateCache(ttl time.Duration) *estimateCache {
	return &estimateCache{store: make(map[string]estimateEntry), ttl: ttl}
}

func estimateKey(req EstimateRequest) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f:%s",
		req.Pickup.Lat, req.Pickup.Lon, req.Dropoff.Lat, req.Dropoff.Lon, req.VehicleType)
}

func (c *estimateCache) get(req EstimateRequest) (models.PriceEstimate, bool) {
	k := estimateKey(req)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return models.PriceEstimate{}, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return models.PriceEstimate{}, false
	}
	return e.v, true
}

func (c *estimateCache) set(req EstimateRequest, v models.PriceEstimate) {
	k := estimateKey(req)
	c.mu.Lock()
	c.store[k] = estimateEntry{v: v, ts: time.Now()}
	c.mu.Unlock()
}

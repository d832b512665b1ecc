package pricing

import (
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"sync"
	"time"
)

const (
	DefaultCacheTTL = 5 * time.Second
)

type cacheKey struct {
	pool solana.PublicKey
	from solana.PublicKey
	to   solana.PublicKey
}

type cacheItem struct {
	price   float64
	expires time.Time
}

// PriceCache holds spot prices for one scan cycle. Each engine or detector
// owns its own instance; a miss only costs a recomputation.
type PriceCache struct {
	ttl   time.Duration
	now   func() time.Time
	lock  sync.RWMutex
	items map[cacheKey]*cacheItem
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PriceCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[cacheKey]*cacheItem),
	}
}

func (cache *PriceCache) Get(pool, from, to solana.PublicKey) (float64, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	item, ok := cache.items[cacheKey{pool, from, to}]
	if !ok || !cache.now().Before(item.expires) {
		return 0, false
	}
	return item.price, true
}

func (cache *PriceCache) Set(pool, from, to solana.PublicKey, price float64) {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	cache.items[cacheKey{pool, from, to}] = &cacheItem{
		price:   price,
		expires: cache.now().Add(cache.ttl),
	}
}

// Price returns the cached spot price or computes and stores it.
func (cache *PriceCache) Price(pool *program.Pool, from, to solana.PublicKey) (float64, bool) {
	if price, ok := cache.Get(pool.Id, from, to); ok {
		return price, true
	}
	price, ok := SpotPrice(pool, from, to)
	if !ok {
		return 0, false
	}
	cache.Set(pool.Id, from, to, price)
	return price, true
}

// Purge drops expired entries and returns how many were removed.
func (cache *PriceCache) Purge() int {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	now := cache.now()
	removed := 0
	for k, item := range cache.items {
		if !now.Before(item.expires) {
			delete(cache.items, k)
			removed++
		}
	}
	return removed
}

func (cache *PriceCache) Len() int {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return len(cache.items)
}

package calculator

import (
	"sync"
	"time"
)

// OpportunityCache keeps the best opportunity seen per cycle key. It has a
// single writer, the scan loop; readers get copies of the slice.
type OpportunityCache struct {
	lock  sync.RWMutex
	ttl   time.Duration
	items map[string]*Opportunity
}

// NewOpportunityCache keeps entries for ttl after they were found; ttl <= 0
// keeps them until Reset.
func NewOpportunityCache(ttl time.Duration) *OpportunityCache {
	return &OpportunityCache{
		ttl:   ttl,
		items: make(map[string]*Opportunity),
	}
}

// Upsert stores op when its key is new or op is strictly more profitable
// than the cached one, and reports whether it did.
func (cache *OpportunityCache) Upsert(op *Opportunity) bool {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	old, ok := cache.items[op.Key]
	if ok && !cache.expired(old, op.FoundAt) && op.NetProfit <= old.NetProfit {
		return false
	}
	cache.items[op.Key] = op
	return true
}

func (cache *OpportunityCache) Get(key string) (*Opportunity, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	op, ok := cache.items[key]
	return op, ok
}

// Expire drops entries older than the ttl and returns how many went.
func (cache *OpportunityCache) Expire(now time.Time) int {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	removed := 0
	for key, op := range cache.items {
		if cache.expired(op, now) {
			delete(cache.items, key)
			removed++
		}
	}
	return removed
}

func (cache *OpportunityCache) expired(op *Opportunity, now time.Time) bool {
	return cache.ttl > 0 && now.Sub(op.FoundAt) > cache.ttl
}

func (cache *OpportunityCache) Snapshot() []*Opportunity {
	cache.lock.RLock()
	opportunities := make([]*Opportunity, 0, len(cache.items))
	for _, op := range cache.items {
		opportunities = append(opportunities, op)
	}
	cache.lock.RUnlock()
	SortOpportunities(opportunities)
	return opportunities
}

func (cache *OpportunityCache) Len() int {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return len(cache.items)
}

func (cache *OpportunityCache) Reset() {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	cache.items = make(map[string]*Opportunity)
}

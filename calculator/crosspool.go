package calculator

import (
	"bytes"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"log"
	"math"
	"sort"
	"time"
)

const (
	// share of the thinner pool's liquidity a cross-pool trade may use
	SafeVolumeShare = 0.01
)

type CrossPool struct {
	log   *log.Logger
	cache *pricing.PriceCache
}

func NewCrossPool(cache *pricing.PriceCache, logger *log.Logger) *CrossPool {
	if cache == nil {
		cache = pricing.NewPriceCache(pricing.DefaultCacheTTL)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CrossPool{
		log:   logger,
		cache: cache,
	}
}

func (cp *CrossPool) Name() string {
	return CrossPoolArb
}

// Scan compares every unordered pair of pools trading the same two mints.
// The cheaper pool is the buy side. Only pairs whose spread after both fees
// reaches minSpreadBps are returned, widest net spread first.
func (cp *CrossPool) Scan(pools []*program.Pool, minSpreadBps float64) []*CrossPoolOpportunity {
	groups := make(map[string][]*program.Pool)
	order := make([]string, 0)
	for _, pool := range pools {
		if err := pool.Validate(); err != nil {
			cp.log.Printf("skip pool: %v", err)
			continue
		}
		key := pairKey(pool)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], pool)
	}
	opportunities := make([]*CrossPoolOpportunity, 0)
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		base, quote := group[0].TokenA, group[0].TokenB
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				op := cp.compare(group[i], group[j], base, quote, minSpreadBps)
				if op != nil {
					opportunities = append(opportunities, op)
				}
			}
		}
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		if opportunities[i].NetSpreadBps == opportunities[j].NetSpreadBps {
			return opportunities[i].EstimatedProfit > opportunities[j].EstimatedProfit
		}
		return opportunities[i].NetSpreadBps > opportunities[j].NetSpreadBps
	})
	return opportunities
}

func (cp *CrossPool) compare(p1, p2 *program.Pool, base, quote solana.PublicKey, minSpreadBps float64) *CrossPoolOpportunity {
	price1, ok := cp.cache.Price(p1, base, quote)
	if !ok {
		return nil
	}
	price2, ok := cp.cache.Price(p2, base, quote)
	if !ok {
		return nil
	}
	if price1 == price2 {
		return nil
	}
	net, ok := pricing.ArbitrageSpread(price1, price2, p1.FeeBps, p2.FeeBps)
	if !ok || net < minSpreadBps {
		return nil
	}
	buy, sell := p1, p2
	buyPrice, sellPrice := price1, price2
	if price2 < price1 {
		buy, sell = p2, p1
		buyPrice, sellPrice = price2, price1
	}
	volume := math.Min(buy.TotalLiquidity(), sell.TotalLiquidity()) * SafeVolumeShare
	return &CrossPoolOpportunity{
		Id:              nextId(),
		BuyPool:         buy,
		SellPool:        sell,
		Base:            base,
		Quote:           quote,
		BuyPrice:        buyPrice,
		SellPrice:       sellPrice,
		SpreadBps:       (sellPrice - buyPrice) / buyPrice * program.BpsDenominator,
		NetSpreadBps:    net,
		Volume:          volume,
		EstimatedProfit: volume * net / program.BpsDenominator,
		FoundAt:         time.Now(),
	}
}

// pairKey is the same for both orientations of a mint pair.
func pairKey(pool *program.Pool) string {
	a, b := pool.TokenA, pool.TokenB
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return a.String() + ":" + b.String()
}

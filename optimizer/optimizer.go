package optimizer

import (
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"math"
	"sort"
)

type ScoreWeights struct {
	Impact     float64 `json:"impact"`
	Fee        float64 `json:"fee"`
	Hops       float64 `json:"hops"`
	Confidence float64 `json:"confidence"`
}

var DefaultScoreWeights = ScoreWeights{
	Impact:     0.05,
	Fee:        1,
	Hops:       0.1,
	Confidence: 0.5,
}

type Params struct {
	// percent, 0 disables the bound
	MaxPriceImpact float64 `json:"max_price_impact"`
	MinAmountOut   uint64  `json:"min_amount_out"`
	// aggregate bps, 0 disables the bound
	MaxFeeBps      float64            `json:"max_fee_bps"`
	PreferredPools []solana.PublicKey `json:"preferred_pools"`
	PreferredBonus float64            `json:"preferred_bonus"`
	MaxRoutes      int                `json:"max_routes"`
	Weights        ScoreWeights       `json:"weights"`
	// 0..1, used by DynamicAdjustment
	Volatility float64 `json:"volatility"`
	// priced in the route's output asset
	Gas pricing.GasParams `json:"gas"`
}

func DefaultParams() *Params {
	return &Params{
		MaxPriceImpact: 5,
		MaxFeeBps:      300,
		PreferredBonus: 0.5,
		MaxRoutes:      5,
		Weights:        DefaultScoreWeights,
	}
}

// CompositeScore ranks a route: ln(1+out) minus a quadratic impact penalty,
// linear fee and hop penalties, plus a confidence bonus.
func CompositeScore(route *program.Route, weights ScoreWeights) float64 {
	feePct := route.FeeBps / 100
	return math.Log1p(float64(route.AmountOut)) -
		weights.Impact*route.PriceImpact*route.PriceImpact -
		weights.Fee*feePct -
		weights.Hops*float64(route.HopCount()) +
		weights.Confidence*route.Confidence/100
}

type scored struct {
	route *program.Route
	score float64
}

// OptimizeRoutes drops routes outside the hard bounds and ranks the rest by
// composite score, best first. Equal scores keep input order.
func OptimizeRoutes(routes []*program.Route, params *Params) []*program.Route {
	if params == nil {
		params = DefaultParams()
	}
	preferred := make(map[solana.PublicKey]bool, len(params.PreferredPools))
	for _, id := range params.PreferredPools {
		preferred[id] = true
	}
	items := make([]*scored, 0, len(routes))
	for _, route := range routes {
		if route == nil || route.HopCount() == 0 {
			continue
		}
		if params.MaxPriceImpact > 0 && route.PriceImpact > params.MaxPriceImpact {
			continue
		}
		if route.AmountOut < params.MinAmountOut {
			continue
		}
		if params.MaxFeeBps > 0 && route.FeeBps > params.MaxFeeBps {
			continue
		}
		score := CompositeScore(route, params.Weights)
		if usesAny(route, preferred) {
			score += params.PreferredBonus
		}
		items = append(items, &scored{route: route, score: score})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	if params.MaxRoutes > 0 && len(items) > params.MaxRoutes {
		items = items[:params.MaxRoutes]
	}
	ranked := make([]*program.Route, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, item.route)
	}
	return ranked
}

func usesAny(route *program.Route, pools map[solana.PublicKey]bool) bool {
	if len(pools) == 0 {
		return false
	}
	for _, hop := range route.Hops {
		if pools[hop.Pool.Id] {
			return true
		}
	}
	return false
}

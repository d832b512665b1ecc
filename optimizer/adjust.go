package optimizer

import (
	"github.com/egaotan/solana-router/program"
	"math"
	"sort"
)

const (
	mevHopPenalty    = 1.0
	mevImpactPenalty = 0.5
	mevSizePenalty   = 0.1
	maxDerate        = 0.5
)

// MEVScore prefers few, deep hops: a small trade against a deep pool leaves
// little room for a sandwich.
func MEVScore(route *program.Route) float64 {
	score := math.Log1p(route.AvgLiquidity()) -
		mevHopPenalty*float64(route.HopCount()) -
		mevImpactPenalty*route.PriceImpact
	if liquidity := route.MinLiquidity(); liquidity > 0 {
		sizePct := float64(route.AmountIn) / liquidity * 100
		score -= mevSizePenalty * sizePct
	}
	return score
}

// OptimizeForMEVResistance returns copies of routes ordered by MEVScore.
func OptimizeForMEVResistance(routes []*program.Route) []*program.Route {
	ranked := copyRoutes(routes)
	scores := make(map[*program.Route]float64, len(ranked))
	for _, route := range ranked {
		scores[route] = MEVScore(route)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

// DynamicAdjustment derates confidence by market volatility and folds the
// gas estimate into FeeBps, then re-ranks by composite score. The input
// routes are left untouched.
func DynamicAdjustment(routes []*program.Route, params *Params) []*program.Route {
	if params == nil {
		params = DefaultParams()
	}
	volatility := math.Min(math.Max(params.Volatility, 0), 1)
	adjusted := copyRoutes(routes)
	scores := make(map[*program.Route]float64, len(adjusted))
	for _, route := range adjusted {
		route.Confidence *= 1 - maxDerate*volatility
		gas := params.Gas.Estimate(route.HopCount())
		route.GasEstimate = gas
		if route.AmountOut > 0 {
			route.FeeBps += float64(gas) / float64(route.AmountOut) * program.BpsDenominator
		}
		scores[route] = CompositeScore(route, params.Weights)
	}
	sort.SliceStable(adjusted, func(i, j int) bool {
		return scores[adjusted[i]] > scores[adjusted[j]]
	})
	return adjusted
}

func copyRoutes(routes []*program.Route) []*program.Route {
	items := make([]*program.Route, 0, len(routes))
	for _, route := range routes {
		if route == nil {
			continue
		}
		items = append(items, route.Copy())
	}
	return items
}

package optimizer

import (
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"math"
)

const (
	splitEpsilon = 1e-9
	// log10 of the hop liquidity at which the liquidity factor is one half
	liquidityMidpoint = 4
)

// CalculateOptimalSplit divides total across routes by composite score,
// shrunk by price impact and by thin hops. The last route with a non-zero
// share takes the rounding remainder so the amounts always add up to total.
// When no route scores above zero the split is equal.
func CalculateOptimalSplit(routes []*program.Route, total uint64, weights ScoreWeights) []*program.SplitResult {
	usable := make([]*program.Route, 0, len(routes))
	for _, route := range routes {
		if route != nil && route.HopCount() > 0 {
			usable = append(usable, route)
		}
	}
	splits := make([]*program.SplitResult, 0, len(usable))
	if len(usable) == 0 {
		return splits
	}
	if len(usable) == 1 {
		return append(splits, &program.SplitResult{
			Route:          usable[0],
			Percentage:     1,
			Amount:         total,
			ExpectedOutput: expectedOutput(usable[0], total),
		})
	}

	shares := make([]float64, len(usable))
	sum := 0.0
	for i, route := range usable {
		score := math.Max(CompositeScore(route, weights), 0)
		share := score * impactFactor(route) * liquidityFactor(route)
		if math.IsNaN(share) || math.IsInf(share, 0) {
			share = 0
		}
		shares[i] = share
		sum += share
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range shares {
			shares[i] = 1
		}
		sum = float64(len(shares))
	}
	percentages := make([]float64, len(shares))
	check := 0.0
	for i := range shares {
		percentages[i] = shares[i] / sum
		check += percentages[i]
	}
	if math.Abs(check-1) > splitEpsilon {
		for i := range percentages {
			percentages[i] /= check
		}
	}

	last := 0
	for i := range percentages {
		if percentages[i] > 0 {
			last = i
		}
	}
	assigned := uint64(0)
	for i, route := range usable {
		amount := uint64(math.Floor(float64(total) * percentages[i]))
		if i > last {
			amount = 0
		}
		if i == last || assigned+amount > total {
			amount = total - assigned
		}
		assigned += amount
		splits = append(splits, &program.SplitResult{
			Route:          route,
			Percentage:     percentages[i],
			Amount:         amount,
			ExpectedOutput: expectedOutput(route, amount),
		})
	}
	return splits
}

func impactFactor(route *program.Route) float64 {
	return 1 / (1 + route.PriceImpact/100)
}

// liquidityFactor is a sigmoid of log10 of the thinnest hop's liquidity.
func liquidityFactor(route *program.Route) float64 {
	liquidity := route.MinLiquidity()
	if liquidity <= 0 {
		return 0
	}
	return 1 / (1 + math.Exp(-(math.Log10(liquidity) - liquidityMidpoint)))
}

// expectedOutput replays the route at its share. A route that cannot carry
// the share expects nothing.
func expectedOutput(route *program.Route, amount uint64) uint64 {
	if amount == 0 {
		return 0
	}
	if amount == route.AmountIn {
		return route.AmountOut
	}
	replay, err := pricing.Resimulate(route, amount)
	if err != nil {
		return 0
	}
	return replay.AmountOut
}

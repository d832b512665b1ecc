package engine

import (
	"github.com/egaotan/solana-router/optimizer"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
)

type Constraints struct {
	MaxHops     int    `json:"max_hops"`
	Split       bool   `json:"split"`
	SlippageBps uint64 `json:"slippage_bps"`
	// rank by sandwich resistance instead of composite score
	MEVResistant bool `json:"mev_resistant"`
	// a non-zero Optimizer.Volatility derates confidence before ranking
	Optimizer *optimizer.Params `json:"optimizer"`
}

type RouteResult struct {
	Routes       []*program.Route       `json:"-"`
	Splits       []*program.SplitResult `json:"-"`
	PoolSplits   []*pricing.PoolSplit   `json:"-"`
	AmountOut    uint64                 `json:"amount_out"`
	MinAmountOut uint64                 `json:"min_amount_out"`
}

func emptyResult() *RouteResult {
	return &RouteResult{
		Routes:     []*program.Route{},
		Splits:     []*program.SplitResult{},
		PoolSplits: []*pricing.PoolSplit{},
	}
}

// Route finds the best ways to turn amount of from into to. Candidate paths
// come from bounded enumeration plus the cheapest Dijkstra path, every one
// is simulated, then filtered and ranked. An unreachable pair yields an
// empty result.
func (e *Engine) Route(from, to solana.PublicKey, amount uint64, constraints *Constraints) *RouteResult {
	result := emptyResult()
	s := e.Snapshot()
	if !e.ready(s) || from == to || amount == 0 {
		return result
	}
	if constraints == nil {
		constraints = &Constraints{}
	}
	maxHops := constraints.MaxHops
	if maxHops <= 0 {
		maxHops = e.config.MaxHops
	}
	params := constraints.Optimizer
	if params == nil {
		params = optimizer.DefaultParams()
	}

	paths := s.Graph.FindPaths(from, to, maxHops, e.config.MaxPaths)
	if cheapest, _, ok := s.Graph.Dijkstra(from, to); ok && len(cheapest)-1 <= maxHops && !hasPath(paths, cheapest) {
		paths = append(paths, cheapest)
	}
	routes := make([]*program.Route, 0, len(paths))
	for _, path := range paths {
		route, err := pricing.SimulatePath(s.Graph, path, amount)
		if err != nil {
			continue
		}
		if err := route.Validate(to); err != nil {
			e.log.Printf("drop route %s: %v", route.Key(), err)
			continue
		}
		route.GasEstimate = e.config.Gas.Estimate(route.HopCount())
		routes = append(routes, route)
	}
	result.Routes = optimizer.OptimizeRoutes(routes, params)
	if len(result.Routes) == 0 {
		return result
	}
	if params.Volatility > 0 {
		adjust := *params
		if adjust.Gas == (pricing.GasParams{}) {
			adjust.Gas = e.config.Gas
		}
		result.Routes = optimizer.DynamicAdjustment(result.Routes, &adjust)
	}
	if constraints.MEVResistant {
		result.Routes = optimizer.OptimizeForMEVResistance(result.Routes)
	}

	candidates := result.Routes
	if !constraints.Split {
		candidates = candidates[:1]
	} else if e.config.MaxSplits > 0 && len(candidates) > e.config.MaxSplits {
		candidates = candidates[:e.config.MaxSplits]
	}
	result.Splits = optimizer.CalculateOptimalSplit(candidates, amount, params.Weights)
	for _, split := range result.Splits {
		result.AmountOut += split.ExpectedOutput
	}
	result.MinAmountOut = pricing.MinAmountOut(result.AmountOut, constraints.SlippageBps)
	result.PoolSplits = pricing.SplitAcrossPools(s.Graph.Pools(from, to), amount)
	return result
}

func hasPath(paths [][]solana.PublicKey, path []solana.PublicKey) bool {
	key := program.PathKey(path)
	for _, p := range paths {
		if program.PathKey(p) == key {
			return true
		}
	}
	return false
}

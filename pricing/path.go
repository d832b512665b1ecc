package pricing

import (
	"fmt"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"math"
)

// PoolLookup returns every pool trading from -> to. *graph.Graph implements
// it.
type PoolLookup interface {
	Pools(from, to solana.PublicKey) []*program.Pool
}

// BestHop quotes amountIn against each pool of a multigraph cell and keeps
// the largest output. Earlier pools win ties.
func BestHop(pools []*program.Pool, amountIn uint64, from, to solana.PublicKey) (*program.Hop, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPool, from, to)
	}
	var best *SwapQuote
	var lastErr error
	for _, pool := range pools {
		quote, err := CalculateSwapOutput(pool, amountIn, from, to)
		if err != nil {
			lastErr = err
			continue
		}
		if best == nil || quote.AmountOut > best.AmountOut {
			best = quote
		}
	}
	if best == nil {
		return nil, lastErr
	}
	return &program.Hop{
		Pool:        best.Pool,
		TokenIn:     from,
		TokenOut:    to,
		AmountIn:    best.AmountIn,
		AmountOut:   best.AmountOut,
		Fee:         best.Fee,
		PriceImpact: best.PriceImpact,
	}, nil
}

// SimulatePath walks path hop by hop, feeding each output into the next
// hop. Any hop without a usable pool fails the whole path.
func SimulatePath(lookup PoolLookup, path []solana.PublicKey, amountIn uint64) (*program.Route, error) {
	if len(path) < 2 {
		return nil, program.ErrEmptyRoute
	}
	route := &program.Route{
		Hops:     make([]*program.Hop, 0, len(path)-1),
		AmountIn: amountIn,
	}
	amount := amountIn
	for i := 0; i < len(path)-1; i++ {
		hop, err := BestHop(lookup.Pools(path[i], path[i+1]), amount, path[i], path[i+1])
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		route.Hops = append(route.Hops, hop)
		amount = hop.AmountOut
	}
	route.AmountOut = amount
	Summarize(route)
	return route, nil
}

// Resimulate replays route's pools with a different input amount.
func Resimulate(route *program.Route, amountIn uint64) (*program.Route, error) {
	if route == nil || len(route.Hops) == 0 {
		return nil, program.ErrEmptyRoute
	}
	c := &program.Route{
		Hops:        make([]*program.Hop, 0, len(route.Hops)),
		AmountIn:    amountIn,
		GasEstimate: route.GasEstimate,
	}
	amount := amountIn
	for i, old := range route.Hops {
		quote, err := CalculateSwapOutput(old.Pool, amount, old.TokenIn, old.TokenOut)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		c.Hops = append(c.Hops, &program.Hop{
			Pool:        old.Pool,
			TokenIn:     old.TokenIn,
			TokenOut:    old.TokenOut,
			AmountIn:    quote.AmountIn,
			AmountOut:   quote.AmountOut,
			Fee:         quote.Fee,
			PriceImpact: quote.PriceImpact,
		})
		amount = quote.AmountOut
	}
	c.AmountOut = amount
	Summarize(c)
	return c, nil
}

// Summarize fills the aggregate impact, fee and confidence of a simulated
// route. Impacts and fees compound multiplicatively along the hops.
func Summarize(route *program.Route) {
	keepImpact := 1.0
	keepFee := 1.0
	for _, hop := range route.Hops {
		keepImpact *= 1 - math.Min(hop.PriceImpact, 100)/100
		keepFee *= 1 - hop.Pool.FeeRate()
	}
	route.PriceImpact = (1 - keepImpact) * 100
	route.FeeBps = (1 - keepFee) * program.BpsDenominator
	route.Confidence = RouteConfidence(route)
}

// RouteConfidence starts at 100, loses 10 per hop after the first and the
// aggregate impact in percent.
func RouteConfidence(route *program.Route) float64 {
	confidence := 100.0
	if n := len(route.Hops); n > 1 {
		confidence -= 10 * float64(n-1)
	}
	confidence -= route.PriceImpact
	return clamp(confidence, 0, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

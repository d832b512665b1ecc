package calculator

import (
	"context"
	"github.com/egaotan/solana-router/graph"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"
	"log"
	"sort"
	"time"
)

// Triangular finds cycles back to a start asset and simulates them with the
// start asset's capital.
type Triangular struct {
	log       *log.Logger
	algorithm string
	params    *Params
}

func NewTriangular(algorithm string, params *Params, logger *log.Logger) *Triangular {
	if params == nil {
		params = DefaultParams()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Triangular{
		log:       logger,
		algorithm: algorithm,
		params:    params,
	}
}

func (t *Triangular) Name() string {
	return TriangularArb
}

func (t *Triangular) Algorithm() string {
	return t.algorithm
}

func (t *Triangular) Algorithms() []string {
	return []string{SIM, SBF}
}

func (t *Triangular) Params() *Params {
	return t.params
}

// Scan evaluates every start asset in parallel and returns the profitable
// cycles, best net profit first. prices is the log-price graph used by the
// SBF prefilter; it is ignored by SIM and may be nil.
func (t *Triangular) Scan(ctx context.Context, g *graph.Graph, prices *graph.Graph, startAssets []solana.PublicKey, minProfitBps float64, maxHops int) ([]*Opportunity, error) {
	results := make([][]*Opportunity, len(startAssets))
	eg, ctx := errgroup.WithContext(ctx)
	if t.params.Parallel > 0 {
		eg.SetLimit(t.params.Parallel)
	}
	for i, start := range startAssets {
		i, start := i, start
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if t.algorithm == SBF && prices != nil && !t.reachesNegativeCycle(prices, start) {
				return nil
			}
			results[i] = t.scanAsset(ctx, g, start, minProfitBps, maxHops)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	best := make(map[string]*Opportunity)
	for _, items := range results {
		for _, op := range items {
			if old, ok := best[op.Key]; !ok || op.NetProfit > old.NetProfit {
				best[op.Key] = op
			}
		}
	}
	opportunities := make([]*Opportunity, 0, len(best))
	for _, op := range best {
		opportunities = append(opportunities, op)
	}
	SortOpportunities(opportunities)
	return opportunities, nil
}

func (t *Triangular) reachesNegativeCycle(prices *graph.Graph, start solana.PublicKey) bool {
	if !prices.Has(start) {
		return false
	}
	_, negative := prices.BellmanFord(start)
	return negative
}

func (t *Triangular) scanAsset(ctx context.Context, g *graph.Graph, start solana.PublicKey, minProfitBps float64, maxHops int) []*Opportunity {
	if !g.Has(start) {
		t.log.Printf("token %s is not in graph", start)
		return nil
	}
	capital := t.params.CapitalFor(start)
	cycles := g.FindCyclesLimit(start, maxHops, t.params.MaxCycles)
	opportunities := make([]*Opportunity, 0)
	for _, cycle := range cycles {
		if ctx.Err() != nil {
			break
		}
		if len(cycle)-1 < t.params.MinHops {
			continue
		}
		op, ok := t.Evaluate(g, cycle, capital, minProfitBps)
		if !ok {
			continue
		}
		opportunities = append(opportunities, op)
	}
	return opportunities
}

// Evaluate simulates cycle with capital and keeps it only when the net
// profit after gas is positive and at least minProfitBps.
func (t *Triangular) Evaluate(g *graph.Graph, cycle []solana.PublicKey, capital uint64, minProfitBps float64) (*Opportunity, bool) {
	if capital == 0 {
		return nil, false
	}
	route, err := pricing.SimulatePath(g, cycle, capital)
	if err != nil {
		return nil, false
	}
	hops := route.HopCount()
	gas := t.params.Gas.Estimate(hops)
	route.GasEstimate = gas
	profit := int64(route.AmountOut) - int64(route.AmountIn)
	net := profit - int64(gas)
	netBps := float64(net) * program.BpsDenominator / float64(capital)
	if net <= 0 || netBps < minProfitBps {
		return nil, false
	}
	confidence := 100.0
	if hops > 3 {
		confidence -= 10 * float64(hops-3)
	}
	if net < t.params.MinAbsoluteProfit {
		confidence -= 20
	}
	if confidence < 0 {
		confidence = 0
	}
	return &Opportunity{
		Id:              nextId(),
		Key:             program.PathKey(cycle),
		Calculator:      t.Name(),
		Route:           route,
		CapitalRequired: capital,
		ProfitBps:       float64(profit) * program.BpsDenominator / float64(capital),
		NetProfitBps:    netBps,
		GasEstimate:     gas,
		NetProfit:       net,
		Confidence:      confidence,
		FoundAt:         time.Now(),
	}, true
}

// SortOpportunities orders by net profit, then by key so equal profits keep
// a stable order between scans.
func SortOpportunities(opportunities []*Opportunity) {
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].NetProfit == opportunities[j].NetProfit {
			return opportunities[i].Key < opportunities[j].Key
		}
		return opportunities[i].NetProfit > opportunities[j].NetProfit
	})
}

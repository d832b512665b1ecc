package engine

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/calculator"
	"github.com/egaotan/solana-router/graph"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"log"
	"sync/atomic"
	"time"
)

type Config struct {
	MaxHops      int           `json:"max_hops"`
	MaxPaths     int           `json:"max_paths"`
	MaxSplits    int           `json:"max_splits"`
	Interval     time.Duration `json:"interval"`
	MinProfitBps float64       `json:"min_profit_bps"`
	Algorithm    string        `json:"algorithm"`
	// lamports per route
	Gas            pricing.GasParams  `json:"gas"`
	OpportunityTTL time.Duration      `json:"opportunity_ttl"`
	Arbitrage      *calculator.Params `json:"arbitrage"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxHops:      3,
		MaxPaths:     64,
		MaxSplits:    3,
		Interval:     5 * time.Second,
		MinProfitBps: 10,
		Algorithm:    calculator.SIM,
		Gas:          pricing.DefaultGasParams,
		Arbitrage:    calculator.DefaultParams(),
	}
}

// Snapshot is one immutable view of the pool set. It is replaced as a whole
// on every reload and never mutated.
type Snapshot struct {
	Assets   []*program.Asset
	Pools    []*program.Pool
	Graph    *graph.Graph
	Prices   *graph.Graph
	LoadedAt time.Time
	cache    *pricing.PriceCache
}

func (s *Snapshot) Asset(mint solana.PublicKey) *program.Asset {
	for _, asset := range s.Assets {
		if asset.Mint == mint {
			return asset
		}
	}
	return nil
}

type Engine struct {
	log        *log.Logger
	config     *Config
	snapshot   atomic.Value
	triangular *calculator.Triangular
}

func NewEngine(cfg *Config, logger *log.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Arbitrage == nil {
		cfg.Arbitrage = calculator.DefaultParams()
	}
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		log:        logger,
		config:     cfg,
		triangular: calculator.NewTriangular(cfg.Algorithm, cfg.Arbitrage, logger),
	}
	e.snapshot.Store(&Snapshot{})
	return e
}

func (e *Engine) Config() *Config {
	return e.config
}

// Load builds both graphs from pools and swaps them in atomically. Queries
// running against the previous snapshot finish on it.
func (e *Engine) Load(assets []*program.Asset, pools []*program.Pool) *Snapshot {
	s := &Snapshot{
		Assets:   assets,
		Pools:    pools,
		Graph:    graph.Build(assets, pools, graph.WithLogger(e.log)),
		Prices:   graph.Build(assets, pools, graph.WithWeight(graph.LogPriceWeight), graph.WithLogger(e.log)),
		LoadedAt: time.Now(),
		cache:    pricing.NewPriceCache(pricing.DefaultCacheTTL),
	}
	e.snapshot.Store(s)
	e.log.Printf("load snapshot, tokens: %d, pools: %d, edges: %d, skipped: %d",
		s.Graph.NodeCount(), len(pools), s.Graph.EdgeCount(), s.Graph.Skipped())
	return s
}

// LoadFrom pulls a full pool list from provider and loads it with the
// current asset set.
func (e *Engine) LoadFrom(ctx context.Context, provider program.Provider) error {
	pools, err := provider.Pools(ctx)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}
	e.Load(e.Snapshot().Assets, pools)
	return nil
}

// OnSnapshot lets the engine be driven by a pool refresher.
func (e *Engine) OnSnapshot(pools []*program.Pool) error {
	e.Load(e.Snapshot().Assets, pools)
	return nil
}

func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load().(*Snapshot)
}

func (e *Engine) ready(s *Snapshot) bool {
	return s.Graph != nil
}

// Scan looks for profitable cycles from each start asset. Failures and
// cancellations yield an empty result.
func (e *Engine) Scan(ctx context.Context, startAssets []solana.PublicKey, minProfitBps float64, maxHops int) []*calculator.Opportunity {
	s := e.Snapshot()
	if !e.ready(s) {
		return []*calculator.Opportunity{}
	}
	if maxHops <= 0 {
		maxHops = e.config.MaxHops
	}
	ops, err := e.triangular.Scan(ctx, s.Graph, s.Prices, startAssets, minProfitBps, maxHops)
	if err != nil {
		e.log.Printf("scan err: %v", err)
		return []*calculator.Opportunity{}
	}
	return ops
}

func (e *Engine) CrossPool(minSpreadBps float64) []*calculator.CrossPoolOpportunity {
	s := e.Snapshot()
	if !e.ready(s) {
		return []*calculator.CrossPoolOpportunity{}
	}
	return calculator.NewCrossPool(s.cache, e.log).Scan(s.Pools, minSpreadBps)
}

type Diagnostics struct {
	Metrics             *graph.Metrics `json:"metrics"`
	Components          int            `json:"strongly_connected_components"`
	LargestComponent    int            `json:"largest_component"`
	Acyclic             bool           `json:"acyclic"`
	SpanningTreeEdges   int            `json:"spanning_tree_edges"`
	SpanningTreeWeight  float64        `json:"spanning_tree_weight"`
	NegativeCycleAssets []string       `json:"negative_cycle_assets"`
	Skipped             int            `json:"skipped"`
	LoadedAt            time.Time      `json:"loaded_at"`
}

// Diagnostics runs the all-pairs graph analysis. It is O(V^2) Dijkstra runs
// and is only ever served on request.
func (e *Engine) Diagnostics() *Diagnostics {
	s := e.Snapshot()
	if !e.ready(s) {
		return &Diagnostics{Metrics: &graph.Metrics{}, NegativeCycleAssets: []string{}}
	}
	d := &Diagnostics{
		Metrics:             s.Graph.Metrics(),
		Acyclic:             s.Graph.IsAcyclic(),
		Skipped:             s.Graph.Skipped(),
		LoadedAt:            s.LoadedAt,
		NegativeCycleAssets: make([]string, 0),
	}
	components := s.Graph.StronglyConnectedComponents()
	d.Components = len(components)
	for _, c := range components {
		if len(c) > d.LargestComponent {
			d.LargestComponent = len(c)
		}
	}
	mst, weight := s.Graph.MinimumSpanningTree()
	d.SpanningTreeEdges = len(mst)
	d.SpanningTreeWeight = weight
	for _, token := range s.Prices.Indexes {
		if _, negative := s.Prices.BellmanFord(token); negative {
			d.NegativeCycleAssets = append(d.NegativeCycleAssets, token.String())
		}
	}
	return d
}

package graph

import (
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"log"
)

// Edge is one pool traversed in one direction. Undirected graphs keep a
// single edge per pool and list it under both endpoints; Reverse then holds
// the To -> From weight.
type Edge struct {
	From     int
	To       int
	Weight   float64
	Reverse  float64
	Pool     *program.Pool
	Directed bool
}

// Next returns the node reached when leaving from over this edge, or -1 if
// the edge cannot be traversed from there.
func (e *Edge) Next(from int) int {
	if e.From == from {
		return e.To
	}
	if !e.Directed && e.To == from {
		return e.From
	}
	return -1
}

// Cost is the weight of leaving from over this edge.
func (e *Edge) Cost(from int) float64 {
	if !e.Directed && e.From != from {
		return e.Reverse
	}
	return e.Weight
}

type Graph struct {
	Indexes  []solana.PublicKey
	index    map[solana.PublicKey]int
	adjacent [][]*Edge
	edges    []*Edge
	directed bool
	weight   WeightFunc
	skipped  int
}

type options struct {
	directed bool
	weight   WeightFunc
	logger   *log.Logger
}

type Option func(*options)

func WithDirected(directed bool) Option {
	return func(o *options) {
		o.directed = directed
	}
}

func WithWeight(weight WeightFunc) Option {
	return func(o *options) {
		if weight != nil {
			o.weight = weight
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Build registers one node per asset and one edge per pool per direction.
// Pools that fail validation, or that reference an asset missing from a
// non-empty asset list, are skipped. With no asset list nodes are created
// from the pools themselves.
func Build(assets []*program.Asset, pools []*program.Pool, opts ...Option) *Graph {
	o := &options{
		directed: true,
		weight:   CostWeight,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	g := &Graph{
		Indexes:  make([]solana.PublicKey, 0, len(assets)),
		index:    make(map[solana.PublicKey]int),
		adjacent: make([][]*Edge, 0, len(assets)),
		edges:    make([]*Edge, 0, len(pools)*2),
		directed: o.directed,
		weight:   o.weight,
	}
	for _, asset := range assets {
		if asset == nil || asset.Mint.IsZero() {
			continue
		}
		g.addNode(asset.Mint)
	}
	fixed := len(g.Indexes) > 0
	for _, pool := range pools {
		if err := pool.Validate(); err != nil {
			o.logger.Printf("skip pool: %v", err)
			g.skipped++
			continue
		}
		if fixed && (g.Index(pool.TokenA) == -1 || g.Index(pool.TokenB) == -1) {
			o.logger.Printf("skip pool %s: token %s or %s is not supported", pool.Id, pool.TokenA, pool.TokenB)
			g.skipped++
			continue
		}
		g.addPool(pool)
	}
	return g
}

func (g *Graph) addNode(token solana.PublicKey) int {
	if i, ok := g.index[token]; ok {
		return i
	}
	g.Indexes = append(g.Indexes, token)
	g.adjacent = append(g.adjacent, make([]*Edge, 0))
	g.index[token] = len(g.Indexes) - 1
	return len(g.Indexes) - 1
}

func (g *Graph) addPool(pool *program.Pool) {
	a := g.addNode(pool.TokenA)
	b := g.addNode(pool.TokenB)
	if g.directed {
		ab := &Edge{From: a, To: b, Weight: g.weight(pool, pool.TokenA, pool.TokenB), Pool: pool, Directed: true}
		ba := &Edge{From: b, To: a, Weight: g.weight(pool, pool.TokenB, pool.TokenA), Pool: pool, Directed: true}
		g.adjacent[a] = append(g.adjacent[a], ab)
		g.adjacent[b] = append(g.adjacent[b], ba)
		g.edges = append(g.edges, ab, ba)
		return
	}
	e := &Edge{
		From:    a,
		To:      b,
		Weight:  g.weight(pool, pool.TokenA, pool.TokenB),
		Reverse: g.weight(pool, pool.TokenB, pool.TokenA),
		Pool:    pool,
	}
	g.adjacent[a] = append(g.adjacent[a], e)
	g.adjacent[b] = append(g.adjacent[b], e)
	g.edges = append(g.edges, e)
}

func (g *Graph) Index(token solana.PublicKey) int {
	if i, ok := g.index[token]; ok {
		return i
	}
	return -1
}

func (g *Graph) Has(token solana.PublicKey) bool {
	_, ok := g.index[token]
	return ok
}

func (g *Graph) Directed() bool {
	return g.directed
}

func (g *Graph) NodeCount() int {
	return len(g.Indexes)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Skipped is the number of malformed pools dropped while building.
func (g *Graph) Skipped() int {
	return g.skipped
}

func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Neighbors lists the edges leaving token, in insertion order.
func (g *Graph) Neighbors(token solana.PublicKey) []*Edge {
	i := g.Index(token)
	if i == -1 {
		return nil
	}
	return g.outgoing(i)
}

func (g *Graph) outgoing(i int) []*Edge {
	if g.directed {
		return g.adjacent[i]
	}
	out := make([]*Edge, 0, len(g.adjacent[i]))
	for _, e := range g.adjacent[i] {
		if e.Next(i) != -1 {
			out = append(out, e)
		}
	}
	return out
}

// Pools returns every pool that trades from -> to. This is the multigraph
// cell for the ordered pair.
func (g *Graph) Pools(from, to solana.PublicKey) []*program.Pool {
	i, j := g.Index(from), g.Index(to)
	if i == -1 || j == -1 {
		return nil
	}
	pools := make([]*program.Pool, 0)
	for _, e := range g.adjacent[i] {
		if e.Next(i) == j {
			pools = append(pools, e.Pool)
		}
	}
	return pools
}

func (g *Graph) tokens(path []int) []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(path))
	for _, i := range path {
		keys = append(keys, g.Indexes[i])
	}
	return keys
}

package graph

import (
	"fmt"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log"
	"sort"
	"testing"
)

var quiet = log.New(io.Discard, "", 0)

func key(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

var (
	tokenA = key(1)
	tokenB = key(2)
	tokenC = key(3)
	tokenD = key(4)
	tokenE = key(5)
	tokenF = key(6)
)

func newPool(id byte, a, b solana.PublicKey, liquidity float64, feeBps uint64) *program.Pool {
	return &program.Pool{
		Id:        key(100 + id),
		TokenA:    a,
		TokenB:    b,
		Liquidity: liquidity,
		FeeBps:    feeBps,
	}
}

func assets(keys ...solana.PublicKey) []*program.Asset {
	items := make([]*program.Asset, 0, len(keys))
	for _, k := range keys {
		items = append(items, &program.Asset{Mint: k})
	}
	return items
}

// A-B, B-C, C-A triangle with a tail C-D and a separate E-F island.
func triangle() []*program.Pool {
	return []*program.Pool{
		newPool(1, tokenA, tokenB, 1000000, 30),
		newPool(2, tokenB, tokenC, 1000000, 30),
		newPool(3, tokenC, tokenA, 1000000, 30),
		newPool(4, tokenC, tokenD, 1000000, 30),
		newPool(5, tokenE, tokenF, 1000000, 30),
	}
}

func edgeSet(g *Graph) []string {
	items := make([]string, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		items = append(items, fmt.Sprintf("%s>%s@%s", g.Indexes[e.From], g.Indexes[e.To], e.Pool.Id))
	}
	sort.Strings(items)
	return items
}

func TestBuild_SkipsMalformedPools(t *testing.T) {
	pools := triangle()
	pools = append(pools,
		&program.Pool{Id: key(150), TokenA: tokenA},
		newPool(51, tokenA, tokenA, 100, 30),
		newPool(52, tokenA, key(99), 100, 30),
		nil,
	)
	g := Build(assets(tokenA, tokenB, tokenC, tokenD, tokenE, tokenF), pools, WithLogger(quiet))
	assert.Equal(t, 6, g.NodeCount())
	assert.Equal(t, 10, g.EdgeCount())
	assert.Equal(t, 4, g.Skipped())
	assert.Equal(t, -1, g.Index(key(99)))
}

func TestBuild_NodesFromPoolsWithoutAssets(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	assert.Equal(t, 6, g.NodeCount())
	assert.Equal(t, []solana.PublicKey{tokenA, tokenB, tokenC, tokenD, tokenE, tokenF}, g.Indexes)
}

func TestBuild_Undirected(t *testing.T) {
	g := Build(nil, triangle(), WithDirected(false), WithLogger(quiet))
	assert.Equal(t, 5, g.EdgeCount())
	assert.Len(t, g.Neighbors(tokenB), 2)
	assert.Len(t, g.Pools(tokenB, tokenA), 1)
}

func TestBuild_Idempotent(t *testing.T) {
	all := assets(tokenA, tokenB, tokenC, tokenD, tokenE, tokenF)
	g1 := Build(all, triangle(), WithLogger(quiet))
	g2 := Build(all, triangle(), WithLogger(quiet))
	assert.Equal(t, g1.Indexes, g2.Indexes)
	assert.Equal(t, edgeSet(g1), edgeSet(g2))
}

func TestBuild_Multigraph(t *testing.T) {
	pools := []*program.Pool{
		newPool(1, tokenA, tokenB, 1000, 30),
		newPool(2, tokenB, tokenA, 5000, 5),
	}
	g := Build(nil, pools, WithLogger(quiet))
	assert.Equal(t, 2, g.NodeCount())
	assert.Len(t, g.Pools(tokenA, tokenB), 2)
	assert.Len(t, g.Pools(tokenB, tokenA), 2)
}

func TestCostWeight_Monotonic(t *testing.T) {
	cheap := newPool(1, tokenA, tokenB, 1000000, 5)
	pricey := newPool(2, tokenA, tokenB, 1000000, 100)
	thin := newPool(3, tokenA, tokenB, 1000, 5)
	assert.Less(t, CostWeight(cheap, tokenA, tokenB), CostWeight(pricey, tokenA, tokenB))
	assert.Less(t, CostWeight(cheap, tokenA, tokenB), CostWeight(thin, tokenA, tokenB))
	assert.GreaterOrEqual(t, CostWeight(cheap, tokenA, tokenB), 0.0)
}

func assertSimple(t *testing.T, path []solana.PublicKey) {
	seen := make(map[solana.PublicKey]bool)
	for _, k := range path {
		require.False(t, seen[k], "node %s repeated in %v", k, path)
		seen[k] = true
	}
}

func TestFindAllPaths(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))

	paths := g.FindAllPaths(tokenA, tokenD, 3)
	require.Len(t, paths, 2)
	assert.Equal(t, []solana.PublicKey{tokenA, tokenB, tokenC, tokenD}, paths[0])
	assert.Equal(t, []solana.PublicKey{tokenA, tokenC, tokenD}, paths[1])

	paths = g.FindAllPaths(tokenA, tokenD, 2)
	require.Len(t, paths, 1)
	assert.Equal(t, []solana.PublicKey{tokenA, tokenC, tokenD}, paths[0])

	assert.Empty(t, g.FindAllPaths(tokenA, tokenD, 1))
	assert.Empty(t, g.FindAllPaths(tokenA, tokenE, 10))
	assert.Empty(t, g.FindAllPaths(tokenA, key(99), 10))
}

func TestFindAllPaths_TerminatesOnCycles(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	for maxLength := 1; maxLength <= 50; maxLength++ {
		for _, path := range g.FindAllPaths(tokenA, tokenC, maxLength) {
			assert.LessOrEqual(t, len(path)-1, maxLength)
			assert.Equal(t, tokenA, path[0])
			assert.Equal(t, tokenC, path[len(path)-1])
			assertSimple(t, path)
		}
	}
}

func TestFindPaths_Limit(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	assert.Len(t, g.FindPaths(tokenA, tokenD, 3, 1), 1)
}

func TestFindCycles(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	cycles := g.FindCycles(tokenA, 3)
	keys := make([]string, 0, len(cycles))
	for _, cycle := range cycles {
		assert.Equal(t, tokenA, cycle[0])
		assert.Equal(t, tokenA, cycle[len(cycle)-1])
		assertSimple(t, cycle[:len(cycle)-1])
		keys = append(keys, program.PathKey(cycle))
	}
	assert.ElementsMatch(t, []string{
		program.PathKey([]solana.PublicKey{tokenA, tokenB, tokenA}),
		program.PathKey([]solana.PublicKey{tokenA, tokenC, tokenA}),
		program.PathKey([]solana.PublicKey{tokenA, tokenB, tokenC, tokenA}),
		program.PathKey([]solana.PublicKey{tokenA, tokenC, tokenB, tokenA}),
	}, keys)
	assert.Empty(t, g.FindCycles(tokenA, 1))
	assert.Len(t, g.FindCyclesLimit(tokenA, 3, 2), 2)
}

func TestDijkstra(t *testing.T) {
	pools := []*program.Pool{
		newPool(1, tokenA, tokenD, 1000, 500),
		newPool(2, tokenA, tokenB, 1000000000, 1),
		newPool(3, tokenB, tokenD, 1000000000, 1),
		newPool(4, tokenE, tokenF, 1000, 30),
	}
	g := Build(nil, pools, WithLogger(quiet))

	path, cost, ok := g.Dijkstra(tokenA, tokenD)
	require.True(t, ok)
	assert.Equal(t, []solana.PublicKey{tokenA, tokenB, tokenD}, path)
	assert.Greater(t, cost, 0.0)
	assertSimple(t, path)

	path, _, ok = g.Dijkstra(tokenA, tokenE)
	assert.False(t, ok)
	assert.Nil(t, path)

	_, _, ok = g.Dijkstra(tokenA, key(99))
	assert.False(t, ok)
}

func TestDijkstra_Deterministic(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	first, _, ok := g.Dijkstra(tokenB, tokenD)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, _, _ := g.Dijkstra(tokenB, tokenD)
		assert.Equal(t, first, again)
	}
}

func fixedWeights(weights map[string]float64) WeightFunc {
	return func(pool *program.Pool, from, to solana.PublicKey) float64 {
		return weights[from.String()+">"+to.String()]
	}
}

func TestBellmanFord_NegativeCycle(t *testing.T) {
	pools := []*program.Pool{
		newPool(1, tokenA, tokenB, 1000, 0),
		newPool(2, tokenB, tokenC, 1000, 0),
		newPool(3, tokenC, tokenA, 1000, 0),
	}
	weights := map[string]float64{
		tokenA.String() + ">" + tokenB.String(): 1,
		tokenB.String() + ">" + tokenC.String(): 1,
		tokenC.String() + ">" + tokenA.String(): -3,
		tokenB.String() + ">" + tokenA.String(): 5,
		tokenC.String() + ">" + tokenB.String(): 5,
		tokenA.String() + ">" + tokenC.String(): 5,
	}
	g := Build(nil, pools, WithWeight(fixedWeights(weights)), WithLogger(quiet))
	_, negative := g.BellmanFord(tokenA)
	assert.True(t, negative)

	weights[tokenC.String()+">"+tokenA.String()] = -1
	g = Build(nil, pools, WithWeight(fixedWeights(weights)), WithLogger(quiet))
	dist, negative := g.BellmanFord(tokenA)
	assert.False(t, negative)
	assert.Equal(t, 0.0, dist[tokenA])
	assert.Equal(t, 1.0, dist[tokenB])
	assert.Equal(t, 2.0, dist[tokenC])
}

func TestBellmanFord_Unreachable(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	dist, negative := g.BellmanFord(tokenA)
	assert.False(t, negative)
	assert.True(t, dist[tokenE] > 1e300)
}

func TestBellmanFord_LogPriceArbitrage(t *testing.T) {
	pools := []*program.Pool{
		{Id: key(101), TokenA: tokenA, TokenB: tokenB, ReserveA: 1000000, ReserveB: 1100000},
		{Id: key(102), TokenA: tokenB, TokenB: tokenC, ReserveA: 1000000, ReserveB: 1000000},
		{Id: key(103), TokenA: tokenC, TokenB: tokenA, ReserveA: 1000000, ReserveB: 1000000},
	}
	g := Build(nil, pools, WithWeight(LogPriceWeight), WithLogger(quiet))
	_, negative := g.BellmanFord(tokenA)
	assert.True(t, negative)

	for _, pool := range pools {
		pool.FeeBps = 500
	}
	g = Build(nil, pools, WithWeight(LogPriceWeight), WithLogger(quiet))
	_, negative = g.BellmanFord(tokenA)
	assert.False(t, negative)
}

func TestBellmanFord_UndirectedReverseWeight(t *testing.T) {
	pool := &program.Pool{Id: key(104), TokenA: tokenA, TokenB: tokenB, ReserveA: 1000000, ReserveB: 1100000, FeeBps: 30}
	g := Build(nil, []*program.Pool{pool}, WithDirected(false), WithWeight(LogPriceWeight), WithLogger(quiet))
	require.Len(t, g.Edges(), 1)
	e := g.Edges()[0]
	assert.Less(t, e.Cost(e.From), 0.0)
	assert.Greater(t, e.Cost(e.To), 0.0)
	assert.Equal(t, LogPriceWeight(pool, tokenB, tokenA), e.Cost(e.To))

	dist, negative := g.BellmanFord(tokenA)
	assert.False(t, negative)
	assert.InDelta(t, LogPriceWeight(pool, tokenA, tokenB), dist[tokenB], 1e-12)
	dist, negative = g.BellmanFord(tokenB)
	assert.False(t, negative)
	assert.InDelta(t, LogPriceWeight(pool, tokenB, tokenA), dist[tokenA], 1e-12)
}

func TestStructure(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	sccs := g.StronglyConnectedComponents()
	require.Len(t, sccs, 2)
	sizes := []int{len(sccs[0]), len(sccs[1])}
	assert.ElementsMatch(t, []int{4, 2}, sizes)
	assert.False(t, g.IsAcyclic())
	assert.Nil(t, g.TopologicalSort())

	chain := Build(nil, []*program.Pool{
		newPool(1, tokenA, tokenB, 1000, 30),
		newPool(2, tokenB, tokenC, 1000, 30),
	}, WithDirected(false), WithLogger(quiet))
	assert.True(t, chain.IsAcyclic())
	assert.Equal(t, []solana.PublicKey{tokenA, tokenB, tokenC}, chain.TopologicalSort())
}

func TestMinimumSpanningTree(t *testing.T) {
	pools := []*program.Pool{
		newPool(1, tokenA, tokenB, 1000, 0),
		newPool(2, tokenB, tokenC, 1000, 0),
		newPool(3, tokenC, tokenA, 1000, 0),
		newPool(4, tokenE, tokenF, 1000, 0),
	}
	weights := map[string]float64{
		tokenA.String() + ">" + tokenB.String(): 1,
		tokenB.String() + ">" + tokenC.String(): 2,
		tokenC.String() + ">" + tokenA.String(): 9,
		tokenE.String() + ">" + tokenF.String(): 4,
	}
	g := Build(nil, pools, WithDirected(false), WithWeight(fixedWeights(weights)), WithLogger(quiet))
	mst, total := g.MinimumSpanningTree()
	assert.Len(t, mst, 3)
	assert.Equal(t, 7.0, total)
}

func TestMetrics(t *testing.T) {
	g := Build(nil, triangle(), WithLogger(quiet))
	m := g.Metrics()
	assert.Equal(t, 6, m.Nodes)
	assert.Equal(t, 10, m.Edges)
	assert.InDelta(t, 10.0/30.0, m.Density, 1e-9)
	assert.InDelta(t, 10.0/6.0, m.AverageDegree, 1e-9)
	assert.False(t, m.Connected)
	assert.Equal(t, 2, m.Components)
	assert.Equal(t, 2, m.Diameter)

	empty := Build(nil, nil, WithLogger(quiet))
	assert.Equal(t, 0, empty.Metrics().Nodes)
}

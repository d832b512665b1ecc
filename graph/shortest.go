package graph

import (
	"container/heap"
	"github.com/gagliardetto/solana-go"
	"math"
)

// Dijkstra returns the cheapest path from start to end and its cost. ok is
// false iff end is unreachable. Weights must be non-negative; use
// BellmanFord otherwise. On equal cost the first discovered path wins.
func (g *Graph) Dijkstra(start, end solana.PublicKey) ([]solana.PublicKey, float64, bool) {
	src, dst := g.Index(start), g.Index(end)
	if src == -1 || dst == -1 {
		return nil, 0, false
	}
	r := &runner{
		g:       g,
		dist:    make([]float64, len(g.Indexes)),
		prev:    make([]int, len(g.Indexes)),
		visited: make([]bool, len(g.Indexes)),
		pq:      make(nodePQ, 0, len(g.Indexes)),
	}
	r.init(src)
	r.process(dst)
	if math.IsInf(r.dist[dst], 1) {
		return nil, 0, false
	}
	path := make([]int, 0)
	for n := dst; n != -1; n = r.prev[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return g.tokens(path), r.dist[dst], true
}

type runner struct {
	g       *Graph
	dist    []float64
	prev    []int
	visited []bool
	pq      nodePQ
	seq     int
}

func (r *runner) init(src int) {
	for i := range r.dist {
		r.dist[i] = math.Inf(1)
		r.prev[i] = -1
	}
	r.dist[src] = 0
	heap.Init(&r.pq)
	r.push(src, 0)
}

func (r *runner) push(node int, dist float64) {
	heap.Push(&r.pq, &nodeItem{node: node, dist: dist, seq: r.seq})
	r.seq++
}

func (r *runner) process(dst int) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.node
		if r.visited[u] {
			continue
		}
		r.visited[u] = true
		if u == dst {
			return
		}
		r.relax(u)
	}
}

func (r *runner) relax(u int) {
	for _, e := range r.g.outgoing(u) {
		v := e.Next(u)
		if v == -1 || r.visited[v] {
			continue
		}
		w := e.Cost(u)
		if w < 0 {
			w = 0
		}
		newDist := r.dist[u] + w
		if newDist >= r.dist[v] {
			continue
		}
		r.dist[v] = newDist
		r.prev[v] = u
		r.push(v, newDist)
	}
}

type nodeItem struct {
	node int
	dist float64
	seq  int
}

type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].dist < pq[j].dist
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// BellmanFord relaxes every edge |V|-1 times from start and then runs one
// more pass. hasNegativeCycle is true iff a negative cycle is reachable
// from start. Unreachable nodes keep +Inf.
func (g *Graph) BellmanFord(start solana.PublicKey) (map[solana.PublicKey]float64, bool) {
	src := g.Index(start)
	distances := make(map[solana.PublicKey]float64, len(g.Indexes))
	if src == -1 {
		return distances, false
	}
	dist := make([]float64, len(g.Indexes))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0
	for i := 0; i < len(g.Indexes)-1; i++ {
		if !g.relaxAll(dist) {
			break
		}
	}
	negative := g.relaxAll(dist)
	for i, key := range g.Indexes {
		distances[key] = dist[i]
	}
	return distances, negative
}

// relaxAll runs one relaxation pass and reports whether anything improved.
func (g *Graph) relaxAll(dist []float64) bool {
	improved := false
	for _, e := range g.edges {
		if relax(dist, e.From, e.To, e.Weight) {
			improved = true
		}
		if !e.Directed && relax(dist, e.To, e.From, e.Reverse) {
			improved = true
		}
	}
	return improved
}

func relax(dist []float64, u, v int, w float64) bool {
	if math.IsInf(dist[u], 1) {
		return false
	}
	if dist[u]+w < dist[v] {
		dist[v] = dist[u] + w
		return true
	}
	return false
}

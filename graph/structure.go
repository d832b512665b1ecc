package graph

import (
	"container/heap"
	"github.com/gagliardetto/solana-go"
)

// StronglyConnectedComponents runs Tarjan's algorithm. Components are
// emitted in the order Tarjan completes them.
func (g *Graph) StronglyConnectedComponents() [][]solana.PublicKey {
	t := &tarjan{
		g:       g,
		index:   make([]int, len(g.Indexes)),
		low:     make([]int, len(g.Indexes)),
		onStack: make([]bool, len(g.Indexes)),
		stack:   make([]int, 0, len(g.Indexes)),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := range g.Indexes {
		if t.index[i] == -1 {
			t.connect(i)
		}
	}
	return t.components
}

type tarjan struct {
	g          *Graph
	counter    int
	index      []int
	low        []int
	onStack    []bool
	stack      []int
	components [][]solana.PublicKey
}

func (t *tarjan) connect(v int) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
	for _, e := range t.g.outgoing(v) {
		w := e.Next(v)
		if t.index[w] == -1 {
			t.connect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStack[w] && t.index[w] < t.low[v] {
			t.low[v] = t.index[w]
		}
	}
	if t.low[v] != t.index[v] {
		return
	}
	component := make([]int, 0)
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, t.g.tokens(component))
}

// directedEdges lists each edge in the orientation used for ordering
// queries; an undirected edge counts as TokenA -> TokenB.
func (g *Graph) directedEdges(i int) []int {
	out := make([]int, 0, len(g.adjacent[i]))
	for _, e := range g.adjacent[i] {
		if e.From == i {
			out = append(out, e.To)
		}
	}
	return out
}

// TopologicalSort orders mints so every edge points forward. It returns nil
// when the graph has a cycle, which is the normal case for a pool graph
// since every pool trades both ways.
func (g *Graph) TopologicalSort() []solana.PublicKey {
	inDegree := make([]int, len(g.Indexes))
	for i := range g.Indexes {
		for _, j := range g.directedEdges(i) {
			inDegree[j]++
		}
	}
	queue := make([]int, 0, len(g.Indexes))
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	order := make([]int, 0, len(g.Indexes))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range g.directedEdges(u) {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(order) != len(g.Indexes) {
		return nil
	}
	return g.tokens(order)
}

func (g *Graph) IsAcyclic() bool {
	return g.TopologicalSort() != nil
}

// MinimumSpanningTree is a Prim forest over the graph with direction
// ignored. It is for connectivity analysis only, never for routing.
func (g *Graph) MinimumSpanningTree() ([]*Edge, float64) {
	visited := make([]bool, len(g.Indexes))
	mst := make([]*Edge, 0, len(g.Indexes))
	total := 0.0
	incident := g.incident()
	for root := range g.Indexes {
		if visited[root] {
			continue
		}
		visited[root] = true
		pq := &edgePQ{}
		heap.Init(pq)
		for _, e := range incident[root] {
			heap.Push(pq, &edgeItem{edge: e, to: other(e, root), seq: pq.seq()})
		}
		for pq.Len() > 0 {
			item := heap.Pop(pq).(*edgeItem)
			if visited[item.to] {
				continue
			}
			visited[item.to] = true
			mst = append(mst, item.edge)
			total += item.edge.Weight
			for _, e := range incident[item.to] {
				if n := other(e, item.to); !visited[n] {
					heap.Push(pq, &edgeItem{edge: e, to: n, seq: pq.seq()})
				}
			}
		}
	}
	return mst, total
}

// incident lists every edge touching each node regardless of direction.
func (g *Graph) incident() [][]*Edge {
	incident := make([][]*Edge, len(g.Indexes))
	for _, e := range g.edges {
		incident[e.From] = append(incident[e.From], e)
		if e.To != e.From {
			incident[e.To] = append(incident[e.To], e)
		}
	}
	return incident
}

func other(e *Edge, node int) int {
	if e.From == node {
		return e.To
	}
	return e.From
}

type edgeItem struct {
	edge *Edge
	to   int
	seq  int
}

type edgePQ struct {
	items []*edgeItem
	count int
}

func (pq *edgePQ) seq() int {
	pq.count++
	return pq.count
}

func (pq edgePQ) Len() int { return len(pq.items) }

func (pq edgePQ) Less(i, j int) bool {
	if pq.items[i].edge.Weight == pq.items[j].edge.Weight {
		return pq.items[i].seq < pq.items[j].seq
	}
	return pq.items[i].edge.Weight < pq.items[j].edge.Weight
}

func (pq edgePQ) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *edgePQ) Push(x interface{}) { pq.items = append(pq.items, x.(*edgeItem)) }

func (pq *edgePQ) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]
	return item
}

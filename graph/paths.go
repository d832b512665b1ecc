package graph

import (
	"github.com/badgerodon/collections/stack"
	"github.com/gagliardetto/solana-go"
)

type frame struct {
	node int
	path []int
}

// FindAllPaths enumerates every simple path from start to end with at most
// maxLength hops. Paths come out in depth-first order.
func (g *Graph) FindAllPaths(start, end solana.PublicKey, maxLength int) [][]solana.PublicKey {
	return g.FindPaths(start, end, maxLength, 0)
}

// FindPaths is FindAllPaths with an upper bound on the number of paths
// returned; limit <= 0 means no bound.
func (g *Graph) FindPaths(start, end solana.PublicKey, maxLength int, limit int) [][]solana.PublicKey {
	src, dst := g.Index(start), g.Index(end)
	paths := make([][]solana.PublicKey, 0)
	if src == -1 || dst == -1 || src == dst || maxLength <= 0 {
		return paths
	}
	st := stack.New()
	st.Push(&frame{node: src, path: []int{src}})
	for st.Len() > 0 {
		cur := st.Pop().(*frame)
		if cur.node == dst {
			paths = append(paths, g.tokens(cur.path))
			if limit > 0 && len(paths) >= limit {
				break
			}
			continue
		}
		if len(cur.path)-1 >= maxLength {
			continue
		}
		next := g.nextNodes(cur.node)
		for k := len(next) - 1; k >= 0; k-- {
			if contains(cur.path, next[k]) {
				continue
			}
			st.Push(&frame{node: next[k], path: extend(cur.path, next[k])})
		}
	}
	return paths
}

// FindCycles enumerates cycles start -> ... -> start of 2 to maxLength hops.
// Apart from the closing node no mint repeats within a cycle.
func (g *Graph) FindCycles(start solana.PublicKey, maxLength int) [][]solana.PublicKey {
	return g.FindCyclesLimit(start, maxLength, 0)
}

func (g *Graph) FindCyclesLimit(start solana.PublicKey, maxLength int, limit int) [][]solana.PublicKey {
	src := g.Index(start)
	cycles := make([][]solana.PublicKey, 0)
	if src == -1 || maxLength < 2 {
		return cycles
	}
	st := stack.New()
	st.Push(&frame{node: src, path: []int{src}})
	for st.Len() > 0 {
		cur := st.Pop().(*frame)
		if len(cur.path)-1 >= maxLength {
			continue
		}
		next := g.nextNodes(cur.node)
		for k := len(next) - 1; k >= 0; k-- {
			n := next[k]
			if n == src {
				if len(cur.path) >= 2 {
					cycles = append(cycles, g.tokens(extend(cur.path, src)))
				}
				continue
			}
			if contains(cur.path, n) {
				continue
			}
			st.Push(&frame{node: n, path: extend(cur.path, n)})
		}
		if limit > 0 && len(cycles) >= limit {
			return cycles[:limit]
		}
	}
	return cycles
}

// nextNodes lists distinct neighbours of i in first-seen order; parallel
// pools collapse into one step.
func (g *Graph) nextNodes(i int) []int {
	seen := make(map[int]bool)
	next := make([]int, 0, len(g.adjacent[i]))
	for _, e := range g.adjacent[i] {
		n := e.Next(i)
		if n == -1 || n == i || seen[n] {
			continue
		}
		seen[n] = true
		next = append(next, n)
	}
	return next
}

func contains(path []int, node int) bool {
	for _, n := range path {
		if n == node {
			return true
		}
	}
	return false
}

func extend(path []int, node int) []int {
	p := make([]int, len(path), len(path)+1)
	copy(p, path)
	return append(p, node)
}

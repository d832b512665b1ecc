package graph

type Metrics struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	Density       float64 `json:"density"`
	AverageDegree float64 `json:"average_degree"`
	Connected     bool    `json:"connected"`
	Components    int     `json:"components"`
	Diameter      int     `json:"diameter"`
}

// Metrics summarises the graph. Diameter needs a shortest path between every
// ordered pair of nodes, O(V^2) Dijkstra runs: diagnostics only, never on a
// request or monitor tick.
func (g *Graph) Metrics() *Metrics {
	m := &Metrics{
		Nodes: len(g.Indexes),
		Edges: len(g.edges),
	}
	if m.Nodes == 0 {
		return m
	}
	arcs := float64(m.Edges)
	if !g.directed {
		arcs *= 2
	}
	if m.Nodes > 1 {
		m.Density = arcs / float64(m.Nodes*(m.Nodes-1))
	}
	m.AverageDegree = arcs / float64(m.Nodes)
	m.Components = g.weakComponents()
	m.Connected = m.Components == 1
	m.Diameter = g.Diameter()
	return m
}

// Diameter is the longest shortest path, in hops, over all reachable
// ordered pairs.
func (g *Graph) Diameter() int {
	diameter := 0
	for i := range g.Indexes {
		for j := range g.Indexes {
			if i == j {
				continue
			}
			path, _, ok := g.Dijkstra(g.Indexes[i], g.Indexes[j])
			if !ok {
				continue
			}
			if hops := len(path) - 1; hops > diameter {
				diameter = hops
			}
		}
	}
	return diameter
}

func (g *Graph) weakComponents() int {
	parent := make([]int, len(g.Indexes))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, e := range g.edges {
		a, b := find(e.From), find(e.To)
		if a != b {
			parent[a] = b
		}
	}
	components := 0
	for i := range parent {
		if find(i) == i {
			components++
		}
	}
	return components
}

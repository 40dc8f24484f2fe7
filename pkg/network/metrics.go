package network

import "sort"

// DegreeCentrality returns the number of edges incident to the node.
// It is recomputed from the edge list on every call and never cached.
func DegreeCentrality(g *Graph, id string) int {
	degree := 0
	for _, e := range g.Edges() {
		if e.Touches(id) {
			degree++
		}
	}
	return degree
}

// WeightedDegree returns the sum of weights of edges incident to the
// node, recomputed fresh on every call so trust adjustments are always
// reflected.
func WeightedDegree(g *Graph, id string) float64 {
	sum := 0.0
	for _, e := range g.Edges() {
		if e.Touches(id) {
			sum += e.Weight
		}
	}
	return sum
}

// Ranking pairs a node with its centrality metrics at computation time.
type Ranking struct {
	Node     *Node
	Degree   int
	Weighted float64
}

// TopCentral returns the k most central nodes by degree, descending.
// The sort is stable and input order is insertion order, so ties keep
// their insertion order. k larger than the node count returns all nodes.
func TopCentral(g *Graph, k int) []Ranking {
	rankings := make([]Ranking, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		rankings = append(rankings, Ranking{
			Node:     n,
			Degree:   DegreeCentrality(g, n.ID),
			Weighted: WeightedDegree(g, n.ID),
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Degree > rankings[j].Degree
	})
	if k >= 0 && k < len(rankings) {
		rankings = rankings[:k]
	}
	return rankings
}

// TopEdges returns the k strongest edges by weight, descending, ties
// kept in creation order. The graph's edge list is not reordered.
func TopEdges(g *Graph, k int) []*Edge {
	edges := make([]*Edge, len(g.Edges()))
	copy(edges, g.Edges())
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if k >= 0 && k < len(edges) {
		edges = edges[:k]
	}
	return edges
}

// SectorCount is one row of a sector distribution.
type SectorCount struct {
	Sector string
	Count  int
}

// SectorDistribution returns actor counts per sector, sorted by count
// descending with ties in first-seen order.
func SectorDistribution(g *Graph) []SectorCount {
	counts := make(map[string]int)
	var order []string
	for _, n := range g.Nodes() {
		if _, seen := counts[n.Sector]; !seen {
			order = append(order, n.Sector)
		}
		counts[n.Sector]++
	}
	dist := make([]SectorCount, 0, len(order))
	for _, sector := range order {
		dist = append(dist, SectorCount{Sector: sector, Count: counts[sector]})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist
}

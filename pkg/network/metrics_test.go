package network

import "testing"

// metricsGraph builds a small star plus one isolated node:
// hub-a, hub-b, hub-c, and "lone" with no edges.
func metricsGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	nodes := []Node{
		{ID: "hub", Sector: "Water"},
		{ID: "a", Sector: "Agriculture"},
		{ID: "b", Sector: "Water"},
		{ID: "c", Sector: "Agriculture"},
		{ID: "lone", Sector: "Community"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []Edge{
		{Source: "hub", Target: "a", Weight: 1.0},
		{Source: "hub", Target: "b", Weight: 1.3},
		{Source: "hub", Target: "c", Weight: 1.0},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestDegreeCentrality(t *testing.T) {
	g := metricsGraph(t)
	if d := DegreeCentrality(g, "hub"); d != 3 {
		t.Errorf("hub degree: got %d want 3", d)
	}
	if d := DegreeCentrality(g, "a"); d != 1 {
		t.Errorf("leaf degree: got %d want 1", d)
	}
	if d := DegreeCentrality(g, "lone"); d != 0 {
		t.Errorf("isolated degree: got %d want 0", d)
	}
}

func TestWeightedDegree(t *testing.T) {
	g := metricsGraph(t)
	if w := WeightedDegree(g, "hub"); w != 3.3 {
		t.Errorf("hub weighted degree: got %f want 3.3", w)
	}
	if w := WeightedDegree(g, "b"); w != 1.3 {
		t.Errorf("leaf weighted degree: got %f want 1.3", w)
	}
}

func TestMetricsRecomputed(t *testing.T) {
	g := metricsGraph(t)
	before := WeightedDegree(g, "hub")

	// Weight mutations (as the trust engine performs) must be visible on
	// the next call without any invalidation step.
	g.Edges()[0].Weight += 0.3
	after := WeightedDegree(g, "hub")
	if after != before+0.3 {
		t.Errorf("metrics must reflect weight changes: before %f after %f", before, after)
	}
}

func TestTopCentral(t *testing.T) {
	g := metricsGraph(t)
	top := TopCentral(g, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 rankings, got %d", len(top))
	}
	if top[0].Node.ID != "hub" || top[0].Degree != 3 {
		t.Errorf("hub should rank first: %+v", top[0])
	}
	// a, b, c all have degree 1; stable sort keeps insertion order.
	if top[1].Node.ID != "a" {
		t.Errorf("ties should keep insertion order, got %s", top[1].Node.ID)
	}
	if top[0].Weighted != 3.3 {
		t.Errorf("ranking should carry weighted degree, got %f", top[0].Weighted)
	}
}

func TestTopCentralLargeK(t *testing.T) {
	g := metricsGraph(t)
	if top := TopCentral(g, 100); len(top) != g.NodeCount() {
		t.Errorf("oversized k should return all nodes, got %d", len(top))
	}
}

func TestTopEdges(t *testing.T) {
	g := metricsGraph(t)
	top := TopEdges(g, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(top))
	}
	if top[0].Target != "b" {
		t.Errorf("heaviest edge should rank first, got target %s", top[0].Target)
	}
	// hub-a and hub-c tie at 1.0; creation order breaks the tie.
	if top[1].Target != "a" {
		t.Errorf("ties should keep creation order, got target %s", top[1].Target)
	}

	// The graph's own edge list must stay in creation order.
	if g.Edges()[0].Target != "a" || g.Edges()[1].Target != "b" {
		t.Error("TopEdges must not reorder the graph's edge list")
	}
}

func TestSectorDistribution(t *testing.T) {
	g := metricsGraph(t)
	dist := SectorDistribution(g)
	if len(dist) != 3 {
		t.Fatalf("expected 3 sectors, got %d", len(dist))
	}
	// Water and Agriculture both count 2; Water was seen first.
	if dist[0].Sector != "Water" || dist[0].Count != 2 {
		t.Errorf("unexpected leading sector: %+v", dist[0])
	}
	if dist[1].Sector != "Agriculture" || dist[1].Count != 2 {
		t.Errorf("ties should keep first-seen order: %+v", dist[1])
	}
	if dist[2].Sector != "Community" || dist[2].Count != 1 {
		t.Errorf("unexpected trailing sector: %+v", dist[2])
	}
}

package network

import (
	"fmt"
	"strings"
	"testing"
)

func resolveGraph(t *testing.T, nodes ...Node) *Graph {
	t.Helper()
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestResolvePartnerships(t *testing.T) {
	g := resolveGraph(t,
		Node{ID: "coop_algarve", PartnershipRefs: []string{"water_office"}},
		Node{ID: "water_office"},
	)

	created := ResolvePartnerships(g, ResolveOptions{})
	if created != 1 {
		t.Fatalf("expected 1 edge created, got %d", created)
	}
	e, ok := g.FindEdge("coop_algarve", "water_office")
	if !ok {
		t.Fatal("partnership edge should exist")
	}
	if e.Source != "coop_algarve" || e.Target != "water_office" {
		t.Errorf("source should be the declaring node: %+v", e)
	}
	if e.Kind != KindPartnership || e.Weight != 1.0 || !e.Bidirectional {
		t.Errorf("unexpected edge defaults: %+v", e)
	}
}

func TestResolveSubstringContainment(t *testing.T) {
	// The reference is a substring of the id, and vice versa.
	g := resolveGraph(t,
		Node{ID: "zz_declarer", PartnershipRefs: []string{"Coop_Algarve"}},
		Node{ID: "Node_Coop_Algarve"},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 1 {
		t.Errorf("ref contained in id should resolve, created %d", created)
	}

	g = resolveGraph(t,
		Node{ID: "zz_declarer", PartnershipRefs: []string{"some text around Coop_X here"}},
		Node{ID: "Coop_X"},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 1 {
		t.Errorf("id contained in ref should resolve, created %d", created)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	// Both ids contain the reference; insertion order decides.
	g := resolveGraph(t,
		Node{ID: "declaring", PartnershipRefs: []string{"coop"}},
		Node{ID: "coop_first"},
		Node{ID: "coop_second"},
	)
	ResolvePartnerships(g, ResolveOptions{})

	if _, ok := g.FindEdge("declaring", "coop_first"); !ok {
		t.Error("reference should resolve to the first inserted match")
	}
	if _, ok := g.FindEdge("declaring", "coop_second"); ok {
		t.Error("later matches should be ignored")
	}
}

func TestResolveOrderDependence(t *testing.T) {
	// Same nodes, opposite insertion order, different edge set.
	g := resolveGraph(t,
		Node{ID: "declaring", PartnershipRefs: []string{"coop"}},
		Node{ID: "coop_second"},
		Node{ID: "coop_first"},
	)
	ResolvePartnerships(g, ResolveOptions{})
	if _, ok := g.FindEdge("declaring", "coop_second"); !ok {
		t.Error("insertion order decides ambiguous matches")
	}
}

func TestResolveSkipsSelfMatch(t *testing.T) {
	g := resolveGraph(t,
		Node{ID: "coop_a", PartnershipRefs: []string{"coop_a"}},
		Node{ID: "other"},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 0 {
		t.Errorf("self-reference should create no edge, created %d", created)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected 0 edges, got %d", g.EdgeCount())
	}
}

func TestResolveDedupsAcrossDeclarers(t *testing.T) {
	// Both sides declare the partnership; only one edge results.
	g := resolveGraph(t,
		Node{ID: "coop_a", PartnershipRefs: []string{"coop_b"}},
		Node{ID: "coop_b", PartnershipRefs: []string{"coop_a"}},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 1 {
		t.Errorf("mutual declaration should create 1 edge, created %d", created)
	}
	e, _ := g.FindEdge("coop_a", "coop_b")
	if e.Source != "coop_a" {
		t.Errorf("first declarer should win the source slot, got %s", e.Source)
	}
}

func TestResolveEmptyRefMatchesFirstNode(t *testing.T) {
	// An empty reference is contained in every id, so it resolves to the
	// first node in insertion order.
	g := resolveGraph(t,
		Node{ID: "first_org"},
		Node{ID: "second_org", PartnershipRefs: []string{""}},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 1 {
		t.Fatalf("empty ref should resolve to the first node, created %d", created)
	}
	if _, ok := g.FindEdge("second_org", "first_org"); !ok {
		t.Error("expected edge {second_org, first_org}")
	}

	// When the declaring node is itself first, the match is a self-match
	// and the reference produces nothing.
	g = resolveGraph(t,
		Node{ID: "first_org", PartnershipRefs: []string{""}},
		Node{ID: "second_org"},
	)
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 0 {
		t.Errorf("empty ref on the first node self-matches, created %d", created)
	}
}

func TestResolveDropsUnresolvedWithLog(t *testing.T) {
	var logged []string
	g := resolveGraph(t,
		Node{ID: "coop_a", PartnershipRefs: []string{"nonexistent partner", "coop_b"}},
		Node{ID: "coop_b"},
	)
	created := ResolvePartnerships(g, ResolveOptions{
		Logf: func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		},
	})

	if created != 1 {
		t.Errorf("unresolved ref should not block later refs, created %d", created)
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "nonexistent partner") {
		t.Errorf("unresolved ref should be logged once: %v", logged)
	}
}

func TestResolveNilLogf(t *testing.T) {
	g := resolveGraph(t, Node{ID: "coop_a", PartnershipRefs: []string{"missing"}})
	// Must not panic without a logger.
	if created := ResolvePartnerships(g, ResolveOptions{}); created != 0 {
		t.Errorf("expected 0 edges, got %d", created)
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		participant, nodeName string
		want                  bool
	}{
		{"Maji Community Trust", "Maji Community Trust", true},
		{"Maji", "Maji Community Trust", true},
		{"The Maji Community Trust Board", "Maji Community Trust", true},
		{"County Water Office", "Maji Community Trust", false},
		{"", "Maji Community Trust", true}, // empty string is contained in everything
	}
	for _, tt := range tests {
		if got := NamesMatch(tt.participant, tt.nodeName); got != tt.want {
			t.Errorf("NamesMatch(%q, %q) = %v, want %v", tt.participant, tt.nodeName, got, tt.want)
		}
	}
}

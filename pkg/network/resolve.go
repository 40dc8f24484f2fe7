package network

import "strings"

// ResolveOptions configures partnership resolution.
type ResolveOptions struct {
	// Logf receives a debug line for every reference that could not be
	// resolved to a node. May be nil. Unresolved references are dropped
	// without error; this is the only signal they produce.
	Logf func(format string, args ...any)
}

// ResolvePartnerships converts every node's partnership references into
// deduplicated, undirected edges and returns the number of edges created.
//
// Nodes are visited in insertion order and each node's references in
// declared order. A reference resolves to the first node id (again in
// insertion order) related to it by two-way substring containment. The
// match is intentionally loose to tolerate naming-convention differences
// between reference tokens and canonical ids ("Coop_Algarve" resolves to
// "Node_Coop_Algarve"); when several ids overlap the reference, insertion
// order decides, so the produced edge set depends on node creation order.
// An empty reference is contained in every id and so resolves to the
// first node in insertion order, a quirk of the containment rule that is
// kept for compatibility.
//
// Self-matches are skipped, and at most one edge is created per unordered
// node pair no matter which side declared the reference. New edges carry
// kind "partnership" and weight 1.0.
func ResolvePartnerships(g *Graph, opts ResolveOptions) int {
	created := 0
	for _, n := range g.Nodes() {
		for _, ref := range n.PartnershipRefs {
			partnerID, ok := matchRef(g, ref)
			if !ok {
				if opts.Logf != nil {
					opts.Logf("dropping unresolvable partnership reference %q on node %s", ref, n.ID)
				}
				continue
			}
			if partnerID == n.ID {
				continue
			}
			if _, exists := g.FindEdge(n.ID, partnerID); exists {
				continue
			}
			// AddEdge cannot fail here: both endpoints exist and the
			// pair was just checked.
			_ = g.AddEdge(Edge{
				Source:        n.ID,
				Target:        partnerID,
				Kind:          KindPartnership,
				Weight:        1.0,
				Bidirectional: true,
			})
			created++
		}
	}
	return created
}

// matchRef resolves a free-text reference to a node id using two-way
// substring containment, scanning ids in insertion order and returning
// the first hit.
//
// The heuristic can produce false matches when ids overlap; it is kept
// for compatibility with existing reference data and isolated here so it
// can later be swapped for an exact-id lookup.
func matchRef(g *Graph, ref string) (string, bool) {
	for _, n := range g.Nodes() {
		if strings.Contains(n.ID, ref) || strings.Contains(ref, n.ID) {
			return n.ID, true
		}
	}
	return "", false
}

// looseMatch reports whether two names are related by two-way substring
// containment. It is the same test matchRef applies to ids, exported for
// the trust engine which applies it to display names.
func looseMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// NamesMatch reports whether a participant display name loosely matches
// a node name, using the containment test shared with reference
// resolution.
func NamesMatch(participant, nodeName string) bool {
	return looseMatch(participant, nodeName)
}

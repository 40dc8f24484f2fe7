package network

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either
	// endpoint does not exist in the graph.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge already
	// connects the same unordered pair of nodes, in either direction.
	ErrDuplicateEdge = errors.New("duplicate edge for node pair")
)

// KindPartnership is the only edge classification currently produced by
// the resolver.
const KindPartnership = "partnership"

// Node represents a single actor (organization, site, zone) in the
// partnership network. The ID is an opaque, stable token and is never
// parsed. SourceFeatureID and ModelBlockID are informational
// back-references to the originating record and are not used for graph
// logic.
type Node struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Type   string `json:"type" bson:"type"`
	Sector string `json:"sector" bson:"sector"`
	Level  string `json:"level" bson:"level"`
	Status string `json:"status" bson:"status"`

	SourceFeatureID string `json:"source_feature_id,omitempty" bson:"source_feature_id,omitempty"`
	ModelBlockID    string `json:"model_block_id,omitempty" bson:"model_block_id,omitempty"`

	Population int     `json:"population" bson:"population"`
	Budget     float64 `json:"budget" bson:"budget"`
	Capacity   float64 `json:"capacity" bson:"capacity"`

	AdoptedMethodologies []string `json:"adopted_methodologies,omitempty" bson:"adopted_methodologies,omitempty"`

	// PartnershipRefs holds free-text tokens naming intended partners, in
	// declared order. They are consumed by ResolvePartnerships and kept on
	// the node afterwards for provenance.
	PartnershipRefs []string `json:"partnership_refs,omitempty" bson:"partnership_refs,omitempty"`
}

// Edge represents an undirected, deduplicated partnership between two
// nodes. Source records which node declared the reference; the pair is
// semantically unordered and (a,b) equals (b,a) for dedup and metrics.
type Edge struct {
	Source        string  `json:"source" bson:"source"`
	Target        string  `json:"target" bson:"target"`
	Kind          string  `json:"kind" bson:"kind"`
	Weight        float64 `json:"weight" bson:"weight"`
	Bidirectional bool    `json:"bidirectional" bson:"bidirectional"`

	// ValidationEvent is set the first time a trust adjustment touches
	// this edge and never overwritten.
	ValidationEvent string `json:"validation_event,omitempty" bson:"validation_event,omitempty"`
}

// Touches reports whether the edge is incident to the given node ID.
func (e *Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// pairKey returns a direction-independent key for an unordered node pair.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Graph is the partnership network: an ordered node store with id-based
// lookup plus an edge list in creation order.
//
// The zero value is not usable - use New. Graph is not safe for
// concurrent use without external synchronization; the pipeline that
// creates a graph owns it exclusively.
type Graph struct {
	nodes []*Node
	index map[string]int
	edges []*Edge
	pairs map[string]int // pairKey -> index into edges
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		pairs: make(map[string]int),
	}
}

// AddNode appends a node to the graph, preserving insertion order.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	node := &n
	g.index[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return nil
}

// Node returns the node with the given ID, or false if absent.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in insertion order. The returned slice is
// shared with the graph and must not be reordered by callers.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in creation order. The returned slice is
// shared with the graph and must not be reordered by callers.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddEdge appends an edge. Both endpoints must exist, and at most one
// edge may connect any unordered pair of nodes regardless of direction.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.Source]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.Source)
	}
	if _, ok := g.index[e.Target]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.Target)
	}
	key := pairKey(e.Source, e.Target)
	if _, exists := g.pairs[key]; exists {
		return fmt.Errorf("%w: {%s, %s}", ErrDuplicateEdge, e.Source, e.Target)
	}
	edge := &e
	g.pairs[key] = len(g.edges)
	g.edges = append(g.edges, edge)
	return nil
}

// FindEdge returns the edge connecting the unordered pair {a, b}, in
// either direction, or false if none exists.
func (g *Graph) FindEdge(a, b string) (*Edge, bool) {
	i, ok := g.pairs[pairKey(a, b)]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

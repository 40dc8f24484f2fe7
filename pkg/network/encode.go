package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Doc is the canonical serialization format for partnership graphs.
// Used for API responses, snapshot storage, caching, and re-export.
//
// Unlike formats that sort nodes for stable output, Doc preserves
// insertion order: ordering is part of the graph contract and must
// survive a round trip.
type Doc struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// ToDoc converts a graph to its serialization format, preserving node
// insertion order and edge creation order.
func (g *Graph) ToDoc() Doc {
	d := Doc{
		Nodes: make([]Node, len(g.nodes)),
		Edges: make([]Edge, len(g.edges)),
	}
	for i, n := range g.nodes {
		d.Nodes[i] = *n
	}
	for i, e := range g.edges {
		d.Edges[i] = *e
	}
	return d
}

// FromDoc converts a Doc back to a graph. Returns an error if the
// structure violates graph constraints (duplicate ids, dangling or
// duplicate edges).
func FromDoc(d Doc) (*Graph, error) {
	g := New()
	for _, n := range d.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.ToDoc()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	var d Doc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDoc(d)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// Package network provides the core partnership graph: an ordered node
// store, deduplicated undirected edges, reference resolution, and
// centrality metrics.
//
// # Ordering Contract
//
// Node insertion order is part of the package contract, not an incidental
// property of the storage container. Partnership references are resolved
// with a loose containment match (see [ResolvePartnerships]); when a
// reference matches more than one node id, the node inserted first wins.
// [Graph.Nodes] always returns nodes in insertion order, and ranking ties
// are broken by insertion order.
//
// # Mutability
//
// Nodes are created once by the extractor and never deleted or merged.
// Edges are created once by [ResolvePartnerships]; their Weight and
// ValidationEvent fields are the only mutable graph state, and only the
// trust engine touches them. Metrics are recomputed on demand and never
// stored on the graph.
package network

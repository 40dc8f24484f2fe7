// Package pkg provides the core libraries for actornet partnership
// network analysis.
//
// # Overview
//
// Actornet turns a geo-tagged collection of community actors into a
// weighted social network. The pkg directory is organized by pipeline
// stage plus shared infrastructure:
//
//  1. [extract] - Actor extraction from GeoJSON feature collections
//  2. [network] - Graph structure, partnership resolution, metrics
//  3. [trust] - Trust weighting from validation session events
//  4. [export] - CSV/GraphML/Kumu/report/DOT serialization
//  5. [pipeline] - Orchestration (extract → resolve → trust → export)
//  6. [cache], [store], [httputil] - Caching, snapshots, remote inputs
//
// # Architecture
//
// The typical data flow through actornet:
//
//	GeoJSON FeatureCollection
//	         ↓
//	    [extract] package (actors with SNA identity)
//	         ↓
//	    [network] package (partnership edges + centrality)
//	         ↓
//	    [trust] package (validation event weighting, optional)
//	         ↓
//	    [export] package (CSV, GraphML, Kumu JSON, report, DOT/SVG)
//
// # Quick Start
//
// Run the full pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "actors.geojson",
//	    Event:   "session.json",
//	    Formats: []string{"csv", "kumu", "report"},
//	})
//
// Or use the stages directly:
//
//	g, err := extract.ReadFile("actors.geojson")
//	network.ResolvePartnerships(g, network.ResolveOptions{})
//	report, err := export.Render(g, export.FormatReport, export.Options{})
package pkg

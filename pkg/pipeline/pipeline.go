// Package pipeline provides the core analysis pipeline for actornet.
//
// This package implements the complete extract → resolve → trust → export
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Extract: Build actor nodes from a GeoJSON feature collection
//  2. Resolve: Materialize partnership edges from declared references
//  3. Trust: Reweight edges from a validation session event (optional)
//  4. Export: Serialize the network into the requested output formats
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "actors.geojson",
//	    Event:   "session.json",
//	    Formats: []string{"csv", "kumu"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kumu := result.Artifacts["kumu"]
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/geonet-tools/actornet/pkg/cache"
	"github.com/geonet-tools/actornet/pkg/export"
	"github.com/geonet-tools/actornet/pkg/network"
	"github.com/geonet-tools/actornet/pkg/trust"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultOutputDir is where artifacts are written when an output
// directory is requested but not named.
const DefaultOutputDir = "sna_exports"

// ErrBadInput marks failures caused by the supplied collection, event,
// or options rather than by the pipeline itself. Transports map it to a
// client-error status; anything else is a server fault.
var ErrBadInput = errors.New("bad input")

func badInput(err error) error {
	return fmt.Errorf("%w: %w", ErrBadInput, err)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Extract options. Input names a GeoJSON file; InputData carries the
	// raw bytes instead (API requests). Exactly one is required.
	Input     string `json:"input,omitempty"`
	InputData []byte `json:"input_data,omitempty"`

	// Trust options. Event names a validation session file; EventData
	// carries the raw bytes instead. Both empty means no trust stage.
	Event     string `json:"event,omitempty"`
	EventData []byte `json:"event_data,omitempty"`

	// Export options
	Formats   []string `json:"formats,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"` // write artifacts here when set
	TopK      int      `json:"top_k,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Timestamp fixes the artifact timestamp (not serialized). The zero
	// value is pinned to time.Now() during validation so cached artifacts
	// and written filenames agree within a run.
	Timestamp time.Time `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the resolved partnership network.
	Graph *network.Graph

	// GraphHash is the content hash of the network.
	GraphHash string

	// Artifacts contains rendered outputs keyed by artifact name.
	Artifacts map[string][]byte

	// Trust summarizes what the trust stage changed.
	Trust trust.Summary

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	ExtractTime time.Duration
	ResolveTime time.Duration
	TrustTime   time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	NetworkHit bool // Whether the resolved network came from cache
	ExportHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && len(o.InputData) == 0 {
		return fmt.Errorf("input or input_data is required")
	}
	if o.Input != "" && len(o.InputData) > 0 {
		return fmt.Errorf("input and input_data are mutually exclusive")
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), export.DefaultFormats...)
	}
	if err := export.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TopK == 0 {
		o.TopK = export.DefaultTopK
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	o.validated = true
	return nil
}

// HasEvent reports whether a validation event was supplied.
func (o *Options) HasEvent() bool {
	return o.Event != "" || len(o.EventData) > 0
}

func (o *Options) timestamp() time.Time {
	if o.Timestamp.IsZero() {
		return time.Now()
	}
	return o.Timestamp
}

// NetworkKeyOpts returns cache key options for the resolved network.
func (o *Options) NetworkKeyOpts(eventHash string) cache.NetworkKeyOpts {
	return cache.NetworkKeyOpts{EventHash: eventHash}
}

// ArtifactKeyOpts returns cache key options for one export format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		TopK:   o.TopK,
	}
}

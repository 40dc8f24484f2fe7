package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/geonet-tools/actornet/pkg/cache"
	"github.com/geonet-tools/actornet/pkg/export"
	"github.com/geonet-tools/actornet/pkg/extract"
	"github.com/geonet-tools/actornet/pkg/network"
	"github.com/geonet-tools/actornet/pkg/observability"
	"github.com/geonet-tools/actornet/pkg/trust"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete extract → resolve → trust → export pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, badInput(fmt.Errorf("invalid options: %w", err))
	}
	runStart := time.Now()

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	inputData, err := opts.readInput()
	if err != nil {
		return nil, err
	}
	eventData, err := opts.readEvent()
	if err != nil {
		return nil, err
	}

	// Stages 1-3: Build the network (cached as a unit, since the trust
	// stage mutates edge weights in place).
	g, summary, hit, err := r.buildNetwork(ctx, inputData, eventData, &opts, result)
	if err != nil {
		observability.Pipeline().OnRunComplete(ctx, 0, 0, time.Since(runStart), err)
		return nil, err
	}
	result.Graph = g
	result.Trust = summary
	result.CacheInfo.NetworkHit = hit
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Compute graph hash for cache keys and API responses
	if graphData, err := network.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("resolved network",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit)
	r.logTopCentral(g, opts.TopK)

	// Stage 4: Export
	exportStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageExport)
	artifacts, exportHit, err := r.renderArtifacts(ctx, g, result.GraphHash, opts)
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnStageComplete(ctx, observability.StageExport, result.Stats.ExportTime, err)
	if err != nil {
		observability.Pipeline().OnRunComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(runStart), err)
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.ExportTime)

	if opts.OutputDir != "" {
		if err := r.writeArtifacts(artifacts, opts); err != nil {
			return nil, err
		}
	}

	observability.Pipeline().OnRunComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(runStart), nil)
	return result, nil
}

// BuildNetwork runs the extract, resolve, and trust stages without
// exporting anything.
func (r *Runner) BuildNetwork(ctx context.Context, opts Options) (*network.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, badInput(fmt.Errorf("invalid options: %w", err))
	}

	inputData, err := opts.readInput()
	if err != nil {
		return nil, err
	}
	eventData, err := opts.readEvent()
	if err != nil {
		return nil, err
	}

	g, _, _, err := r.buildNetwork(ctx, inputData, eventData, &opts, &Result{})
	return g, err
}

// buildNetwork produces the resolved, trust-weighted network, consulting
// the cache first. The cache key covers both the input collection and the
// event, so the same collection analyzed with and without an event is
// cached separately.
func (r *Runner) buildNetwork(ctx context.Context, inputData, eventData []byte, opts *Options, result *Result) (*network.Graph, trust.Summary, bool, error) {
	eventHash := ""
	if len(eventData) > 0 {
		eventHash = cache.Hash(eventData)
	}
	cacheKey := r.Keyer.NetworkKey(cache.Hash(inputData), opts.NetworkKeyOpts(eventHash))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := network.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "network")
				return g, trust.Summary{}, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "network")
	}

	// Stage 1: Extract
	extractStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageExtract)
	g, err := extract.ReadBytes(inputData)
	result.Stats.ExtractTime = time.Since(extractStart)
	observability.Pipeline().OnStageComplete(ctx, observability.StageExtract, result.Stats.ExtractTime, err)
	if err != nil {
		return nil, trust.Summary{}, false, badInput(fmt.Errorf("extract: %w", err))
	}
	r.Logger.Info("extracted actors",
		"nodes", g.NodeCount(),
		"duration", result.Stats.ExtractTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageResolve)
	edges := network.ResolvePartnerships(g, network.ResolveOptions{Logf: r.Logger.Debugf})
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnStageComplete(ctx, observability.StageResolve, result.Stats.ResolveTime, nil)
	r.Logger.Info("resolved partnerships",
		"edges", edges,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Trust (optional)
	var summary trust.Summary
	if len(eventData) > 0 {
		trustStart := time.Now()
		observability.Pipeline().OnStageStart(ctx, observability.StageTrust)
		ev, err := trust.ReadEvent(bytes.NewReader(eventData))
		if err == nil {
			summary = trust.Apply(g, ev)
		}
		result.Stats.TrustTime = time.Since(trustStart)
		observability.Pipeline().OnStageComplete(ctx, observability.StageTrust, result.Stats.TrustTime, err)
		if err != nil {
			return nil, trust.Summary{}, false, badInput(fmt.Errorf("trust: %w", err))
		}
		r.Logger.Info("applied validation event",
			"pair_boosts", summary.PairBoosts,
			"consensus_bonus", summary.BonusApplied,
			"duration", result.Stats.TrustTime)
	} else {
		r.Logger.Debug("no validation event, trust weighting skipped")
	}

	// Cache the result
	if data, err := network.MarshalGraph(g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLNetwork); err == nil {
			observability.Cache().OnCacheSet(ctx, "network", len(data))
		}
	}

	return g, summary, false, nil
}

// renderArtifacts renders the requested formats with per-format caching
// keyed on the graph hash.
func (r *Runner) renderArtifacts(ctx context.Context, g *network.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte)
	allCached := true

	exportOpts := export.Options{TopK: opts.TopK, Timestamp: opts.timestamp()}

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached map[string][]byte
				if err := json.Unmarshal(data, &cached); err == nil {
					observability.Cache().OnCacheHit(ctx, "artifact")
					for name, body := range cached {
						artifacts[name] = body
					}
					continue
				}
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		rendered, err := export.Render(g, format, exportOpts)
		if err != nil {
			return nil, false, err
		}
		for name, body := range rendered {
			artifacts[name] = body
		}

		if data, err := json.Marshal(rendered); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return artifacts, allCached, nil
}

// writeArtifacts writes rendered artifacts into the output directory,
// creating it on demand.
func (r *Runner) writeArtifacts(artifacts map[string][]byte, opts Options) error {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	ts := opts.timestamp()
	for name, data := range artifacts {
		path := filepath.Join(opts.OutputDir, export.FileName(name, ts))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		r.Logger.Debug("wrote artifact", "path", path, "bytes", len(data))
	}
	return nil
}

// logTopCentral logs the most connected actors at debug level.
func (r *Runner) logTopCentral(g *network.Graph, k int) {
	for i, rank := range network.TopCentral(g, k) {
		r.Logger.Debug("central actor",
			"rank", i+1,
			"name", rank.Node.Name,
			"connections", rank.Degree,
			"weighted", fmt.Sprintf("%.2f", rank.Weighted))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (o *Options) readInput() ([]byte, error) {
	if len(o.InputData) > 0 {
		return o.InputData, nil
	}
	data, err := os.ReadFile(o.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func (o *Options) readEvent() ([]byte, error) {
	if len(o.EventData) > 0 {
		return o.EventData, nil
	}
	if o.Event == "" {
		return nil, nil
	}
	data, err := os.ReadFile(o.Event)
	if err != nil {
		return nil, fmt.Errorf("read event: %w", err)
	}
	return data, nil
}

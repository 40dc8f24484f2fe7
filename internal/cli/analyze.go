package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/geonet-tools/actornet/pkg/export"
	"github.com/geonet-tools/actornet/pkg/httputil"
	"github.com/geonet-tools/actornet/pkg/network"
	"github.com/geonet-tools/actornet/pkg/pipeline"
	"github.com/geonet-tools/actornet/pkg/store"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	event      string // validation session file or URL
	formatsStr string // comma-separated output formats
	outputDir  string // artifact directory (config default if empty)
	graphOut   string // also write the resolved graph JSON here
	topK       int    // ranking size for reports
	noCache    bool   // disable pipeline caching
	refresh    bool   // bypass cache and recompute
	save       bool   // save a snapshot of the result
}

// analyzeCommand creates the analyze command, the main entry point of the
// CLI: it runs the full extract → resolve → trust → export pipeline.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <collection>",
		Short: "Analyze a GeoJSON collection into a partnership network",
		Long: `Analyze a GeoJSON feature collection into a partnership network.

The collection can be a local file or an http(s) URL. Actors are features
carrying an snaNodeId property; their partnershipIds references are matched
against other actors' identifiers to build weighted ties. With --event, trust
weighting from a validation workshop is applied on top.

Examples:
  actornet analyze actors.geojson
  actornet analyze actors.geojson --event session.json -f csv,kumu
  actornet analyze https://gis.example.org/actors.geojson -o exports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.event, "event", "e", "", "validation session file or URL")
	cmd.Flags().StringVarP(&opts.formatsStr, "formats", "f", "", "output format(s): csv, graphml, kumu, report, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "artifact directory (default from config)")
	cmd.Flags().StringVar(&opts.graphOut, "graph", "", "also write the resolved graph JSON to this path")
	cmd.Flags().IntVar(&opts.topK, "top", 0, "ranking size for reports (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache and recompute")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save a snapshot of the result")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, input string, opts analyzeOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.outputDir == "" {
		opts.outputDir = cfg.OutputDir
	}
	if opts.topK == 0 {
		opts.topK = cfg.TopK
	}

	pipeOpts := pipeline.Options{
		OutputDir: opts.outputDir,
		TopK:      opts.topK,
		Formats:   parseFormats(opts.formatsStr),
		Refresh:   opts.refresh,
		Timestamp: time.Now(),
	}
	if err := c.resolveInputs(ctx, input, opts.event, &pipeOpts); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Analyzing network...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Analyzed %s", input))

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.NetworkHit)
	if pipeOpts.HasEvent() && !result.CacheInfo.NetworkHit {
		printDetail("Trust: %d pair boost(s), consensus bonus %v", result.Trust.PairBoosts, result.Trust.BonusApplied)
	}

	for _, name := range sortedArtifacts(result.Artifacts) {
		printFile(filepath.Join(opts.outputDir, export.FileName(name, pipeOpts.Timestamp)))
	}

	if opts.graphOut != "" {
		if err := network.WriteGraphFile(result.Graph, opts.graphOut); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
		printFile(opts.graphOut)
		printNextStep("Re-export later without recomputing", fmt.Sprintf("actornet export %s", opts.graphOut))
	}

	if opts.save {
		st, err := c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("snapshot store: %w", err)
		}
		defer st.Close(ctx)

		snap := store.NewSnapshot(result.Graph, input)
		if err := st.Save(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		printDetail("Snapshot: %s", snap.ID)
		printNextStep("Inspect it", fmt.Sprintf("actornet snapshot show %s", snap.ID))
	}

	return nil
}

// resolveInputs loads the collection and event into the pipeline options,
// fetching over HTTP (with response caching) when they are URLs.
func (c *CLI) resolveInputs(ctx context.Context, input, event string, opts *pipeline.Options) error {
	fetch := func(url string) ([]byte, error) {
		client := httputil.NewClient(c.newHTTPCache())
		return client.Fetch(ctx, url)
	}

	if isURL(input) {
		data, err := fetch(input)
		if err != nil {
			return fmt.Errorf("fetch collection: %w", err)
		}
		opts.InputData = data
	} else {
		opts.Input = input
	}

	if event == "" {
		return nil
	}
	if isURL(event) {
		data, err := fetch(event)
		if err != nil {
			return fmt.Errorf("fetch event: %w", err)
		}
		opts.EventData = data
	} else {
		opts.Event = event
	}
	return nil
}

// newHTTPCache returns the response cache for remote inputs, or nil when
// the cache directory is unavailable (fetches still work, uncached).
func (c *CLI) newHTTPCache() *httputil.Cache {
	dir, err := cacheDir()
	if err == nil {
		if hc, err := httputil.NewCache(filepath.Join(dir, "http"), httputil.DefaultTTL); err == nil {
			return hc
		}
	}
	printWarning("Response cache unavailable, fetching uncached")
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// sortedArtifacts returns artifact names in a stable display order.
func sortedArtifacts(artifacts map[string][]byte) []string {
	order := []string{
		export.ArtifactNodesCSV,
		export.ArtifactEdgesCSV,
		export.ArtifactGraphML,
		export.ArtifactKumu,
		export.ArtifactGuide,
		export.ArtifactReport,
		export.ArtifactDOT,
		export.ArtifactSVG,
	}
	var names []string
	for _, name := range order {
		if _, ok := artifacts[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

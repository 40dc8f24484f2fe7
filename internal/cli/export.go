package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/geonet-tools/actornet/pkg/export"
	"github.com/geonet-tools/actornet/pkg/network"
)

// exportCommand creates the export command for re-rendering artifacts
// from a previously saved graph JSON, without re-running the pipeline.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		outputDir  string
		topK       int
	)

	cmd := &cobra.Command{
		Use:   "export <graph.json>",
		Short: "Export artifacts from a saved graph",
		Long: `Export artifacts from a graph JSON produced by 'analyze --graph'.

This skips extraction and resolution entirely, so it is the fast path for
trying different output formats against the same network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(args[0], parseFormats(formatsStr), outputDir, topK)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output format(s): csv, graphml, kumu, report, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "artifact directory (default from config)")
	cmd.Flags().IntVar(&topK, "top", 0, "ranking size for reports (default from config)")

	return cmd
}

func (c *CLI) runExport(input string, formats []string, outputDir string, topK int) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if topK == 0 {
		topK = cfg.TopK
	}
	if len(formats) == 0 {
		formats = export.DefaultFormats
	}
	if err := export.ValidateFormats(formats); err != nil {
		return err
	}

	g, err := network.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	c.Logger.Info("loaded graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	prog := newProgress(c.Logger)
	ts := time.Now()
	artifacts, err := export.RenderAll(g, formats, export.Options{TopK: topK, Timestamp: ts})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(artifacts)))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, name := range sortedArtifacts(artifacts) {
		path := filepath.Join(outputDir, export.FileName(name, ts))
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Exported %s", input)
	return nil
}

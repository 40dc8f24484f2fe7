// Package export serializes a partnership graph into interchange formats
// for downstream tools: CSV for spreadsheet/graph-tool import, GraphML
// for graph analysis suites, Kumu JSON for web visualization, DOT/SVG for
// quick rendering, and a plain-text summary report for humans.
//
// Every exporter is a pure serialization over the current graph: metrics
// are recomputed at render time and the graph is never mutated.
package export

import (
	"fmt"
	"time"

	"github.com/geonet-tools/actornet/pkg/network"
)

// Output formats accepted on the command line and API.
const (
	FormatCSV     = "csv"
	FormatGraphML = "graphml"
	FormatKumu    = "kumu"
	FormatReport  = "report"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSV:     true,
	FormatGraphML: true,
	FormatKumu:    true,
	FormatReport:  true,
	FormatDOT:     true,
	FormatSVG:     true,
}

// DefaultFormats is what an analysis run exports when no formats are
// requested explicitly.
var DefaultFormats = []string{FormatCSV, FormatGraphML, FormatKumu, FormatReport}

// Artifact names. A format renders to one or more named artifacts
// (CSV produces a nodes file and an edges file, Kumu a data file and a
// visualization guide).
const (
	ArtifactNodesCSV = "nodes_csv"
	ArtifactEdgesCSV = "edges_csv"
	ArtifactGraphML  = "graphml"
	ArtifactKumu     = "kumu"
	ArtifactGuide    = "kumu_guide"
	ArtifactReport   = "report"
	ArtifactDOT      = "dot"
	ArtifactSVG      = "svg"
)

// Options configures rendering.
type Options struct {
	// TopK bounds the ranking sections of the report. Zero means the
	// default of 5.
	TopK int

	// Timestamp stamps the report header and artifact filenames. The
	// zero value means time.Now() at render time; tests pass a fixed
	// time for determinism.
	Timestamp time.Time
}

// DefaultTopK is the ranking size used in the report when unset.
const DefaultTopK = 5

func (o Options) topK() int {
	if o.TopK > 0 {
		return o.TopK
	}
	return DefaultTopK
}

func (o Options) timestamp() time.Time {
	if o.Timestamp.IsZero() {
		return time.Now()
	}
	return o.Timestamp
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: csv, graphml, kumu, report, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Render produces the artifacts for one format, keyed by artifact name.
func Render(g *network.Graph, format string, opts Options) (map[string][]byte, error) {
	switch format {
	case FormatCSV:
		nodes, err := NodesCSV(g)
		if err != nil {
			return nil, fmt.Errorf("nodes csv: %w", err)
		}
		edges, err := EdgesCSV(g)
		if err != nil {
			return nil, fmt.Errorf("edges csv: %w", err)
		}
		return map[string][]byte{ArtifactNodesCSV: nodes, ArtifactEdgesCSV: edges}, nil
	case FormatGraphML:
		return map[string][]byte{ArtifactGraphML: GraphML(g)}, nil
	case FormatKumu:
		data, err := Kumu(g)
		if err != nil {
			return nil, fmt.Errorf("kumu: %w", err)
		}
		return map[string][]byte{
			ArtifactKumu:  data,
			ArtifactGuide: KumuGuide(opts.timestamp()),
		}, nil
	case FormatReport:
		return map[string][]byte{ArtifactReport: []byte(Report(g, opts.topK(), opts.timestamp()))}, nil
	case FormatDOT:
		return map[string][]byte{ArtifactDOT: []byte(DOT(g))}, nil
	case FormatSVG:
		svg, err := RenderSVG(DOT(g))
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}
		return map[string][]byte{ArtifactSVG: svg}, nil
	default:
		return nil, ValidateFormat(format)
	}
}

// RenderAll renders every requested format and merges the artifacts.
func RenderAll(g *network.Graph, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	for _, format := range formats {
		rendered, err := Render(g, format, opts)
		if err != nil {
			return nil, err
		}
		for name, data := range rendered {
			artifacts[name] = data
		}
	}
	return artifacts, nil
}

// FileName returns the output filename for an artifact. CSV files keep
// stable names so visualization tools can re-import them in place; the
// other artifacts are timestamped so successive runs do not overwrite
// each other.
func FileName(artifact string, ts time.Time) string {
	stamp := ts.Format("20060102_150405")
	switch artifact {
	case ArtifactNodesCSV:
		return "sna_nodes.csv"
	case ArtifactEdgesCSV:
		return "sna_edges.csv"
	case ArtifactGraphML:
		return fmt.Sprintf("sna_network_%s.graphml", stamp)
	case ArtifactKumu:
		return fmt.Sprintf("kumu_network_%s.json", stamp)
	case ArtifactGuide:
		return "KUMU_VISUALIZATION_GUIDE.md"
	case ArtifactReport:
		return fmt.Sprintf("sna_report_%s.txt", stamp)
	case ArtifactDOT:
		return fmt.Sprintf("sna_network_%s.dot", stamp)
	case ArtifactSVG:
		return fmt.Sprintf("sna_network_%s.svg", stamp)
	default:
		return artifact
	}
}

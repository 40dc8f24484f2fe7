package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/geonet-tools/actornet/pkg/network"
)

// Column sets are fixed: downstream visualization tools import these
// files by header name.
var (
	nodeColumns = []string{
		"id", "name", "type", "sector", "level", "status",
		"degreeCentrality", "weightedDegree", "capacity",
		"population", "budget", "modelBlockId",
	}
	edgeColumns = []string{
		"source", "target", "kind", "weight", "bidirectional", "validationEvent",
	}
)

// NodesCSV renders the node table with per-node centrality metrics
// computed at render time.
func NodesCSV(g *network.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(nodeColumns); err != nil {
		return nil, err
	}
	for _, n := range g.Nodes() {
		row := []string{
			n.ID,
			n.Name,
			n.Type,
			n.Sector,
			n.Level,
			n.Status,
			strconv.Itoa(network.DegreeCentrality(g, n.ID)),
			formatWeight(network.WeightedDegree(g, n.ID)),
			formatNumber(n.Capacity),
			strconv.Itoa(n.Population),
			formatNumber(n.Budget),
			n.ModelBlockID,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EdgesCSV renders the edge table.
func EdgesCSV(g *network.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(edgeColumns); err != nil {
		return nil, err
	}
	for _, e := range g.Edges() {
		row := []string{
			e.Source,
			e.Target,
			e.Kind,
			formatWeight(e.Weight),
			strconv.FormatBool(e.Bidirectional),
			e.ValidationEvent,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatWeight renders edge weights and weighted degrees with two
// decimals, matching the report.
func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatNumber renders numeric attributes compactly: integral values
// without a decimal point, fractional values as-is.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

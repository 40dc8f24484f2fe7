package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/geonet-tools/actornet/pkg/network"
)

const reportRule = "================================================================================"

// Report renders the human-readable network summary: totals, sector
// distribution, the topK most central actors, and the topK strongest
// partnerships. The output is plain text for direct consumption and is
// not machine-parsed downstream.
func Report(g *network.Graph, topK int, ts time.Time) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("SOCIAL NETWORK ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", ts.Format("2006-01-02 15:04:05"))
	b.WriteString(reportRule + "\n\n")

	b.WriteString("Network Overview:\n")
	fmt.Fprintf(&b, "  - Total Actors: %d\n", g.NodeCount())
	fmt.Fprintf(&b, "  - Total Partnerships: %d\n", g.EdgeCount())
	if g.NodeCount() > 0 {
		avg := float64(g.EdgeCount()*2) / float64(g.NodeCount())
		fmt.Fprintf(&b, "  - Average Connections per Actor: %.1f\n", avg)
	}
	b.WriteString("\n")

	b.WriteString("Actor Distribution by Sector:\n")
	for _, sc := range network.SectorDistribution(g) {
		fmt.Fprintf(&b, "  - %s: %d\n", sc.Sector, sc.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top %d Central Actors (by degree):\n", topK)
	for i, r := range network.TopCentral(g, topK) {
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, r.Node.Name, r.Node.Sector)
		fmt.Fprintf(&b, "     Connections: %d, Weighted: %.2f\n", r.Degree, r.Weighted)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top %d Strongest Partnerships:\n", topK)
	for i, e := range network.TopEdges(g, topK) {
		fmt.Fprintf(&b, "  %d. %s <-> %s\n", i+1, displayName(g, e.Source), displayName(g, e.Target))
		fmt.Fprintf(&b, "     Weight: %.2f, Kind: %s\n", e.Weight, e.Kind)
		if e.ValidationEvent != "" {
			fmt.Fprintf(&b, "     Validated: %s\n", e.ValidationEvent)
		}
	}
	b.WriteString("\n")

	b.WriteString(reportRule + "\n")
	return b.String()
}

// displayName returns the node's name, or the raw id if the node is
// missing.
func displayName(g *network.Graph, id string) string {
	if n, ok := g.Node(id); ok {
		return n.Name
	}
	return id
}

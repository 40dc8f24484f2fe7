package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/geonet-tools/actornet/pkg/network"
)

// GraphML renders the graph as a GraphML document with an undirected
// edge default. All attribute values and ids are XML-escaped; reserved
// characters in actor names or ids must not corrupt the document.
func GraphML(g *network.Graph) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<graphml xmlns="http://graphml.graphdrawing.org/xmlns">` + "\n")
	buf.WriteString(`  <key id="name" for="node" attr.name="name" attr.type="string"/>` + "\n")
	buf.WriteString(`  <key id="type" for="node" attr.name="type" attr.type="string"/>` + "\n")
	buf.WriteString(`  <key id="sector" for="node" attr.name="sector" attr.type="string"/>` + "\n")
	buf.WriteString(`  <key id="centrality" for="node" attr.name="degreeCentrality" attr.type="int"/>` + "\n")
	buf.WriteString(`  <key id="weight" for="edge" attr.name="weight" attr.type="double"/>` + "\n")
	buf.WriteString(`  <graph id="G" edgedefault="undirected">` + "\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "    <node id=\"%s\">\n", escapeXML(n.ID))
		fmt.Fprintf(&buf, "      <data key=\"name\">%s</data>\n", escapeXML(n.Name))
		fmt.Fprintf(&buf, "      <data key=\"type\">%s</data>\n", escapeXML(n.Type))
		fmt.Fprintf(&buf, "      <data key=\"sector\">%s</data>\n", escapeXML(n.Sector))
		fmt.Fprintf(&buf, "      <data key=\"centrality\">%d</data>\n", network.DegreeCentrality(g, n.ID))
		buf.WriteString("    </node>\n")
	}

	for i, e := range g.Edges() {
		fmt.Fprintf(&buf, "    <edge id=\"e%d\" source=\"%s\" target=\"%s\">\n",
			i, escapeXML(e.Source), escapeXML(e.Target))
		fmt.Fprintf(&buf, "      <data key=\"weight\">%s</data>\n", formatWeight(e.Weight))
		buf.WriteString("    </edge>\n")
	}

	buf.WriteString("  </graph>\n")
	buf.WriteString("</graphml>\n")
	return buf.Bytes()
}

// escapeXML escapes the XML-reserved characters in s.
func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer cannot.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

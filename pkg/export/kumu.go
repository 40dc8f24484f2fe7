package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/geonet-tools/actornet/pkg/network"
)

// Kumu structure: {elements: [...], connections: [...]}. Attribute
// display names are part of the import contract with the visualization
// service; decorations reference them by name.

type kumuDoc struct {
	Elements    []kumuElement    `json:"elements"`
	Connections []kumuConnection `json:"connections"`
}

type kumuElement struct {
	ID          string       `json:"_id"`
	Label       string       `json:"label"`
	Type        string       `json:"type"`
	Tags        []string     `json:"tags"`
	Description string       `json:"description"`
	Attributes  elementAttrs `json:"attributes"`
}

type elementAttrs struct {
	Sector           string   `json:"Sector"`
	Level            string   `json:"Level"`
	Status           string   `json:"Status"`
	DegreeCentrality int      `json:"Degree Centrality"`
	WeightedDegree   float64  `json:"Weighted Degree"`
	Capacity         float64  `json:"Capacity"`
	Population       int      `json:"Population"`
	Budget           float64  `json:"Budget (€)"`
	ModelBlockID     string   `json:"Model Block ID"`
	Methodologies    []string `json:"Adopted Methodologies,omitempty"`
}

type kumuConnection struct {
	ID         string          `json:"_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Label      string          `json:"label"`
	Direction  string          `json:"direction"`
	Attributes connectionAttrs `json:"attributes"`
}

type connectionAttrs struct {
	Kind            string  `json:"Kind"`
	Weight          float64 `json:"Weight"`
	ValidationEvent string  `json:"Validation Event"`
}

// Kumu renders the graph as a Kumu import document. Element size and
// connection thickness decorations key off "Degree Centrality",
// "Weighted Degree", and "Weight".
func Kumu(g *network.Graph) ([]byte, error) {
	doc := kumuDoc{
		Elements:    make([]kumuElement, 0, g.NodeCount()),
		Connections: make([]kumuConnection, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		doc.Elements = append(doc.Elements, kumuElement{
			ID:          n.ID,
			Label:       n.Name,
			Type:        n.Type,
			Tags:        []string{n.Sector, n.Level},
			Description: fmt.Sprintf("%s - %s", n.Type, n.Sector),
			Attributes: elementAttrs{
				Sector:           n.Sector,
				Level:            n.Level,
				Status:           n.Status,
				DegreeCentrality: network.DegreeCentrality(g, n.ID),
				WeightedDegree:   network.WeightedDegree(g, n.ID),
				Capacity:         n.Capacity,
				Population:       n.Population,
				Budget:           n.Budget,
				ModelBlockID:     n.ModelBlockID,
				Methodologies:    n.AdoptedMethodologies,
			},
		})
	}

	for i, e := range g.Edges() {
		direction := "directed"
		if e.Bidirectional {
			direction = "mutual"
		}
		doc.Connections = append(doc.Connections, kumuConnection{
			ID:        fmt.Sprintf("connection_%d", i),
			From:      e.Source,
			To:        e.Target,
			Label:     e.Kind,
			Direction: direction,
			Attributes: connectionAttrs{
				Kind:            e.Kind,
				Weight:          e.Weight,
				ValidationEvent: e.ValidationEvent,
			},
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// KumuGuide renders a short Markdown guide for importing and decorating
// the Kumu document.
func KumuGuide(ts time.Time) []byte {
	guide := fmt.Sprintf(`# Kumu Network Visualization Guide

Generated: %s

## Import

1. Go to https://kumu.io and create a new project
2. Import → JSON, upload the kumu_network_*.json file

## Recommended decorations

Size elements by "Degree Centrality" or "Weighted Degree":

    @settings {
      element-size: scale("degree centrality", 20, 50);
    }

Color elements by sector and scale connection width by weight:

    connection {
      width: scale("weight", 1, 5);
    }

    connection[weight > 1.2] {
      color: #27ae60;
    }

## Layouts

Force-directed shows clusters; radial highlights central actors;
concentric organizes by degree centrality.

## Filters

Filter elements by Sector or Capacity, and connections by Weight > 1.0
to isolate validated partnerships.
`, ts.Format("2006-01-02 15:04:05"))
	return []byte(guide)
}

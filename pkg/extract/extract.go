// Package extract builds actor nodes from geo-tagged feature records.
//
// A feature becomes a node only if its properties carry a non-empty
// snaNodeId; anything else is skipped without error, since feature
// collections routinely mix actors with plain geometry. Numeric
// attributes are resolved through ordered fallback chains (see the
// policy table on extractNode). Node order always matches feature order.
package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/geonet-tools/actornet/pkg/network"
)

// unknown is the default for absent classification fields.
const unknown = "Unknown"

// DefaultCapacity is the capacity assigned when neither
// managementCapacity nor governanceScore is present.
const DefaultCapacity = 0.5

// FeatureCollection mirrors the GeoJSON-style input produced by the
// upstream format-conversion tooling. Geometry is ignored; only the
// identity and classification properties matter here.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single geo-tagged record.
type Feature struct {
	ID         featureID    `json:"id"`
	Properties featureProps `json:"properties"`
}

// featureID accepts both string and numeric feature ids, which GeoJSON
// allows.
type featureID string

func (f *featureID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = featureID(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("feature id must be a string or number: %w", err)
	}
	*f = featureID(n.String())
	return nil
}

// featureProps is the explicit property schema. Optional fields are
// pointers so absence can be distinguished from zero during fallback
// resolution.
type featureProps struct {
	SNANodeID string `json:"snaNodeId"`

	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Sector *string `json:"sector"`
	Level  *string `json:"level"`
	Status *string `json:"status"`

	ModelBlockID string `json:"mbseBlockId"`

	Population         *float64 `json:"population"`
	MemberCount        *float64 `json:"memberCount"`
	BudgetEuros        *float64 `json:"budget_euros"`
	ManagementCapacity *float64 `json:"managementCapacity"`
	GovernanceScore    *float64 `json:"governanceScore"`

	AdoptedMethodologies []string `json:"adoptedMethodologies"`
	PartnershipIDs       []string `json:"partnershipIds"`
}

// Read decodes a feature collection and returns the actor graph, with
// nodes in feature order. A malformed collection is a fatal decode
// error: no partial graph is returned.
func Read(r io.Reader) (*network.Graph, error) {
	var fc FeatureCollection
	dec := json.NewDecoder(r)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return FromCollection(fc)
}

// ReadBytes decodes a feature collection from raw JSON.
func ReadBytes(data []byte) (*network.Graph, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return FromCollection(fc)
}

// ReadFile decodes the feature collection at path.
func ReadFile(path string) (*network.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// FromCollection builds the actor graph from an already-decoded
// collection. Features without a snaNodeId are skipped; duplicated
// snaNodeId values are an error since node ids must be unique.
func FromCollection(fc FeatureCollection) (*network.Graph, error) {
	g := network.New()
	for _, feat := range fc.Features {
		if feat.Properties.SNANodeID == "" {
			continue
		}
		if err := g.AddNode(extractNode(feat)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// extractNode maps one feature to a node.
//
// Fallback policy, first present value wins:
//
//	population ← population | memberCount | 0
//	budget     ← budget_euros | 0
//	capacity   ← managementCapacity | governanceScore | 0.5
//
// Classification fields default to "Unknown" when absent.
func extractNode(feat Feature) network.Node {
	p := feat.Properties
	return network.Node{
		ID:              p.SNANodeID,
		Name:            textOr(unknown, p.Name),
		Type:            textOr(unknown, p.Type),
		Sector:          textOr(unknown, p.Sector),
		Level:           textOr(unknown, p.Level),
		Status:          textOr(unknown, p.Status),
		SourceFeatureID: string(feat.ID),
		ModelBlockID:    p.ModelBlockID,

		Population: int(numberOr(0, p.Population, p.MemberCount)),
		Budget:     numberOr(0, p.BudgetEuros),
		Capacity:   numberOr(DefaultCapacity, p.ManagementCapacity, p.GovernanceScore),

		AdoptedMethodologies: p.AdoptedMethodologies,
		PartnershipRefs:      p.PartnershipIDs,
	}
}

// textOr returns the first non-nil candidate, else the default.
func textOr(def string, candidates ...*string) string {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}

// numberOr returns the first non-nil candidate, else the default.
func numberOr(def float64, candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}

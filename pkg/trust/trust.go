// Package trust adjusts partnership edge weights from community
// validation events. It is the only component allowed to mutate edges.
package trust

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/geonet-tools/actornet/pkg/network"
)

const (
	// PairBoost is added to an edge's weight for every participant pair
	// whose names match the edge's endpoints.
	PairBoost = 0.3

	// ConsensusBonus is added once to every edge when any modified entry
	// carries the community-approval marker.
	ConsensusBonus = 0.1

	// approvalMarker is the literal searched for in serialized change
	// descriptions.
	approvalMarker = "communityApproval"

	// DefaultSessionLabel is used when the event carries no session
	// identifier.
	DefaultSessionLabel = "Community Meeting"
)

// Event is an external record of a community review session. Participants
// are display names in session order; Modified describes feature changes
// made during the session.
type Event struct {
	Session      string         `json:"session"`
	Participants []string       `json:"participants"`
	Modified     []Modification `json:"modified"`
}

// Modification is one changed feature from the session, with an opaque
// change description.
type Modification struct {
	Changes map[string]any `json:"changes"`
}

// Summary reports what an Apply call did, for logging.
type Summary struct {
	// PairBoosts counts edges that received the participant-pair boost,
	// counting an edge once per matching pair.
	PairBoosts int

	// BonusApplied is true when the one-time consensus bonus was applied
	// to all edges.
	BonusApplied bool
}

// ReadEvent decodes a validation event.
func ReadEvent(r io.Reader) (*Event, error) {
	var ev Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return nil, fmt.Errorf("decode validation event: %w", err)
	}
	return &ev, nil
}

// ReadEventFile decodes the validation event at path.
func ReadEventFile(path string) (*Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ev, err := ReadEvent(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ev, nil
}

// Apply adjusts edge weights in place from the event. A nil event is a
// no-op, not an error: trust weighting is optional.
//
// For every participant pair (p1, p2) with p1 preceding p2, every edge
// whose source-side name loosely matches p1 and target-side name loosely
// matches p2 gains PairBoost, and its ValidationEvent label is set to the
// session identifier if not already set (an earlier validation label is
// never overwritten).
//
// Independently, if any modified entry's serialized changes contain the
// community-approval marker, every edge gains ConsensusBonus exactly
// once; the first matching entry stops the scan.
func Apply(g *network.Graph, ev *Event) Summary {
	var sum Summary
	if ev == nil {
		return sum
	}

	label := ev.Session
	if label == "" {
		label = DefaultSessionLabel
	}

	for i, p1 := range ev.Participants {
		for _, p2 := range ev.Participants[i+1:] {
			for _, e := range g.Edges() {
				sourceName, targetName := endpointNames(g, e)
				if network.NamesMatch(p1, sourceName) && network.NamesMatch(p2, targetName) {
					e.Weight += PairBoost
					if e.ValidationEvent == "" {
						e.ValidationEvent = label
					}
					sum.PairBoosts++
				}
			}
		}
	}

	for _, mod := range ev.Modified {
		if !containsApproval(mod) {
			continue
		}
		for _, e := range g.Edges() {
			e.Weight += ConsensusBonus
		}
		sum.BonusApplied = true
		break
	}

	return sum
}

// endpointNames returns the display names of an edge's endpoints,
// falling back to the raw ids if a node is somehow missing.
func endpointNames(g *network.Graph, e *network.Edge) (string, string) {
	sourceName, targetName := e.Source, e.Target
	if n, ok := g.Node(e.Source); ok {
		sourceName = n.Name
	}
	if n, ok := g.Node(e.Target); ok {
		targetName = n.Name
	}
	return sourceName, targetName
}

// containsApproval reports whether the serialized change description
// carries the approval marker. Serialization uses JSON so key names are
// searched as well as values.
func containsApproval(mod Modification) bool {
	data, err := json.Marshal(mod.Changes)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), approvalMarker)
}

// Package store persists analysis snapshots: the resolved partnership
// graph plus run statistics, keyed by a generated id.
//
// Two backends are provided. MongoStore is for the API server, where
// snapshots are shared and queried across instances. FileStore keeps
// snapshots as JSON files so the CLI works standalone without any
// external service.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/geonet-tools/actornet/pkg/network"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one persisted analysis result.
type Snapshot struct {
	ID        string      `json:"id" bson:"id"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	Source    string      `json:"source,omitempty" bson:"source,omitempty"`
	NodeCount int         `json:"node_count" bson:"node_count"`
	EdgeCount int         `json:"edge_count" bson:"edge_count"`
	Graph     network.Doc `json:"graph" bson:"graph"`
}

// NewSnapshot builds a snapshot from a graph, assigning a fresh id and
// timestamp. Source names where the input came from (a file path or
// "api").
func NewSnapshot(g *network.Graph, source string) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Graph:     g.ToDoc(),
	}
}

// Store is the interface for snapshot persistence backends.
type Store interface {
	// Save persists a snapshot.
	Save(ctx context.Context, s *Snapshot) error

	// Get retrieves a snapshot by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns all snapshots, newest first, without their graphs
	// loaded when the backend can avoid it.
	List(ctx context.Context) ([]*Snapshot, error)

	// Delete removes a snapshot. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

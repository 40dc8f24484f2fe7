package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geonet-tools/actornet/pkg/network"
)

func testGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New()
	if err := g.AddNode(network.Node{ID: "a", Name: "Alpha Collective"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(network.Node{ID: "b", Name: "Beta Group"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(network.Edge{Source: "a", Target: "b", Kind: network.KindPartnership, Weight: 1.0, Bidirectional: true}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewSnapshot(t *testing.T) {
	g := testGraph(t)
	snap := NewSnapshot(g, "input.geojson")

	if snap.ID == "" {
		t.Error("snapshot should get a generated id")
	}
	if snap.Source != "input.geojson" {
		t.Errorf("unexpected source: %s", snap.Source)
	}
	if snap.NodeCount != 2 || snap.EdgeCount != 1 {
		t.Errorf("unexpected counts: %d nodes, %d edges", snap.NodeCount, snap.EdgeCount)
	}
	if len(snap.Graph.Nodes) != 2 || len(snap.Graph.Edges) != 1 {
		t.Error("snapshot should embed the full graph document")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	snap := NewSnapshot(testGraph(t), "input.geojson")
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != snap.ID || got.NodeCount != 2 || got.EdgeCount != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Graph.Nodes) != 2 {
		t.Errorf("graph should survive round trip, got %d nodes", len(got.Graph.Nodes))
	}

	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, snap.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete should return ErrNotFound, got %v", err)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	old := NewSnapshot(testGraph(t), "old")
	old.CreatedAt = time.Now().Add(-time.Hour)
	recent := NewSnapshot(testGraph(t), "recent")

	if err := s.Save(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, recent); err != nil {
		t.Fatal(err)
	}

	snaps, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Source != "recent" || snaps[1].Source != "old" {
		t.Errorf("snapshots should be newest first: %s, %s", snaps[0].Source, snaps[1].Source)
	}
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/geonet-tools/actornet/pkg/cache"
	"github.com/geonet-tools/actornet/pkg/export"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": 1,
      "geometry": {"type": "Point", "coordinates": [13.4, 52.5]},
      "properties": {
        "snaNodeId": "alice_coop",
        "name": "Alice Cooperative",
        "sector": "Agriculture",
        "partnershipIds": ["bob"]
      }
    },
    {
      "type": "Feature",
      "id": 2,
      "geometry": {"type": "Point", "coordinates": [13.5, 52.6]},
      "properties": {
        "snaNodeId": "bob_assoc",
        "name": "Bob Association",
        "sector": "Water"
      }
    },
    {
      "type": "Feature",
      "id": 3,
      "geometry": {"type": "Point", "coordinates": [13.6, 52.7]},
      "properties": {
        "name": "No Identity Here"
      }
    }
  ]
}`

const testEvent = `{
  "session": "Validation Workshop",
  "participants": ["Alice Cooperative", "Bob Association"],
  "modified": [
    {"changes": {"communityApproval": true}}
  ]
}`

func TestOptionsValidation(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("empty options should fail validation")
	}

	opts = Options{Input: "a.geojson", InputData: []byte("{}")}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("input and input_data together should fail validation")
	}

	opts = Options{InputData: []byte("{}"), Formats: []string{"bogus"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail validation")
	}

	opts = Options{InputData: []byte("{}")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
	if len(opts.Formats) != len(export.DefaultFormats) {
		t.Errorf("formats should default, got %v", opts.Formats)
	}
	if opts.TopK != export.DefaultTopK {
		t.Errorf("top_k should default to %d, got %d", export.DefaultTopK, opts.TopK)
	}
	if opts.Timestamp.IsZero() {
		t.Error("timestamp should be pinned during validation")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		InputData: []byte(testCollection),
		EventData: []byte(testEvent),
		Formats:   []string{export.FormatCSV, export.FormatReport},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The feature without snaNodeId is skipped.
	if result.Stats.NodeCount != 2 {
		t.Errorf("expected 2 nodes, got %d", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 1 {
		t.Errorf("expected 1 edge, got %d", result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("graph hash should be set")
	}

	// Pair boost plus consensus bonus on the single edge.
	edge := result.Graph.Edges()[0]
	if got := edge.Weight; got < 1.39 || got > 1.41 {
		t.Errorf("expected trust-weighted edge near 1.4, got %.2f", got)
	}
	if result.Trust.PairBoosts != 1 {
		t.Errorf("expected 1 pair boost, got %d", result.Trust.PairBoosts)
	}
	if !result.Trust.BonusApplied {
		t.Error("consensus bonus should apply")
	}

	for _, artifact := range []string{export.ArtifactNodesCSV, export.ArtifactEdgesCSV, export.ArtifactReport} {
		if len(result.Artifacts[artifact]) == 0 {
			t.Errorf("missing artifact %s", artifact)
		}
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		InputData: []byte(testCollection),
		Formats:   []string{export.FormatCSV},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.NetworkHit || first.CacheInfo.ExportHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.NetworkHit {
		t.Error("second run should hit the network cache")
	}
	if !second.CacheInfo.ExportHit {
		t.Error("second run should hit the artifact cache")
	}
	if second.GraphHash != first.GraphHash {
		t.Error("graph hash should be stable across runs")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.NetworkHit || third.CacheInfo.ExportHit {
		t.Error("refresh run should bypass the cache")
	}
}

func TestExecuteEventChangesCacheKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	plain, err := runner.Execute(context.Background(), Options{
		InputData: []byte(testCollection),
		Formats:   []string{export.FormatReport},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Same collection with an event must not reuse the plain network.
	weighted, err := runner.Execute(context.Background(), Options{
		InputData: []byte(testCollection),
		EventData: []byte(testEvent),
		Formats:   []string{export.FormatReport},
	})
	if err != nil {
		t.Fatal(err)
	}
	if weighted.CacheInfo.NetworkHit {
		t.Error("event run should not hit the event-less network cache")
	}
	if plain.GraphHash == weighted.GraphHash {
		t.Error("trust weighting should change the graph hash")
	}
}

func TestExecuteWritesOutputDir(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	_, err := runner.Execute(context.Background(), Options{
		InputData: []byte(testCollection),
		Formats:   []string{export.FormatCSV, export.FormatGraphML},
		OutputDir: dir,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, name := range []string{
		"sna_nodes.csv",
		"sna_edges.csv",
		"sna_network_20260314_092653.graphml",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}
}

func TestBuildNetwork(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	g, err := runner.BuildNetwork(context.Background(), Options{
		InputData: []byte(testCollection),
	})
	if err != nil {
		t.Fatalf("BuildNetwork: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("unexpected graph size: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestExecuteMalformedInput(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		InputData: []byte(`{"type": "FeatureCollection", "features": [{"id": {}}]}`),
	})
	if err == nil {
		t.Fatal("malformed collection should fail the run")
	}
	if !errors.Is(err, ErrBadInput) {
		t.Errorf("decode failure should be marked as an input fault: %v", err)
	}

	_, err = runner.Execute(context.Background(), Options{
		InputData: []byte(testCollection),
		Formats:   []string{"bogus"},
	})
	if !errors.Is(err, ErrBadInput) {
		t.Errorf("bad options should be marked as an input fault: %v", err)
	}
}

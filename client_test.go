package aissearch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hibik17/ais-search/internal/store/doc2vec"
)

// buildFixtureModels writes dm and dbow artifacts plus a metadata directory
// and returns both paths. The dbow fixture moves ID:1 next to Y:2001 so the
// two variants rank differently.
func buildFixtureModels(t *testing.T) (modelsDir, metaDir string) {
	t.Helper()
	modelsDir = t.TempDir()
	metaDir = t.TempDir()

	writeVariant := func(variant string, flip bool) {
		b := doc2vec.NewBuilder(4)
		if err := b.PutWord("robot", []float32{1, 0, 0, 0}); err != nil {
			t.Fatal(err)
		}
		if err := b.PutWord("biology", []float32{0, 0, 1, 0}); err != nil {
			t.Fatal(err)
		}

		docs := []struct {
			key string
			vec []float32
		}{
			{"ID:1", []float32{1, 0, 0, 0}},
			{"ID:2", []float32{0.9, 0.1, 0, 0}},
			{"Y:2001", []float32{0, 1, 0, 0}},
			{"P:alice", []float32{0, 0, 0, 1}},
		}
		for i, d := range docs {
			vec := d.vec
			if flip {
				switch d.key {
				case "ID:1":
					vec = []float32{0, 1, 0, 0}
				case "Y:2001":
					vec = []float32{0.1, 0.9, 0, 0}
				}
			}
			if err := b.PutDoc(d.key, i+1, vec); err != nil {
				t.Fatal(err)
			}
		}

		path := doc2vec.VariantPath(modelsDir, "ipsj", variant)
		if err := doc2vec.Write(b.Build(), path); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	writeVariant("dm", false)
	writeVariant("dbow", true)

	record := `{
		"title": "Robot Arms",
		"keywords": ["P:Yamada", "robotics"],
		"index": "Vol.1",
		"dateofissued": "2001-01-01",
		"description": "An abstract."
	}`
	if err := os.WriteFile(filepath.Join(metaDir, "id_1.json"), []byte(record), 0o600); err != nil {
		t.Fatal(err)
	}
	return modelsDir, metaDir
}

func newFixtureClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	modelsDir, metaDir := buildFixtureModels(t)
	base := []Option{
		WithModelsDir(modelsDir),
		WithMetadataDir(metaDir),
		WithSimpleTokenizer(),
	}
	c, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_RequiresModelsDir(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected an error without a models directory")
	}
}

func TestClient_Search(t *testing.T) {
	c := newFixtureClient(t)

	env, err := c.Search(context.Background(), SearchRequest{
		Positive:   []string{"robot"},
		Categories: []string{"article"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !env.OK {
		t.Fatalf("rc=false, messages: %v", env.Message)
	}
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 articles, got %v", env.Data)
	}
	if env.Data[0].Label != "ID:1" || env.Data[1].Label != "ID:2" {
		t.Errorf("order = %s, %s", env.Data[0].Label, env.Data[1].Label)
	}
	if env.Data[0].Title != `Yamada, "Robot Arms", Vol.1, 2001-01-01` {
		t.Errorf("enriched title = %q", env.Data[0].Title)
	}
	if env.Data[1].Title != "ID:2" {
		t.Errorf("unenriched title = %q (no record on disk)", env.Data[1].Title)
	}
	if !strings.HasPrefix(env.Message[0], "Most similar 2 items") {
		t.Errorf("summary = %q", env.Message[0])
	}
}

func TestClient_SearchWithNegative(t *testing.T) {
	c := newFixtureClient(t)

	env, err := c.Search(context.Background(), SearchRequest{
		Positive: []string{"robot"},
		Negative: []string{"biology"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !env.OK {
		t.Fatalf("rc=false, messages: %v", env.Message)
	}
	for _, it := range env.Data {
		if it.Label == "ID:1" {
			return
		}
	}
	t.Errorf("ID:1 missing from %v", env.Data)
}

func TestClient_SearchUnresolvedTerm(t *testing.T) {
	c := newFixtureClient(t)

	env, err := c.Search(context.Background(), SearchRequest{Positive: []string{"zzz"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if env.OK {
		t.Error("rc must be false when nothing resolves")
	}
	if env.Data != nil {
		t.Errorf("data must be null, got %v", env.Data)
	}
	if env.Message[0] != "No word available" {
		t.Errorf("messages = %v", env.Message)
	}
}

func TestClient_SearchByDocument(t *testing.T) {
	c := newFixtureClient(t)

	env, err := c.SearchByDocument(context.Background(), "ID:1")
	if err != nil {
		t.Fatalf("SearchByDocument: %v", err)
	}
	if !env.OK {
		t.Fatalf("rc=false, messages: %v", env.Message)
	}
	if len(env.Data) != 1 || env.Data[0].Label != "ID:2" {
		t.Errorf("expected only the sibling article, got %v", env.Data)
	}
	if env.Message[0] != "Most similar 1 items of ID:1" {
		t.Errorf("summary = %q", env.Message[0])
	}
}

func TestClient_SearchByText(t *testing.T) {
	c := newFixtureClient(t)

	env, err := c.SearchByText(context.Background(), "robot robot arm")
	if err != nil {
		t.Fatalf("SearchByText: %v", err)
	}
	if !env.OK {
		t.Fatalf("rc=false, messages: %v", env.Message)
	}
	if len(env.Data) != 4 {
		t.Errorf("expected all 4 documents ranked, got %d", len(env.Data))
	}
	if len(env.Input) != 1 || env.Input[0].Label != "[outline]" {
		t.Errorf("input = %v", env.Input)
	}
}

func TestClient_ModelSwitch(t *testing.T) {
	c := newFixtureClient(t)
	ctx := context.Background()

	if got := c.CurrentModel(); got != "dm" {
		t.Fatalf("initial variant = %q", got)
	}

	env, err := c.Search(ctx, SearchRequest{Positive: []string{"ID:1"}, ModelVariant: "dbow"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !env.OK {
		t.Fatalf("rc=false, messages: %v", env.Message)
	}
	if got := c.CurrentModel(); got != "dbow" {
		t.Errorf("variant after switch = %q", got)
	}
	if len(env.Data) < 2 || env.Data[0].Label != "ID:1" || env.Data[1].Label != "Y:2001" {
		t.Errorf("dbow ranking expected ID:1 then Y:2001, got %v", env.Data)
	}

	if err := c.SelectModel("cbow"); err == nil {
		t.Error("unknown variant must fail")
	}
	if got := c.CurrentModel(); got != "dbow" {
		t.Errorf("failed switch must keep the variant, got %q", got)
	}
}

func TestClient_Ping_FSDriver(t *testing.T) {
	c := newFixtureClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

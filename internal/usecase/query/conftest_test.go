package query

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/metadata"
)

// --- Fakes ---

// fakeStore is a scripted embedding store. Lookups are backed by maps;
// nearest-neighbor results are fixed lists.
type fakeStore struct {
	docs    map[string][]float32
	words   map[string][]float32
	counts  map[string]int
	offsets map[string]int

	hits        []domain.Hit
	clippedHits map[string][]domain.Hit // keyed by "start:end"
	searchErr   error

	fullCalls    int
	clippedCalls int
	lastTopN     int
	inferCalls   [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:        map[string][]float32{},
		words:       map[string][]float32{},
		counts:      map[string]int{},
		offsets:     map[string]int{},
		clippedHits: map[string][]domain.Hit{},
	}
}

func (f *fakeStore) HasDoc(key string) bool { _, ok := f.docs[key]; return ok }

func (f *fakeStore) DocVector(key string) ([]float32, error) {
	v, ok := f.docs[key]
	if !ok {
		return nil, fmt.Errorf("doc vector %q: %w", key, domain.ErrKeyNotFound)
	}
	return v, nil
}

func (f *fakeStore) HasWord(word string) bool { _, ok := f.words[word]; return ok }

func (f *fakeStore) WordVector(word string) ([]float32, error) {
	v, ok := f.words[word]
	if !ok {
		return nil, fmt.Errorf("word vector %q: %w", word, domain.ErrKeyNotFound)
	}
	return v, nil
}

func (f *fakeStore) MostSimilar(_, _ [][]float32, topN int) ([]domain.Hit, error) {
	f.fullCalls++
	f.lastTopN = topN
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.hits) > topN {
		return f.hits[:topN], nil
	}
	return f.hits, nil
}

func (f *fakeStore) MostSimilarClipped(_, _ [][]float32, topN, start, end int) ([]domain.Hit, error) {
	f.clippedCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.clippedHits[fmt.Sprintf("%d:%d", start, end)], nil
}

func (f *fakeStore) InferVector(tokens []string, _ domain.InferConfig) []float32 {
	f.inferCalls = append(f.inferCalls, tokens)
	return []float32{0.5, 0.5}
}

func (f *fakeStore) OffsetOf(key string) (int, bool) {
	off, ok := f.offsets[key]
	return off, ok
}

func (f *fakeStore) CountOf(key string) int { return f.counts[key] }

// fakeModels mimics the selector contract: empty variant keeps the current
// store, a named one switches.
type fakeModels struct {
	stores  map[string]domain.EmbeddingStore
	current string
	selects []string
	err     error
}

func (f *fakeModels) Select(variant string) (domain.EmbeddingStore, error) {
	f.selects = append(f.selects, variant)
	if f.err != nil {
		return nil, f.err
	}
	if variant != "" {
		st, ok := f.stores[variant]
		if !ok {
			return nil, domain.ErrModelNotFound
		}
		f.current = variant
		return st, nil
	}
	return f.stores[f.current], nil
}

func (f *fakeModels) Current() string { return f.current }

// fakeTok splits on spaces.
type fakeTok struct{ calls []string }

func (f *fakeTok) Tokenize(text string) []string {
	f.calls = append(f.calls, text)
	return strings.Fields(text)
}

// fakeMeta serves records from a map.
type fakeMeta struct {
	records map[string]metadata.Record
	calls   []string
}

func (f *fakeMeta) Record(_ context.Context, id string) (metadata.Record, error) {
	f.calls = append(f.calls, id)
	rec, ok := f.records[id]
	if !ok {
		return metadata.Record{}, fmt.Errorf("article %s: %w", id, domain.ErrMetadataNotFound)
	}
	return rec, nil
}

// --- Helpers ---

func newTestService(t *testing.T, store *fakeStore) (*Service, *fakeModels, *fakeTok, *fakeMeta) {
	t.Helper()
	models := &fakeModels{stores: map[string]domain.EmbeddingStore{"dm": store}, current: "dm"}
	tok := &fakeTok{}
	meta := &fakeMeta{records: map[string]metadata.Record{}}
	svc := New(models, tok, meta, DefaultConfig(), zap.NewNop())
	return svc, models, tok, meta
}

func assertSortedBySimilarity(t *testing.T, items []domain.ResultItem) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		if items[i].Similarity > items[i-1].Similarity {
			t.Errorf("results not sorted by similarity at %d: %v > %v",
				i, items[i].Similarity, items[i-1].Similarity)
		}
	}
}

func assertUniqueLabels(t *testing.T, items []domain.ResultItem) {
	t.Helper()
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it.Label] {
			t.Errorf("duplicate label %q in results", it.Label)
		}
		seen[it.Label] = true
	}
}

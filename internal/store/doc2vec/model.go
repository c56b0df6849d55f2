// Package doc2vec provides read-only access to a trained paragraph-vector
// model: word and document vectors by key, cosine nearest-neighbor queries
// with optional clip ranges, and inference for novel text. Models are built
// offline; once loaded they are immutable and safe for concurrent readers.
package doc2vec

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	"github.com/hibik17/ais-search/internal/domain"
)

// Model is an immutable in-memory embedding store. Document order is
// significant: a document's position defines its offset for clip ranges.
type Model struct {
	dim      int
	words    map[string][]float32
	docKeys  []string
	docVecs  [][]float32
	docUnit  [][]float64
	docIndex map[string]int
	counts   []int
}

var _ domain.EmbeddingStore = (*Model)(nil)

// Dim returns the vector dimensionality.
func (m *Model) Dim() int { return m.dim }

// Len returns the number of document vectors.
func (m *Model) Len() int { return len(m.docKeys) }

// WordCount returns the number of word vectors.
func (m *Model) WordCount() int { return len(m.words) }

// HasDoc reports whether a document vector exists for the key.
func (m *Model) HasDoc(key string) bool {
	_, ok := m.docIndex[key]
	return ok
}

// DocVector returns a copy of the document vector for the key.
func (m *Model) DocVector(key string) ([]float32, error) {
	i, ok := m.docIndex[key]
	if !ok {
		return nil, fmt.Errorf("doc vector %q: %w", key, domain.ErrKeyNotFound)
	}
	out := make([]float32, m.dim)
	copy(out, m.docVecs[i])
	return out, nil
}

// HasWord reports whether a word vector exists for the word.
func (m *Model) HasWord(word string) bool {
	_, ok := m.words[word]
	return ok
}

// WordVector returns a copy of the word vector.
func (m *Model) WordVector(word string) ([]float32, error) {
	v, ok := m.words[word]
	if !ok {
		return nil, fmt.Errorf("word vector %q: %w", word, domain.ErrKeyNotFound)
	}
	out := make([]float32, m.dim)
	copy(out, v)
	return out, nil
}

// OffsetOf returns the position of a document key in the document space.
func (m *Model) OffsetOf(key string) (int, bool) {
	i, ok := m.docIndex[key]
	return i, ok
}

// CountOf returns the corpus occurrence count of a document key.
func (m *Model) CountOf(key string) int {
	i, ok := m.docIndex[key]
	if !ok {
		return 0
	}
	return m.counts[i]
}

// MostSimilar ranks the topN document keys most cosine-similar to the signed
// mean of the positive and negative vectors, over the whole document space.
func (m *Model) MostSimilar(positive, negative [][]float32, topN int) ([]domain.Hit, error) {
	return m.MostSimilarClipped(positive, negative, topN, 0, len(m.docKeys))
}

// MostSimilarClipped is MostSimilar restricted to documents whose offset lies
// in [start, end). The end bound is exclusive, matching the clip semantics
// the models were built with.
func (m *Model) MostSimilarClipped(
	positive, negative [][]float32, topN, start, end int,
) ([]domain.Hit, error) {
	query, err := m.composeQuery(positive, negative)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		return nil, nil
	}
	if start < 0 {
		start = 0
	}
	if end > len(m.docKeys) {
		end = len(m.docKeys)
	}
	if start >= end {
		return nil, nil
	}

	hits := make([]domain.Hit, 0, end-start)
	for i := start; i < end; i++ {
		hits = append(hits, domain.Hit{Key: m.docKeys[i], Similarity: dot(query, m.docUnit[i])})
	}
	// Stable: equal similarities keep document order.
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Similarity > hits[b].Similarity })
	if len(hits) > topN {
		hits = hits[:topN]
	}
	return hits, nil
}

// composeQuery builds the unit-normalized signed mean of the input vectors:
// each input is normalized, negatives contribute with inverted sign.
func (m *Model) composeQuery(positive, negative [][]float32) ([]float64, error) {
	if len(positive)+len(negative) == 0 {
		return nil, fmt.Errorf("most similar: no query vectors")
	}
	sum := make([]float64, m.dim)
	add := func(v []float32, sign float64) error {
		if len(v) != m.dim {
			return fmt.Errorf("query vector has dim %d, store has %d: %w",
				len(v), m.dim, domain.ErrDimMismatch)
		}
		u := unit(v)
		for i := range sum {
			sum[i] += sign * u[i]
		}
		return nil
	}
	for _, v := range positive {
		if err := add(v, 1); err != nil {
			return nil, err
		}
	}
	for _, v := range negative {
		if err := add(v, -1); err != nil {
			return nil, err
		}
	}
	n := float64(len(positive) + len(negative))
	for i := range sum {
		sum[i] /= n
	}
	normalize(sum)
	return sum, nil
}

// InferVector derives a vector for an ordered token sequence by annealed
// attraction toward the known word vectors. The starting point is seeded by
// the token sequence, so repeats on the same store are stable. Tokens without
// a word vector are ignored.
func (m *Model) InferVector(tokens []string, cfg domain.InferConfig) []float32 {
	v := make([]float64, m.dim)
	rng := rand.New(rand.NewSource(seedFor(tokens)))
	for i := range v {
		v[i] = (rng.Float64() - 0.5) / float64(m.dim)
	}

	known := make([][]float64, 0, len(tokens))
	for _, tok := range tokens {
		if w, ok := m.words[tok]; ok {
			known = append(known, unit(w))
		}
	}
	if len(known) == 0 {
		return toFloat32(v)
	}

	epochs := cfg.Epochs
	if epochs <= 0 {
		epochs = 1
	}
	for e := 0; e < epochs; e++ {
		lr := cfg.Alpha
		if epochs > 1 {
			lr = cfg.Alpha - (cfg.Alpha-cfg.MinAlpha)*float64(e)/float64(epochs-1)
		}
		for _, w := range known {
			for i := range v {
				v[i] += lr * (w[i] - v[i])
			}
		}
	}
	return toFloat32(v)
}

func seedFor(tokens []string) int64 {
	h := fnv.New64a()
	for _, tok := range tokens {
		_, _ = h.Write([]byte(tok))
		_, _ = h.Write([]byte{0})
	}
	return int64(h.Sum64())
}

func unit(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	normalize(out)
	return out
}

func normalize(v []float64) {
	var n float64
	for _, x := range v {
		n += x * x
	}
	n = math.Sqrt(n)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

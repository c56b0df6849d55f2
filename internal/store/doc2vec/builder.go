package doc2vec

import (
	"fmt"

	"github.com/hibik17/ais-search/internal/domain"
)

// Builder assembles a Model in memory. The offline trainer and test fixtures
// use it; document insertion order defines the offsets clip ranges refer to.
type Builder struct {
	dim   int
	model *Model
}

// NewBuilder creates a builder for vectors of the given dimensionality.
func NewBuilder(dim int) *Builder {
	return &Builder{
		dim: dim,
		model: &Model{
			dim:      dim,
			words:    make(map[string][]float32),
			docIndex: make(map[string]int),
		},
	}
}

// PutWord adds a word vector. Re-adding a word replaces its vector.
func (b *Builder) PutWord(word string, vec []float32) error {
	if len(vec) != b.dim {
		return fmt.Errorf("word %q has dim %d, builder has %d: %w",
			word, len(vec), b.dim, domain.ErrDimMismatch)
	}
	v := make([]float32, b.dim)
	copy(v, vec)
	b.model.words[word] = v
	return nil
}

// PutDoc appends a document vector with its corpus occurrence count.
// The document's offset is its insertion position.
func (b *Builder) PutDoc(key string, count int, vec []float32) error {
	if len(vec) != b.dim {
		return fmt.Errorf("doc %q has dim %d, builder has %d: %w",
			key, len(vec), b.dim, domain.ErrDimMismatch)
	}
	if _, ok := b.model.docIndex[key]; ok {
		return fmt.Errorf("doc %q added twice", key)
	}
	v := make([]float32, b.dim)
	copy(v, vec)
	b.model.docIndex[key] = len(b.model.docKeys)
	b.model.docKeys = append(b.model.docKeys, key)
	b.model.docVecs = append(b.model.docVecs, v)
	b.model.counts = append(b.model.counts, count)
	return nil
}

// Build finalizes the model. The builder must not be reused afterwards.
func (b *Builder) Build() *Model {
	m := b.model
	m.docUnit = make([][]float64, len(m.docVecs))
	for i, v := range m.docVecs {
		m.docUnit[i] = unit(v)
	}
	b.model = nil
	return m
}

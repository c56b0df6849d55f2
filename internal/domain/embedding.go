package domain

// Hit is one nearest-neighbor candidate returned by an embedding store.
type Hit struct {
	Key        string
	Similarity float64
}

// InferConfig controls vector inference for novel text. Inference is
// deterministic for the same store, token sequence, and config.
type InferConfig struct {
	Alpha    float64
	MinAlpha float64
	Epochs   int
}

// DefaultInferConfig matches the parameters the models were trained with.
func DefaultInferConfig() InferConfig {
	return InferConfig{Alpha: 0.1, MinAlpha: 0.0001, Epochs: 5}
}

// EmbeddingStore is read-only access to a trained embedding model: word and
// document vectors by key, nearest-neighbor queries, and inference for novel
// text. Implementations must be safe for concurrent readers.
type EmbeddingStore interface {
	// HasDoc reports whether a document vector exists for the key.
	HasDoc(key string) bool
	// DocVector returns the document vector for the key, or ErrKeyNotFound.
	DocVector(key string) ([]float32, error)
	// HasWord reports whether a word vector exists for the word.
	HasWord(word string) bool
	// WordVector returns the word vector, or ErrKeyNotFound.
	WordVector(word string) ([]float32, error)

	// MostSimilar ranks the topN document keys most cosine-similar to the
	// signed mean of the positive and negative vectors, over the whole
	// document space.
	MostSimilar(positive, negative [][]float32, topN int) ([]Hit, error)
	// MostSimilarClipped is MostSimilar restricted to documents whose offset
	// lies in [start, end). The end bound is exclusive.
	MostSimilarClipped(positive, negative [][]float32, topN, start, end int) ([]Hit, error)

	// InferVector derives a vector for an ordered token sequence.
	InferVector(tokens []string, cfg InferConfig) []float32

	// OffsetOf returns the position of a document key in the document space,
	// used to compute clip ranges.
	OffsetOf(key string) (int, bool)
	// CountOf returns the corpus occurrence count of a document key, zero
	// when unknown.
	CountOf(key string) int
}

package query

import (
	"fmt"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/metrics"
)

// vectorize resolves query terms (plus an optional outline) into vectors,
// recording one input item per resolution and one diagnostic message per
// unresolved sub-lexeme. A per-term miss is never an error; the term simply
// contributes no vector.
func (s *Service) vectorize(
	env *domain.Envelope, store domain.EmbeddingStore, terms []string, outline string,
) [][]float32 {
	vectors := make([][]float32, 0, len(terms)+1)

	for _, term := range terms {
		// Tier 1: the term is a document key as-is.
		if vec, err := store.DocVector(term); err == nil {
			env.AddInput(term, vec)
			vectors = append(vectors, vec)
			continue
		}

		// Tier 2: try each category prefix in declaration order; first hit wins.
		if vec, ok := resolvePrefixed(store, term); ok {
			env.AddInput(term, vec)
			vectors = append(vectors, vec)
			continue
		}

		// Tier 3: split into sub-lexemes and resolve each against the word
		// vectors. Unresolved lexemes are reported and skipped.
		for _, lexeme := range s.tok.Tokenize(term) {
			vec, err := store.WordVector(lexeme)
			if err != nil {
				env.AddMessage(fmt.Sprintf("No vector for %q in the document or word index", lexeme))
				metrics.UnresolvedTermsTotal.Inc()
				continue
			}
			env.AddInput(lexeme, vec)
			vectors = append(vectors, vec)
		}
	}

	if outline != "" {
		vec := store.InferVector(s.tok.Tokenize(outline), s.cfg.Infer)
		env.AddInput(outlineLabel, vec)
		vectors = append(vectors, vec)
	}

	return vectors
}

const outlineLabel = "[outline]"

func resolvePrefixed(store domain.EmbeddingStore, term string) ([]float32, bool) {
	for _, candidate := range domain.PrefixedCandidates(term) {
		if vec, err := store.DocVector(candidate); err == nil {
			return vec, true
		}
	}
	return nil, false
}

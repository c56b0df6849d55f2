package query

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/domain"
)

// rank runs the tiered nearest-neighbor search: a primary pass over the full
// document space, an extended pass over bounded category sub-ranges when the
// primary yield is thin, then dedup, stable ordering, and enrichment.
func (s *Service) rank(
	ctx context.Context, store domain.EmbeddingStore,
	positive, negative [][]float32, cats []domain.Category,
) ([]domain.ResultItem, error) {
	hits, err := store.MostSimilar(positive, negative, s.cfg.MaxCandidates)
	if err != nil {
		return nil, err
	}

	wanted := make(map[domain.Category]bool, len(cats))
	for _, c := range cats {
		wanted[c] = true
	}

	merged := make([]domain.Hit, 0, len(hits))
	for _, h := range hits {
		if s.isSelfMatch(h) {
			continue
		}
		k := domain.ParseKey(h.Key)
		// Primary keeps only well-formed keys of a requested category.
		if !k.WellFormed || !wanted[k.Category] {
			continue
		}
		merged = append(merged, h)
	}

	// Extended tier: only categories with a known bounded sub-range take
	// part; the others contribute via the primary pass alone. The range
	// itself scopes the keys, so no category filter is applied here.
	if len(merged) < s.cfg.MinResults {
		for _, cat := range cats {
			start, end, ok := s.clipRange(ctx, store, cat)
			if !ok {
				continue
			}
			ext, err := store.MostSimilarClipped(positive, negative, s.cfg.MaxCandidates, start, end)
			if err != nil {
				return nil, err
			}
			for _, h := range ext {
				if s.isSelfMatch(h) {
					continue
				}
				merged = append(merged, h)
			}
		}
	}

	// Dedup by key, first occurrence wins: primary entries precede extended
	// ones, so they take precedence on collision. The sort is stable, so
	// ties keep discovery order.
	seen := make(map[string]bool, len(merged))
	uniq := merged[:0]
	for _, h := range merged {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		uniq = append(uniq, h)
	}
	sort.SliceStable(uniq, func(a, b int) bool { return uniq[a].Similarity > uniq[b].Similarity })

	items := make([]domain.ResultItem, 0, len(uniq))
	for _, h := range uniq {
		items = append(items, s.buildItem(ctx, store, h))
	}
	return items, nil
}

// isSelfMatch reports whether a hit is the query's own vector: similarity
// above the ceiling with a non-article key. Articles are exempt since
// distinct papers can legitimately have near-identical embeddings.
func (s *Service) isSelfMatch(h domain.Hit) bool {
	return h.Similarity > s.cfg.SelfMatchCeiling &&
		domain.ParseKey(h.Key).Category != domain.CategoryArticle
}

// clipRange resolves the bounded sub-range of the document space for a
// category. Only year and SIG ranges exist; anything else reports no range.
// The end offset is exclusive.
func (s *Service) clipRange(
	ctx context.Context, store domain.EmbeddingStore, cat domain.Category,
) (start, end int, ok bool) {
	var startKey, endKey string
	switch cat {
	case domain.CategoryYear:
		startKey = "Y:" + s.cfg.YearMin
		endKey = "Y:" + s.cfg.YearMax
	case domain.CategorySIG:
		startKey = s.cfg.SIGStart
		endKey = s.cfg.SIGEnd
	default:
		return 0, 0, false
	}

	start, okStart := store.OffsetOf(startKey)
	end, okEnd := store.OffsetOf(endKey)
	if !okStart || !okEnd {
		s.logger.Warn("clip range sentinel missing from model",
			zap.String("category", cat.Name()),
			zap.String("start_key", startKey),
			zap.String("end_key", endKey),
		)
		return 0, 0, false
	}
	return start, end, true
}

// buildItem enriches one hit into a displayable result. Articles are
// cross-referenced against the metadata store; a missing record falls back
// to the raw key with an empty description. Other categories pass through
// with the raw key as title.
func (s *Service) buildItem(
	ctx context.Context, store domain.EmbeddingStore, h domain.Hit,
) domain.ResultItem {
	item := domain.ResultItem{
		Label:      h.Key,
		Count:      store.CountOf(h.Key),
		Title:      h.Key,
		Similarity: h.Similarity,
	}
	if vec, err := store.DocVector(h.Key); err == nil {
		item.Vector = vec
	}

	k := domain.ParseKey(h.Key)
	if k.Category != domain.CategoryArticle {
		return item
	}

	rec, err := s.meta.Record(ctx, k.Suffix)
	if err != nil {
		s.logger.Debug("no metadata for article",
			zap.String("key", h.Key), zap.Error(err))
		return item
	}
	item.Title = rec.Citation()
	item.Description = rec.Body()
	return item
}

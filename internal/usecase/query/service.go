// Package query is the search engine core: it composes query vectors from
// terms and outlines, runs the tiered nearest-neighbor search, and assembles
// the response envelope.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/metrics"
)

// Service orchestrates model selection, vectorization, and ranking behind
// the three public search operations.
type Service struct {
	models ModelProvider
	tok    Tokenizer
	meta   MetadataStore
	cfg    Config
	logger *zap.Logger
}

// New creates the search service.
func New(models ModelProvider, tok Tokenizer, meta MetadataStore, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{models: models, tok: tok, meta: meta, cfg: cfg, logger: logger}
}

// SearchRequest carries the arguments of a full composed search.
type SearchRequest struct {
	Positive []string
	Negative []string
	Outline  string
	// Categories are result category names ("article", "author", ...);
	// empty means all.
	Categories []string
	// ModelVariant selects the embedding model ("dm", "dbow"); empty keeps
	// the active one.
	ModelVariant string
}

// CurrentModel returns the active model variant.
func (s *Service) CurrentModel() string {
	return s.models.Current()
}

// SelectModel switches the active model variant.
func (s *Service) SelectModel(variant string) error {
	_, err := s.models.Select(variant)
	return err
}

// Search runs the full pipeline: select model, vectorize both term lists
// plus the outline, rank, enrich. Per-term and per-item failures surface as
// envelope messages; only model-load failures are returned as errors.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*domain.Envelope, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.WithLabelValues("search").Observe(time.Since(start).Seconds()) }()

	store, err := s.models.Select(req.ModelVariant)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}

	cats, err := resolveCategories(req.Categories)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}

	env := domain.NewEnvelope()
	positive := s.vectorize(env, store, req.Positive, req.Outline)
	negative := s.vectorize(env, store, req.Negative, "")

	if len(positive)+len(negative) == 0 {
		env.PrependMessage("No word available")
		metrics.SearchesTotal.WithLabelValues("search", "failed").Inc()
		return env, nil
	}

	items, err := s.rank(ctx, store, positive, negative, cats)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		env.AddMessage("Server error: " + err.Error())
		metrics.SearchesTotal.WithLabelValues("search", "error").Inc()
		return env, nil
	}

	env.Data = items
	env.OK = true
	env.PrependMessage(summaryMessage(len(items), req.Positive, req.Negative, req.Outline))
	metrics.SearchesTotal.WithLabelValues("search", "ok").Inc()
	return env, nil
}

// SearchByDocument finds the neighbors of one existing document vector,
// restricted to results sharing the query key's top-level category.
func (s *Service) SearchByDocument(ctx context.Context, key string) (*domain.Envelope, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues("search_by_document").Observe(time.Since(start).Seconds())
	}()

	if key == "" {
		metrics.SearchesTotal.WithLabelValues("search_by_document", "error").Inc()
		return nil, fmt.Errorf("document key: %w", domain.ErrEmptyQuery)
	}

	store, err := s.models.Select("")
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("search_by_document", "error").Inc()
		return nil, err
	}

	env := domain.NewEnvelope()
	vec, err := store.DocVector(key)
	if err != nil {
		env.AddMessage(fmt.Sprintf("No document %q in the model", key))
		metrics.SearchesTotal.WithLabelValues("search_by_document", "failed").Inc()
		return env, nil
	}
	env.AddInput(key, vec)

	hits, err := store.MostSimilar([][]float32{vec}, nil, s.cfg.ByDocCandidates)
	if err != nil {
		s.logger.Error("search by document failed", zap.String("key", key), zap.Error(err))
		env.AddMessage("Server error: " + err.Error())
		metrics.SearchesTotal.WithLabelValues("search_by_document", "error").Inc()
		return env, nil
	}

	// Keep neighbors of the same top-level category, never the query itself.
	catPrefix, _, _ := strings.Cut(key, ":")
	items := make([]domain.ResultItem, 0, s.cfg.ByDocLimit)
	for _, h := range hits {
		if h.Key == key || !strings.HasPrefix(h.Key, catPrefix) {
			continue
		}
		items = append(items, s.buildItem(ctx, store, h))
		if len(items) == s.cfg.ByDocLimit {
			break
		}
	}

	env.Data = items
	env.OK = true
	env.PrependMessage(fmt.Sprintf("Most similar %d items of %s", len(items), key))
	metrics.SearchesTotal.WithLabelValues("search_by_document", "ok").Inc()
	return env, nil
}

// SearchByText infers a vector for free text and finds its neighbors over
// the whole document space. No category filtering is applied.
func (s *Service) SearchByText(ctx context.Context, text string) (*domain.Envelope, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues("search_by_text").Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(text) == "" {
		metrics.SearchesTotal.WithLabelValues("search_by_text", "error").Inc()
		return nil, fmt.Errorf("search text: %w", domain.ErrEmptyQuery)
	}

	store, err := s.models.Select("")
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("search_by_text", "error").Inc()
		return nil, err
	}

	env := domain.NewEnvelope()
	vec := store.InferVector(s.tok.Tokenize(text), s.cfg.Infer)
	env.AddInput(outlineLabel, vec)

	hits, err := store.MostSimilar([][]float32{vec}, nil, s.cfg.ByTextLimit)
	if err != nil {
		s.logger.Error("search by text failed", zap.Error(err))
		env.AddMessage("Server error: " + err.Error())
		metrics.SearchesTotal.WithLabelValues("search_by_text", "error").Inc()
		return env, nil
	}

	items := make([]domain.ResultItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, s.buildItem(ctx, store, h))
	}

	env.Data = items
	env.OK = true
	env.PrependMessage(fmt.Sprintf("Most similar %d items", len(items)))
	metrics.SearchesTotal.WithLabelValues("search_by_text", "ok").Inc()
	return env, nil
}

// resolveCategories maps category names to categories; empty means all.
func resolveCategories(names []string) ([]domain.Category, error) {
	if len(names) == 0 {
		return domain.AllCategories(), nil
	}
	cats := make([]domain.Category, 0, len(names))
	for _, name := range names {
		c, ok := domain.CategoryByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// summaryMessage renders the leading status line of a composed search.
func summaryMessage(n int, positive, negative []string, outline string) string {
	posStr := strings.Join(positive, " ")
	if outline != "" {
		if posStr == "" {
			posStr = "[Outline]"
		} else {
			posStr += " [Outline]"
		}
	}

	prefix := "Most similar "
	if n == 0 {
		prefix = "No results. "
	}
	if len(negative) == 0 {
		return fmt.Sprintf("%s%d items of %s", prefix, n, posStr)
	}
	return fmt.Sprintf("%s%d items of positive(%s), negative(%s)",
		prefix, n, posStr, strings.Join(negative, " "))
}

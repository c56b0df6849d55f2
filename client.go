// Package aissearch is the in-process SDK for the similarity search engine.
// It wires the embedding stores, tokenizer, and metadata backend into a
// single client, for embedding the engine without running the HTTP server.
package aissearch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/metadata"
	"github.com/hibik17/ais-search/internal/metrics"
	"github.com/hibik17/ais-search/internal/store/doc2vec"
	"github.com/hibik17/ais-search/internal/tokenizer"
	"github.com/hibik17/ais-search/internal/usecase/model"
	"github.com/hibik17/ais-search/internal/usecase/query"
)

// SearchRequest mirrors the service-level request for SDK callers.
type SearchRequest = query.SearchRequest

// Envelope is the result envelope of every search operation.
type Envelope = domain.Envelope

// ResultItem is one ranked search result.
type ResultItem = domain.ResultItem

// Client is the aissearch SDK entry point.
type Client struct {
	svc   *query.Service
	redis *metadata.RedisStore // nil with the fs driver
}

// New creates a Client. The model artifacts directory is required; the
// default variant is loaded lazily on the first query.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.modelsDir == "" {
		return nil, errors.New("aissearch: models directory required (use WithModelsDir)")
	}

	load := func(variant string) (domain.EmbeddingStore, error) {
		m, err := doc2vec.Open(doc2vec.VariantPath(cfg.modelsDir, cfg.modelName, variant))
		if err != nil {
			metrics.ModelLoadsTotal.WithLabelValues(variant, "error").Inc()
			return nil, err
		}
		metrics.ModelLoadsTotal.WithLabelValues(variant, "ok").Inc()
		return m, nil
	}
	selector := model.NewSelector(cfg.defaultVariant, load)

	tok, err := createTokenizer(&cfg)
	if err != nil {
		return nil, err
	}

	meta, redis, err := createMetadata(&cfg)
	if err != nil {
		return nil, err
	}

	svc := query.New(selector, tok, meta, cfg.search, cfg.logger)
	return &Client{svc: svc, redis: redis}, nil
}

func createTokenizer(cfg *clientConfig) (query.Tokenizer, error) {
	if cfg.tokenizer != nil {
		return cfg.tokenizer, nil
	}
	switch cfg.tokenizerMode {
	case "simple":
		return tokenizer.Simple{}, nil
	case "morph":
		m, err := tokenizer.NewMorph()
		if err != nil {
			return nil, fmt.Errorf("aissearch: create tokenizer: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("aissearch: unknown tokenizer mode %q", cfg.tokenizerMode)
	}
}

func createMetadata(cfg *clientConfig) (query.MetadataStore, *metadata.RedisStore, error) {
	switch cfg.metadataDriver {
	case "fs":
		if cfg.metadataDir == "" {
			return nil, nil, errors.New("aissearch: metadata directory required (use WithMetadataDir)")
		}
		fs, err := metadata.NewFS(cfg.metadataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("aissearch: create metadata store: %w", err)
		}
		return fs, nil, nil
	case "redis":
		rs, err := metadata.NewRedis(metadata.RedisConfig{
			Addrs:     cfg.redisAddrs,
			Username:  cfg.redisUsername,
			Password:  cfg.redisPassword,
			KeyPrefix: cfg.redisKeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("aissearch: create metadata store: %w", err)
		}
		return rs, rs, nil
	default:
		return nil, nil, fmt.Errorf("aissearch: unknown metadata driver %q", cfg.metadataDriver)
	}
}

// Search runs a composed search over positive/negative terms, an optional
// outline, and an optional category filter.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Envelope, error) {
	return c.svc.Search(ctx, req)
}

// SearchByDocument finds the neighbors of one existing document key.
func (c *Client) SearchByDocument(ctx context.Context, key string) (*Envelope, error) {
	return c.svc.SearchByDocument(ctx, key)
}

// SearchByText finds the neighbors of a vector inferred from free text.
func (c *Client) SearchByText(ctx context.Context, text string) (*Envelope, error) {
	return c.svc.SearchByText(ctx, text)
}

// CurrentModel returns the active model variant.
func (c *Client) CurrentModel() string {
	return c.svc.CurrentModel()
}

// SelectModel switches the active model variant (dm, dbow).
func (c *Client) SelectModel(variant string) error {
	return c.svc.SelectModel(variant)
}

// Service exposes the underlying query service for transports.
func (c *Client) Service() *query.Service {
	return c.svc
}

// Ping checks metadata backend connectivity. Always nil with the fs driver.
func (c *Client) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
}

// zapOrNop keeps option wiring nil-safe.
func zapOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

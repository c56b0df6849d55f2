package query

import (
	"context"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/metadata"
)

// ModelProvider yields the active embedding store, switching variants on
// demand.
type ModelProvider interface {
	Select(variant string) (domain.EmbeddingStore, error)
	Current() string
}

// Tokenizer splits free text into an ordered sequence of lexical tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// MetadataStore resolves article identifiers to metadata records for result
// enrichment.
type MetadataStore interface {
	Record(ctx context.Context, articleID string) (metadata.Record, error)
}

// Config holds the ranking parameters of the engine.
type Config struct {
	// MaxCandidates caps every nearest-neighbor request.
	MaxCandidates int
	// MinResults is the floor below which the extended search tier runs.
	MinResults int
	// SelfMatchCeiling is the similarity above which a non-article hit is
	// treated as the query's own vector and dropped.
	SelfMatchCeiling float64
	// YearMin/YearMax name the year keys delimiting the year clip range.
	YearMin string
	YearMax string
	// SIGStart/SIGEnd are the sentinel keys delimiting the SIG clip range.
	SIGStart string
	SIGEnd   string
	// ByDocCandidates/ByDocLimit bound SearchByDocument.
	ByDocCandidates int
	ByDocLimit      int
	// ByTextLimit bounds SearchByText.
	ByTextLimit int
	// Infer parameterizes vector inference for outlines and free text.
	Infer domain.InferConfig
}

// DefaultConfig returns the parameters the engine shipped with.
func DefaultConfig() Config {
	return Config{
		MaxCandidates:    100,
		MinResults:       20,
		SelfMatchCeiling: 0.9999,
		YearMin:          "1973",
		YearMax:          "2017",
		SIGStart:         "SIG",
		SIGEnd:           "SIG-end",
		ByDocCandidates:  1000,
		ByDocLimit:       10,
		ByTextLimit:      20,
		Infer:            domain.DefaultInferConfig(),
	}
}

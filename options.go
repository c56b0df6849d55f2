package aissearch

import (
	"go.uber.org/zap"

	"github.com/hibik17/ais-search/internal/usecase/query"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	modelsDir      string
	modelName      string
	defaultVariant string

	metadataDriver string
	metadataDir    string
	redisAddrs     []string
	redisUsername  string
	redisPassword  string
	redisKeyPrefix string

	tokenizerMode string
	tokenizer     query.Tokenizer

	search query.Config
	logger *zap.Logger
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		modelName:      "ipsj",
		defaultVariant: "dm",
		metadataDriver: "fs",
		redisKeyPrefix: "ais:",
		tokenizerMode:  "morph",
		search:         query.DefaultConfig(),
		logger:         zap.NewNop(),
	}
}

// WithModelsDir sets the directory holding the model artifacts. Required.
func WithModelsDir(dir string) Option {
	return func(c *clientConfig) { c.modelsDir = dir }
}

// WithModelName sets the artifact base name (default "ipsj"). A variant v
// is loaded from <dir>/<name>_<v>.d2v.
func WithModelName(name string) Option {
	return func(c *clientConfig) { c.modelName = name }
}

// WithDefaultVariant sets the variant loaded on the first query (default "dm").
func WithDefaultVariant(variant string) Option {
	return func(c *clientConfig) { c.defaultVariant = variant }
}

// WithMetadataDir selects the filesystem metadata driver over the given
// directory of id_<id>.json files. This is the default driver.
func WithMetadataDir(dir string) Option {
	return func(c *clientConfig) {
		c.metadataDriver = "fs"
		c.metadataDir = dir
	}
}

// WithRedisMetadata selects the Redis metadata driver.
func WithRedisMetadata(addrs []string, username, password string) Option {
	return func(c *clientConfig) {
		c.metadataDriver = "redis"
		c.redisAddrs = addrs
		c.redisUsername = username
		c.redisPassword = password
	}
}

// WithRedisKeyPrefix sets the Redis key prefix (default "ais:").
func WithRedisKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.redisKeyPrefix = prefix }
}

// WithSimpleTokenizer replaces the morphological tokenizer with a plain
// whitespace/punctuation splitter. Skips loading the dictionary.
func WithSimpleTokenizer() Option {
	return func(c *clientConfig) { c.tokenizerMode = "simple" }
}

// WithTokenizer injects a custom tokenizer.
func WithTokenizer(t query.Tokenizer) Option {
	return func(c *clientConfig) { c.tokenizer = t }
}

// WithSearchConfig overrides the ranking parameters.
func WithSearchConfig(cfg query.Config) Option {
	return func(c *clientConfig) { c.search = cfg }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = zapOrNop(l) }
}

package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/hibik17/ais-search/internal/domain"
)

// RedisConfig holds connection parameters for a Redis metadata store.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	KeyPrefix string
}

// RedisStore reads metadata records from Redis, for deployments that load
// the JSON corpus into a shared cache instead of shipping it on disk.
// Records live at <prefix>article:<id>.
type RedisStore struct {
	client rueidis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedis creates a Redis metadata store.
func NewRedis(cfg RedisConfig) (*RedisStore, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.KeyPrefix}, nil
}

// Record fetches and decodes one article record.
func (s *RedisStore) Record(ctx context.Context, articleID string) (Record, error) {
	if articleID == "" {
		return Record{}, fmt.Errorf("empty article id: %w", domain.ErrMetadataNotFound)
	}

	key := s.prefix + "article:" + articleID
	cmd := s.client.B().Get().Key(key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return Record{}, fmt.Errorf("article %s: %w", articleID, domain.ErrMetadataNotFound)
		}
		return Record{}, fmt.Errorf("get article %s: %w", articleID, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode article %s: %w", articleID, err)
	}
	return rec, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *RedisStore) Close() {
	s.client.Close()
}

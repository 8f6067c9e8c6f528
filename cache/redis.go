package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openphylo/sdk/taxonomy"
)

// RedisOptions configures the Redis connection backing a shared taxonomy
// store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// KeyPrefix namespaces the store's keys. Defaults to "taxonomy".
	KeyPrefix string

	// TTL bounds how long a record stays in Redis. Zero means no expiry.
	TTL time.Duration

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration
}

// RedisStore implements Store on Redis using go-redis/v9. Records are
// JSON-encoded and keyed "<prefix>:<facet>:<key>".
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a shared taxonomy store with the given options.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "taxonomy"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}, nil
}

// record is the wire form of a taxonomy in Redis.
type record struct {
	IDValue        string   `json:"id,omitempty"`
	IDProvider     string   `json:"provider,omitempty"`
	ScientificName string   `json:"sn,omitempty"`
	Code           string   `json:"code,omitempty"`
	CommonName     string   `json:"cn,omitempty"`
	Rank           string   `json:"rank,omitempty"`
	Synonyms       []string `json:"synonyms,omitempty"`
	Lineage        []string `json:"lineage,omitempty"`
}

func toRecord(t *taxonomy.Taxonomy) record {
	r := record{
		ScientificName: t.ScientificName,
		Code:           t.Code,
		CommonName:     t.CommonName,
		Rank:           t.Rank,
		Synonyms:       t.Synonyms,
		Lineage:        t.Lineage,
	}
	if t.Identifier != nil {
		r.IDValue = t.Identifier.Value
		r.IDProvider = t.Identifier.Provider
	}
	return r
}

func (r record) taxonomy() *taxonomy.Taxonomy {
	t := &taxonomy.Taxonomy{
		ScientificName: r.ScientificName,
		Code:           r.Code,
		CommonName:     r.CommonName,
		Rank:           r.Rank,
		Synonyms:       r.Synonyms,
		Lineage:        r.Lineage,
	}
	if r.IDValue != "" {
		t.Identifier = &taxonomy.Identifier{Value: r.IDValue, Provider: r.IDProvider}
	}
	return t
}

func (s *RedisStore) key(facet taxonomy.Facet, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, facet.String(), key)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, facet taxonomy.Facet, key string) (*taxonomy.Taxonomy, error) {
	data, err := s.client.Get(ctx, s.key(facet, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy from Redis: %w", err)
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taxonomy: %w", err)
	}
	return r.taxonomy(), nil
}

// Put implements Store, writing the record under every populated facet key.
func (s *RedisStore) Put(ctx context.Context, t *taxonomy.Taxonomy) error {
	data, err := json.Marshal(toRecord(t))
	if err != nil {
		return fmt.Errorf("failed to marshal taxonomy: %w", err)
	}
	pipe := s.client.Pipeline()
	for _, f := range taxonomy.Facets {
		if k := f.Key(t); k != "" {
			pipe.Set(ctx, s.key(f, k), data, s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write taxonomy to Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

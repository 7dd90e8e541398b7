package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mailkit/core/store"
	"github.com/dmitrymomot/mailkit/core/template"
)

// Config holds Redis connection settings for the template store.
type Config struct {
	ConnectionURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix     string `env:"REDIS_TEMPLATE_KEY_PREFIX" envDefault:"mailkit:templates"`
}

// Error variables for Redis store failures.
var (
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	ErrConnectionFailed        = errors.New("failed to connect to redis")
)

// Store keeps the template collection in Redis: one JSON blob per template in
// a hash, plus a list holding the collection order.
type Store struct {
	client   *redis.Client
	orderKey string
	dataKey  string
}

var _ store.Store = (*Store)(nil)

// New connects to Redis, verifies connectivity with a ping, and returns the
// template store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConnString, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return &Store{
		client:   client,
		orderKey: cfg.KeyPrefix + ":order",
		dataKey:  cfg.KeyPrefix + ":data",
	}, nil
}

// Load reads the collection in stored order. Templates present in the hash
// but absent from the order list are not returned; Save always writes both
// structures together, so that state only arises from external edits.
func (s *Store) Load(ctx context.Context) ([]*template.Template, error) {
	ids, err := s.client.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := s.client.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
	}

	templates := make([]*template.Template, 0, len(ids))
	for i, v := range raw {
		data, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: missing data for template %s", store.ErrLoadFailed, ids[i])
		}
		var tmpl template.Template
		if err := json.Unmarshal([]byte(data), &tmpl); err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", store.ErrLoadFailed, ids[i], err)
		}
		templates = append(templates, &tmpl)
	}
	return templates, nil
}

// Save replaces the whole collection in one transaction.
func (s *Store) Save(ctx context.Context, templates []*template.Template) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.orderKey, s.dataKey)

	for _, tmpl := range templates {
		data, err := json.Marshal(tmpl)
		if err != nil {
			return fmt.Errorf("%w: template %s: %v", store.ErrSaveFailed, tmpl.ID, err)
		}
		pipe.RPush(ctx, s.orderKey, tmpl.ID)
		pipe.HSet(ctx, s.dataKey, tmpl.ID, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrSaveFailed, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Package redis keeps the state record under a single redis key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/go-redis/redis/v8"
)

// DefaultKey is where the state record lives.
const DefaultKey = "briefing:state"

type Repository struct {
	client *redis.Client
	key    string
	logger *logger.Logger
}

// NewFromURL connects to the redis server described by rawURL.
func NewFromURL(ctx context.Context, rawURL string, l *logger.Logger) (*Repository, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis - NewFromURL - ParseURL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis - NewFromURL - Ping: %w", err)
	}
	return New(client, DefaultKey, l), nil
}

func New(client *redis.Client, key string, l *logger.Logger) *Repository {
	return &Repository{
		client: client,
		key:    key,
		logger: l.Component("store/redis"),
	}
}

func (r *Repository) Load(ctx context.Context) (briefing.State, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return briefing.State{}.Clone(), nil
	}
	if err != nil {
		r.logger.Error("redis.Load", logger.Err(err))
		return briefing.State{}, fmt.Errorf("redis - Load - Get: %w", err)
	}

	var st briefing.State
	if err := json.Unmarshal(val, &st); err != nil {
		return briefing.State{}, fmt.Errorf("redis - Load - Unmarshal: %w", err)
	}
	return st.Clone(), nil
}

func (r *Repository) Save(ctx context.Context, st briefing.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("redis - Save - Marshal: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Error("redis.Save", logger.Err(err))
		return fmt.Errorf("redis - Save - Set: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}

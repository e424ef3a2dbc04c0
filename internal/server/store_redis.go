package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const saveKeyPrefix = "dartscore:save:v1:"

// RedisSaveStore keeps each saved game as one JSON value that expires
// after ttl without activity.
type RedisSaveStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSaveStore(rdb *redis.Client, ttl time.Duration) *RedisSaveStore {
	return &RedisSaveStore{rdb: rdb, ttl: ttl}
}

func saveKey(id string) string { return saveKeyPrefix + id }

func (s *RedisSaveStore) Save(ctx context.Context, g SavedGame) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding saved game: %w", err)
	}
	if err := s.rdb.Set(ctx, saveKey(g.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving game %s: %w", g.ID, err)
	}
	return nil
}

func (s *RedisSaveStore) Load(ctx context.Context, id string) (SavedGame, error) {
	data, err := s.rdb.Get(ctx, saveKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SavedGame{}, ErrNotFound
	}
	if err != nil {
		return SavedGame{}, fmt.Errorf("loading game %s: %w", id, err)
	}

	var g SavedGame
	if err := json.Unmarshal(data, &g); err != nil {
		return SavedGame{}, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return g, nil
}

func (s *RedisSaveStore) Clear(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, saveKey(id)).Err()
}

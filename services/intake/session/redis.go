// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several engine instances can share
// one progress store. Payloads are JSON under intake:-prefixed keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a URL such as
// redis://localhost:6379/0.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client, mostly for tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisSessionKey(userID string) string   { return "intake:session:" + userID }
func redisDraftKey(userID string) string     { return "intake:draft:" + userID }
func redisCompletedKey(userID string) string { return "intake:completed:" + userID }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, redisSessionKey(s.UserID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := r.client.Get(ctx, redisSessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisSessionKey(s.UserID), data, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, redisSessionKey(userID)).Err()
}

func (r *RedisStore) GetDraft(ctx context.Context, userID string) ([]string, error) {
	data, err := r.client.Get(ctx, redisDraftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var goals []string
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return goals, nil
}

func (r *RedisStore) PutDraft(ctx context.Context, userID string, goals []string) error {
	data, err := json.Marshal(goals)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisDraftKey(userID), data, 0).Err()
}

func (r *RedisStore) DeleteDraft(ctx context.Context, userID string) error {
	return r.client.Del(ctx, redisDraftKey(userID)).Err()
}

func (r *RedisStore) MarkCompleted(ctx context.Context, userID string) error {
	return r.client.Set(ctx, redisCompletedKey(userID), "1", 0).Err()
}

func (r *RedisStore) IsCompleted(ctx context.Context, userID string) (bool, error) {
	_, err := r.client.Get(ctx, redisCompletedKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check completed: %w", err)
	}
	return true, nil
}

func (r *RedisStore) ClearCompleted(ctx context.Context, userID string) error {
	return r.client.Del(ctx, redisCompletedKey(userID)).Err()
}

func (r *RedisStore) Reset(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "intake:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan intake keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

var _ Store = (*RedisStore)(nil)

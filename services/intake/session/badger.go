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

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes inside the badger namespace.
var (
	badgerSessionPrefix   = []byte("session/")
	badgerDraftPrefix     = []byte("draft/")
	badgerCompletedPrefix = []byte("completed/")
)

// BadgerStore keeps sessions in an embedded BadgerDB instance.
//
// The default configuration runs badger in memory, which keeps the
// no-persistence contract while exercising the same store machinery a
// disk-backed deployment would use; pass a path to keep state on disk.
type BadgerStore struct {
	db *badger.DB
}

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory disables disk persistence entirely.
	InMemory bool
}

// NewBadgerStore opens the underlying database. Callers own Close.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func badgerKey(prefix []byte, userID string) []byte {
	return append(append([]byte(nil), prefix...), userID...)
}

func (b *BadgerStore) Create(_ context.Context, s *Session) error {
	key := badgerKey(badgerSessionPrefix, s.UserID)
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrSessionExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

func (b *BadgerStore) Get(_ context.Context, userID string) (*Session, error) {
	var s Session
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(badgerSessionPrefix, userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *BadgerStore) Put(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(badgerSessionPrefix, s.UserID), data)
	})
}

func (b *BadgerStore) Delete(_ context.Context, userID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(badgerSessionPrefix, userID))
	})
}

func (b *BadgerStore) GetDraft(_ context.Context, userID string) ([]string, error) {
	var goals []string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(badgerDraftPrefix, userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &goals)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (b *BadgerStore) PutDraft(_ context.Context, userID string, goals []string) error {
	data, err := json.Marshal(goals)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(badgerDraftPrefix, userID), data)
	})
}

func (b *BadgerStore) DeleteDraft(_ context.Context, userID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(badgerDraftPrefix, userID))
	})
}

func (b *BadgerStore) MarkCompleted(_ context.Context, userID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(badgerCompletedPrefix, userID), []byte("1"))
	})
}

func (b *BadgerStore) IsCompleted(_ context.Context, userID string) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerKey(badgerCompletedPrefix, userID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *BadgerStore) ClearCompleted(_ context.Context, userID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(badgerCompletedPrefix, userID))
	})
}

func (b *BadgerStore) Reset(_ context.Context) error {
	for _, prefix := range [][]byte{badgerSessionPrefix, badgerDraftPrefix, badgerCompletedPrefix} {
		if err := b.db.DropPrefix(prefix); err != nil {
			return fmt.Errorf("reset badger store: %w", err)
		}
	}
	return nil
}

var _ Store = (*BadgerStore)(nil)

// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package anilist

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/anisette/internal/logging"
)

// PageCache stores fetched catalog pages in BadgerDB so interrupted or
// repeated pipeline runs against an unchanged catalog skip the network.
// Entries expire via Badger's native TTL; an unreadable entry is treated
// as a miss, never an error.
type PageCache struct {
	db *badger.DB
}

// OpenPageCache opens (or creates) the cache at dir.
func OpenPageCache(dir string) (*PageCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}

	logging.Debug().Str("dir", dir).Msg("AniList page cache opened")
	return &PageCache{db: db}, nil
}

func pageKey(page, perPage int) []byte {
	return []byte(fmt.Sprintf("anilist#page#%d#%d", page, perPage))
}

// Get returns the cached page, or (nil, false) when absent or unreadable.
func (pc *PageCache) Get(page, perPage int) (*Page, bool) {
	var result *Page

	err := pc.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pageKey(page, perPage))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var p Page
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			result = &p
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Int("page", page).Msg("Unreadable page cache entry, treating as miss")
		}
		return nil, false
	}

	return result, true
}

// Put stores a page. A non-positive TTL stores it without expiry.
func (pc *PageCache) Put(page, perPage int, data *Page, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	err = pc.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(pageKey(page, perPage), payload)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to write page cache entry: %w", err)
	}

	return nil
}

// Close releases the underlying BadgerDB.
func (pc *PageCache) Close() error {
	return pc.db.Close()
}

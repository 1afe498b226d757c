// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// ReaderEntry is one chapter listed in the reader index.
type ReaderEntry struct {
	// ID is the reader id "{comicId}-{number}".
	ID          string `json:"id"`
	Title       string `json:"title"`
	Number      int    `json:"number"`
	SeriesID    string `json:"seriesId"`
	SeriesTitle string `json:"seriesTitle"`
}

// Index maintains the reader index stored under [constants.KeyReaderIndex].
type Index struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *slog.Logger
}

// NewIndex creates a reader [Index].
func NewIndex(backend storage.Storage, logger *slog.Logger) *Index {
	return &Index{storage: backend, logger: logger}
}

// List returns every indexed chapter in insertion order.
func (index *Index) List(context context.Context) ([]ReaderEntry, error) {
	index.mu.Lock()
	defer index.mu.Unlock()
	return index.load(context)
}

// Upsert replaces the entry with the same id, moving it to the end.
func (index *Index) Upsert(context context.Context, entry ReaderEntry) error {
	index.mu.Lock()
	defer index.mu.Unlock()

	entries, err := index.load(context)
	if err != nil {
		return err
	}

	entries = slices.DeleteFunc(entries, func(e ReaderEntry) bool { return e.ID == entry.ID })
	entries = append(entries, entry)

	return index.save(context, entries)
}

// Remove drops the entry with id. Removing an unknown id still rewrites the
// index, which also repairs a malformed one.
func (index *Index) Remove(context context.Context, id string) error {
	index.mu.Lock()
	defer index.mu.Unlock()

	entries, err := index.load(context)
	if err != nil {
		return err
	}

	entries = slices.DeleteFunc(entries, func(e ReaderEntry) bool { return e.ID == id })
	return index.save(context, entries)
}

// RemoveSeries drops every entry of seriesID and returns how many went.
func (index *Index) RemoveSeries(context context.Context, seriesID string) (int, error) {
	index.mu.Lock()
	defer index.mu.Unlock()

	entries, err := index.load(context)
	if err != nil {
		return 0, err
	}

	before := len(entries)
	entries = slices.DeleteFunc(entries, func(e ReaderEntry) bool { return e.SeriesID == seriesID })
	if len(entries) == before {
		return 0, nil
	}
	return before - len(entries), index.save(context, entries)
}

// load reads the index; a malformed document reads as empty.
func (index *Index) load(context context.Context) ([]ReaderEntry, error) {
	raw, err := index.storage.Get(context, constants.KeyReaderIndex)
	if errors.Is(err, storage.ErrNotFound) {
		return []ReaderEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reader_index_load_failed: %w", err)
	}

	var entries []ReaderEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		index.logger.Warn("reader_index_malformed", slog.Any("error", err))
		return []ReaderEntry{}, nil
	}
	if entries == nil {
		entries = []ReaderEntry{}
	}
	return entries, nil
}

func (index *Index) save(context context.Context, entries []ReaderEntry) error {
	if err := storage.SetJSON(context, index.storage, constants.KeyReaderIndex, entries); err != nil {
		return fmt.Errorf("reader_index_save_failed: %w", err)
	}
	return nil
}

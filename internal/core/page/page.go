// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page stores the chapter page artifacts the reader displays.

Artifacts live outside the catalogue document, one key per chapter:

	chapter-{comicId}-{number}-images

next to a reader index under "manga-chapters" that lists every chapter
published through the admin editor.
*/
package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// Image is one page of a chapter.
type Image struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	PageNumber int    `json:"pageNumber"`
}

// ArtifactKey returns the storage key of a chapter's page list.
func ArtifactKey(comicID, number string) string {
	return constants.PrefixChapterImages + comicID + "-" + number + constants.SuffixChapterImages
}

// BuildImages numbers urls from 1 and derives ids "{comicId}-{number}-{n}".
func BuildImages(comicID, number string, urls []string) []Image {
	images := make([]Image, 0, len(urls))
	for i, url := range urls {
		images = append(images, Image{
			ID:         fmt.Sprintf("%s-%s-%d", comicID, number, i+1),
			URL:        url,
			PageNumber: i + 1,
		})
	}
	return images
}

// # Artifact Store

// Store reads and writes chapter page artifacts.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewStore creates an artifact [Store].
func NewStore(backend storage.Storage, logger *slog.Logger) *Store {
	return &Store{storage: backend, logger: logger}
}

// Save overwrites the page list of one chapter.
func (store *Store) Save(context context.Context, comicID, number string, images []Image) error {
	if images == nil {
		images = []Image{}
	}
	if err := storage.SetJSON(context, store.storage, ArtifactKey(comicID, number), images); err != nil {
		return fmt.Errorf("page_save_failed: %w", err)
	}
	return nil
}

// Load returns the page list of one chapter. Missing and malformed artifacts
// read as an empty list; only backend failures are errors.
func (store *Store) Load(context context.Context, comicID, number string) ([]Image, error) {
	key := ArtifactKey(comicID, number)

	raw, err := store.storage.Get(context, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []Image{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("page_load_failed: %w", err)
	}

	var images []Image
	if err := json.Unmarshal(raw, &images); err != nil {
		store.logger.Warn("page_artifact_malformed", slog.String("key", key), slog.Any("error", err))
		return []Image{}, nil
	}
	if images == nil {
		images = []Image{}
	}
	return images, nil
}

// Delete removes the page list of one chapter. Missing artifacts are fine.
func (store *Store) Delete(context context.Context, comicID, number string) error {
	if err := store.storage.Delete(context, ArtifactKey(comicID, number)); err != nil {
		return fmt.Errorf("page_delete_failed: %w", err)
	}
	return nil
}

// Keys lists every artifact key belonging to comicID. Comic ids that prefix
// one another ("a" and "a-b") can share keys here; callers filter further.
func (store *Store) Keys(context context.Context, comicID string) ([]string, error) {
	keys, err := store.storage.Keys(context, constants.PrefixChapterImages+comicID+"-")
	if err != nil {
		return nil, fmt.Errorf("page_list_failed: %w", err)
	}

	artifacts := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, constants.SuffixChapterImages) {
			artifacts = append(artifacts, key)
		}
	}
	return artifacts, nil
}

// DeleteSeries removes every artifact of comicID, including ones whose
// chapter is no longer in the catalogue, and returns how many went. Keys of
// comics whose id extends comicID ("a-b" for "a") are left alone: a chapter
// number never contains a hyphen.
func (store *Store) DeleteSeries(context context.Context, comicID string) (int, error) {
	keys, err := store.Keys(context, comicID)
	if err != nil {
		return 0, err
	}

	prefix := constants.PrefixChapterImages + comicID + "-"
	removed := 0
	var errs []error
	for _, key := range keys {
		number := strings.TrimSuffix(strings.TrimPrefix(key, prefix), constants.SuffixChapterImages)
		if number == "" || strings.Contains(number, "-") {
			continue
		}
		if err := store.storage.Delete(context, key); err != nil {
			errs = append(errs, fmt.Errorf("page_delete_failed: %w", err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

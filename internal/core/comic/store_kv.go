// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// KVRepository stores the catalogue under [constants.KeyComics] with the
// schema version under [constants.KeyComicsVersion].
type KVRepository struct {
	store storage.Storage
}

// NewKVRepository creates a [Repository] over a key/value backend.
func NewKVRepository(store storage.Storage) *KVRepository {
	return &KVRepository{store: store}
}

// Load implements [Repository].
func (repository *KVRepository) Load(context context.Context) ([]*Comic, error) {
	version, err := repository.store.Get(context, constants.KeyComicsVersion)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: no version", ErrResetToDefaults)
	}
	if err != nil {
		return nil, fmt.Errorf("comic_load_failed: %w", err)
	}
	if string(version) != constants.ComicsDataVersion {
		return nil, fmt.Errorf("%w: version %q", ErrResetToDefaults, version)
	}

	raw, err := repository.store.Get(context, constants.KeyComics)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: no data", ErrResetToDefaults)
	}
	if err != nil {
		return nil, fmt.Errorf("comic_load_failed: %w", err)
	}

	var comics []*Comic
	if err := json.Unmarshal(raw, &comics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResetToDefaults, err)
	}

	// A null entry in the array cannot be rendered.
	for i, comic := range comics {
		if comic == nil {
			return nil, fmt.Errorf("%w: null comic at %d", ErrResetToDefaults, i)
		}
		for _, chapter := range comic.Chapters {
			if chapter == nil {
				return nil, fmt.Errorf("%w: null chapter in %s", ErrResetToDefaults, comic.ID)
			}
		}
	}

	return comics, nil
}

// Save implements [Repository].
func (repository *KVRepository) Save(context context.Context, comics []*Comic) error {
	if comics == nil {
		comics = []*Comic{}
	}

	if err := storage.SetJSON(context, repository.store, constants.KeyComics, comics); err != nil {
		return fmt.Errorf("comic_save_failed: %w", err)
	}

	if err := repository.store.Set(context, constants.KeyComicsVersion, []byte(constants.ComicsDataVersion)); err != nil {
		return fmt.Errorf("comic_save_version_failed: %w", err)
	}

	return nil
}

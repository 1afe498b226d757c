// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))

	// referenceNow is one day after the newest built-in chapter.
	referenceNow = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
)

// fixture bundles a store with the knobs tests turn.
type fixture struct {
	store   *comic.Store
	backend *storage.Memory
	now     time.Time
}

// sequentialIDs returns "id-1", "id-2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// newFixture builds a store seeded with the built-in catalogue.
func newFixture(t *testing.T, options ...comic.Option) *fixture {
	t.Helper()

	f := &fixture{backend: storage.NewMemory(), now: referenceNow}
	options = append([]comic.Option{
		comic.WithClock(func() time.Time { return f.now }),
		comic.WithIDs(sequentialIDs()),
		comic.WithLogger(discard),
	}, options...)

	f.store = comic.NewStore(context.Background(), comic.NewKVRepository(f.backend), options...)
	return f
}

// newBackend returns a memory backend holding the given raw catalogue keys.
// Empty strings leave a key unset.
func newBackend(t *testing.T, version, data string) *storage.Memory {
	t.Helper()

	ctx := context.Background()
	backend := storage.NewMemory()
	if version != "" {
		require.NoError(t, backend.Set(ctx, constants.KeyComicsVersion, []byte(version)))
	}
	if data != "" {
		require.NoError(t, backend.Set(ctx, constants.KeyComics, []byte(data)))
	}
	return backend
}

// fakeRepository is a scripted [comic.Repository].
type fakeRepository struct {
	comics  []*comic.Comic
	loadErr error
	saveErr error
	saves   int
}

func (repository *fakeRepository) Load(context.Context) ([]*comic.Comic, error) {
	return repository.comics, repository.loadErr
}

func (repository *fakeRepository) Save(_ context.Context, comics []*comic.Comic) error {
	repository.saves++
	if repository.saveErr != nil {
		return repository.saveErr
	}
	repository.comics = comics
	return nil
}

// newEmptyStore builds a store over an empty catalogue.
func newEmptyStore() (*comic.Store, *fakeRepository) {
	repository := &fakeRepository{comics: []*comic.Comic{}}
	store := comic.NewStore(context.Background(), repository,
		comic.WithClock(func() time.Time { return referenceNow }),
		comic.WithIDs(sequentialIDs()),
		comic.WithLogger(discard),
	)
	return store, repository
}

func ids(comics []*comic.Comic) []string {
	out := make([]string, len(comics))
	for i, c := range comics {
		out[i] = c.ID
	}
	return out
}

func countFlags(comics []*comic.Comic) (featured, trending int) {
	for _, c := range comics {
		if c.Featured {
			featured++
		}
		if c.Trending {
			trending++
		}
	}
	return featured, trending
}

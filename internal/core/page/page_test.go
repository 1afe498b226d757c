// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/page"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestStore_RoundTrip saves, loads and deletes one chapter artifact.
*/
func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := page.NewStore(backend, discard)

	images := page.BuildImages("popular-1", "168", []string{"https://cdn/a.webp", "https://cdn/b.webp"})
	require.Equal(t, []page.Image{
		{ID: "popular-1-168-1", URL: "https://cdn/a.webp", PageNumber: 1},
		{ID: "popular-1-168-2", URL: "https://cdn/b.webp", PageNumber: 2},
	}, images)

	require.NoError(t, store.Save(ctx, "popular-1", "168", images))

	raw, err := backend.Get(ctx, "chapter-popular-1-168-images")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"popular-1-168-1","url":"https://cdn/a.webp","pageNumber":1},{"id":"popular-1-168-2","url":"https://cdn/b.webp","pageNumber":2}]`, string(raw))

	loaded, err := store.Load(ctx, "popular-1", "168")
	require.NoError(t, err)
	assert.Equal(t, images, loaded)

	keys, err := store.Keys(ctx, "popular-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"chapter-popular-1-168-images"}, keys)

	require.NoError(t, store.Delete(ctx, "popular-1", "168"))
	loaded, err = store.Load(ctx, "popular-1", "168")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

/*
TestStore_MalformedReadsEmpty verifies a corrupt artifact does not fail the reader.
*/
func TestStore_MalformedReadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, page.ArtifactKey("magic-1", "43"), []byte(`{oops`)))

	images, err := page.NewStore(backend, discard).Load(ctx, "magic-1", "43")
	require.NoError(t, err)
	assert.Empty(t, images)
}

/*
TestIndex_UpsertRemove checks the reader index keeps one entry per id.
*/
func TestIndex_UpsertRemove(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	index := page.NewIndex(backend, discard)

	first := page.ReaderEntry{ID: "magic-1-44", Title: "44", Number: 44, SeriesID: "magic-1", SeriesTitle: "Land"}
	second := page.ReaderEntry{ID: "magic-1-45", Title: "Finale", Number: 45, SeriesID: "magic-1", SeriesTitle: "Land"}

	require.NoError(t, index.Upsert(ctx, first))
	require.NoError(t, index.Upsert(ctx, second))

	first.Title = "Renamed"
	require.NoError(t, index.Upsert(ctx, first))

	entries, err := index.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []page.ReaderEntry{second, first}, entries)

	require.NoError(t, index.Remove(ctx, "magic-1-45"))
	entries, err = index.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []page.ReaderEntry{first}, entries)
}

/*
TestIndex_MalformedIsRepaired verifies a corrupt index is replaced on write.
*/
func TestIndex_MalformedIsRepaired(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, "manga-chapters", []byte(`not json`)))

	index := page.NewIndex(backend, discard)
	entries, err := index.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, index.Remove(ctx, "anything"))
	raw, err := backend.Get(ctx, "manga-chapters")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

/*
TestIndex_RemoveSeries drops only the entries of one comic.
*/
func TestIndex_RemoveSeries(t *testing.T) {
	ctx := context.Background()
	index := page.NewIndex(storage.NewMemory(), discard)

	require.NoError(t, index.Upsert(ctx, page.ReaderEntry{ID: "a-1", Number: 1, SeriesID: "a"}))
	require.NoError(t, index.Upsert(ctx, page.ReaderEntry{ID: "a-2", Number: 2, SeriesID: "a"}))
	require.NoError(t, index.Upsert(ctx, page.ReaderEntry{ID: "b-1", Number: 1, SeriesID: "b"}))

	removed, err := index.RemoveSeries(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b-1", entries[0].ID)
}

/*
TestStore_DeleteSeries sweeps one comic's artifacts and spares comics whose
id extends it.
*/
func TestStore_DeleteSeries(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := page.NewStore(backend, discard)

	for _, number := range []string{"1", "01", "2.5"} {
		require.NoError(t, store.Save(ctx, "action-1", number, nil))
	}
	require.NoError(t, store.Save(ctx, "action-1-remastered", "3", nil))
	require.NoError(t, backend.Set(ctx, "chapter-action-1-notes", []byte(`{}`)))

	removed, err := store.DeleteSeries(ctx, "action-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	keys, err := backend.Keys(ctx, "chapter-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chapter-action-1-remastered-3-images", "chapter-action-1-notes"}, keys)
}

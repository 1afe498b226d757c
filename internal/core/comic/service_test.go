// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/core/page"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// newService wires a service over the fixture backend.
func newService(t *testing.T) (*comic.Service, *fixture, *page.Store, *page.Index) {
	t.Helper()

	f := newFixture(t)
	pages := page.NewStore(f.backend, discard)
	index := page.NewIndex(f.backend, discard)
	return comic.NewService(f.store, pages, index, discard), f, pages, index
}

/*
TestService_PublishAndRead publishes a chapter and opens it in the reader.
*/
func TestService_PublishAndRead(t *testing.T) {
	ctx := context.Background()
	service, f, pages, index := newService(t)

	chapterID, err := service.PublishChapter(ctx, "popular-1", comic.ChapterInput{
		Number: "168",
		Title:  "The Return",
		Pages:  []string{"https://cdn.example/1.webp", "https://cdn.example/2.webp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", chapterID)

	images, err := pages.Load(ctx, "popular-1", "168")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "popular-1-168-2", images[1].ID)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, page.ReaderEntry{
		ID:          "popular-1-168",
		Title:       "The Return",
		Number:      168,
		SeriesID:    "popular-1",
		SeriesTitle: "Swordmaster's Youngest Son",
	}, entries[0])

	reading, err := service.ReadChapter(ctx, "popular-1-168")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 168 - The Return", reading.Title)
	assert.Equal(t, images, reading.Images)
	require.NotNil(t, reading.Previous)
	assert.Equal(t, "167", reading.Previous.Number)
	assert.Nil(t, reading.Next)

	viewed, _ := f.store.GetComicByID("popular-1")
	assert.Equal(t, int64(150001), viewed.Views)
}

/*
TestService_ReadChapter_Errors covers malformed ids, unknown comics and
chapters that only exist as page artifacts.
*/
func TestService_ReadChapter_Errors(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newService(t)

	_, err := service.ReadChapter(ctx, "nohyphen")
	assert.ErrorIs(t, err, comic.ErrInvalidReaderID)

	_, err = service.ReadChapter(ctx, "missing-1")
	assert.ErrorIs(t, err, comic.ErrComicNotFound)

	reading, err := service.ReadChapter(ctx, "magic-1-99")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 99", reading.Title)
	assert.Empty(t, reading.Images)
	assert.Nil(t, reading.Chapter)
}

/*
TestService_PublishChapter_Rejects verifies nothing is written for bad input.
*/
func TestService_PublishChapter_Rejects(t *testing.T) {
	ctx := context.Background()
	service, f, _, index := newService(t)

	_, err := service.PublishChapter(ctx, "missing", comic.ChapterInput{Number: "1"})
	assert.ErrorIs(t, err, comic.ErrComicNotFound)

	_, err = service.PublishChapter(ctx, "magic-1", comic.ChapterInput{Number: "extra"})
	assert.ErrorIs(t, err, comic.ErrInvalidChapterNumber)

	keys, err := f.backend.Keys(ctx, "chapter-")
	require.NoError(t, err)
	assert.Empty(t, keys)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

/*
TestService_DeleteChapter removes the chapter, its artifact and its index entry.
*/
func TestService_DeleteChapter(t *testing.T) {
	ctx := context.Background()
	service, f, pages, index := newService(t)

	chapterID, err := service.PublishChapter(ctx, "magic-1", comic.ChapterInput{Number: "44", Pages: []string{"https://cdn.example/a.webp"}})
	require.NoError(t, err)

	require.NoError(t, service.DeleteChapter(ctx, "magic-1", chapterID))

	_, ok := f.store.FindChapterByNumber("magic-1", "44")
	assert.False(t, ok)

	images, err := pages.Load(ctx, "magic-1", "44")
	require.NoError(t, err)
	assert.Empty(t, images)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, service.DeleteChapter(ctx, "magic-1", chapterID), comic.ErrChapterNotFound)
}

/*
TestService_DeleteComic cascades into every chapter artifact, including ones
the catalogue no longer lists, and into each dependent store.
*/
func TestService_DeleteComic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pages := page.NewStore(f.backend, discard)
	index := page.NewIndex(f.backend, discard)
	dependent := &recordingDependent{}
	service := comic.NewService(f.store, pages, index, discard, comic.WithDependents(dependent))

	// An artifact left behind without a catalogue chapter.
	require.NoError(t, pages.Save(ctx, "magic-1", "99", page.BuildImages("magic-1", "99", []string{"https://cdn.example/o.webp"})))

	for _, number := range []string{"44", "45"} {
		_, err := service.PublishChapter(ctx, "magic-1", comic.ChapterInput{Number: number, Pages: []string{"https://cdn.example/p.webp"}})
		require.NoError(t, err)
	}
	_, err := service.PublishChapter(ctx, "popular-1", comic.ChapterInput{Number: "168", Pages: []string{"https://cdn.example/p.webp"}})
	require.NoError(t, err)

	require.NoError(t, service.DeleteComic(ctx, "magic-1"))

	_, ok := f.store.GetComicByID("magic-1")
	assert.False(t, ok)

	keys, err := pages.Keys(ctx, "magic-1")
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = pages.Keys(ctx, "popular-1")
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "popular-1", entries[0].SeriesID)
	assert.Equal(t, []string{"magic-1"}, dependent.purged)

	assert.ErrorIs(t, service.DeleteComic(ctx, "magic-1"), comic.ErrComicNotFound)
	assert.Equal(t, []string{"magic-1"}, dependent.purged)
}

/*
TestService_DeleteComic_DependentFailure verifies a failing dependent is
reported without stopping the others.
*/
func TestService_DeleteComic_DependentFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	failing := &recordingDependent{err: errors.New("backend down")}
	healthy := &recordingDependent{}
	service := comic.NewService(f.store, page.NewStore(f.backend, discard), page.NewIndex(f.backend, discard), discard,
		comic.WithDependents(failing, healthy))

	err := service.DeleteComic(ctx, "magic-1")
	assert.ErrorContains(t, err, "backend down")
	assert.Equal(t, []string{"magic-1"}, healthy.purged)

	_, ok := f.store.GetComicByID("magic-1")
	assert.False(t, ok)
}

// recordingDependent remembers every comic it was asked to purge.
type recordingDependent struct {
	purged []string
	err    error
}

func (dependent *recordingDependent) PurgeComic(_ context.Context, comicID string) error {
	dependent.purged = append(dependent.purged, comicID)
	return dependent.err
}

/*
TestService_ReadChapter_PaddedNumber verifies a chapter published as "01"
shows its pages when opened as "{comicId}-1".
*/
func TestService_ReadChapter_PaddedNumber(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newService(t)

	_, err := service.PublishChapter(ctx, "popular-1", comic.ChapterInput{
		Number: "01",
		Pages:  []string{"https://cdn.example/1.webp", "https://cdn.example/2.webp"},
	})
	require.NoError(t, err)

	reading, err := service.ReadChapter(ctx, "popular-1-1")
	require.NoError(t, err)
	require.NotNil(t, reading.Chapter)
	assert.Equal(t, "01", reading.Chapter.Number)
	assert.Len(t, reading.Images, 2)
}

// hookedBackend runs afterSet once a write to key has succeeded.
type hookedBackend struct {
	storage.Storage
	key      string
	afterSet func()
}

func (backend *hookedBackend) Set(context context.Context, key string, value []byte) error {
	if err := backend.Storage.Set(context, key, value); err != nil {
		return err
	}
	if key == backend.key && backend.afterSet != nil {
		backend.afterSet()
	}
	return nil
}

/*
TestService_PublishChapter_ComicRemovedMidway verifies the page artifact and
the reader entry are rolled back when the comic is deleted while the chapter
is being published.
*/
func TestService_PublishChapter_ComicRemovedMidway(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	hooked := &hookedBackend{Storage: f.backend, key: page.ArtifactKey("magic-1", "44")}
	hooked.afterSet = func() {
		_, err := f.store.DeleteComic(ctx, "magic-1")
		require.NoError(t, err)
	}
	index := page.NewIndex(f.backend, discard)
	service := comic.NewService(f.store, page.NewStore(hooked, discard), index, discard)

	_, err := service.PublishChapter(ctx, "magic-1", comic.ChapterInput{Number: "44", Pages: []string{"https://cdn.example/a.webp"}})
	assert.ErrorIs(t, err, comic.ErrComicNotFound)

	_, err = f.backend.Get(ctx, page.ArtifactKey("magic-1", "44"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := index.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

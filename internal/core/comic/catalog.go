// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/sakura/internal/platform/broadcast"
	"github.com/taibuivan/sakura/pkg/slice"
	"github.com/taibuivan/sakura/pkg/uuidv7"
)

// Change operations published by the [Store].
const (
	OpComicCreated   = "comic_created"
	OpComicUpdated   = "comic_updated"
	OpComicDeleted   = "comic_deleted"
	OpChapterAdded   = "chapter_added"
	OpChapterDeleted = "chapter_deleted"
	OpFeaturedSet    = "featured_set"
	OpTrendingSet    = "trending_set"
	OpViewsCounted   = "views_counted"
	OpCatalogReset   = "catalog_reset"
)

// # Store

// Store is the single source of truth for the catalogue.
//
// Every mutation runs under one lock and is followed by a full write through
// the [Repository]. When that write fails the in-memory change is kept, the
// failure is logged and returned.
type Store struct {
	mu     sync.RWMutex
	comics []*Comic

	repository Repository
	now        func() time.Time
	newID      uuidv7.Generator
	logger     *slog.Logger
	publisher  broadcast.Publisher[broadcast.Change]
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces the wall clock used for creation and publish times.
func WithClock(now func() time.Time) Option {
	return func(store *Store) { store.now = now }
}

// WithIDs replaces the id generator.
func WithIDs(next uuidv7.Generator) Option {
	return func(store *Store) { store.newID = next }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(store *Store) { store.logger = logger }
}

// WithPublisher receives a [broadcast.Change] after every committed mutation.
func WithPublisher(publisher broadcast.Publisher[broadcast.Change]) Option {
	return func(store *Store) { store.publisher = publisher }
}

/*
NewStore rehydrates the catalogue from repository.

Description: When the repository reports [ErrResetToDefaults] the built-in
catalogue is installed and written back. Any other load failure also shows
the built-in catalogue but leaves the backend untouched, so a temporarily
unreachable database is not overwritten.

Parameters:
  - context: context.Context
  - repository: Repository
  - options: ...Option

Returns:
  - *Store: Always usable
*/
func NewStore(context context.Context, repository Repository, options ...Option) *Store {
	store := &Store{
		repository: repository,
		now:        time.Now,
		newID:      uuidv7.New,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(store)
	}

	comics, err := repository.Load(context)
	switch {
	case err == nil:
		store.comics = dedupe(comics)

	case errors.Is(err, ErrResetToDefaults):
		store.logger.Warn("catalog_reset_to_defaults", slog.Any("reason", err))
		store.comics = mustDefaults(store.logger)
		if err := repository.Save(context, store.comics); err != nil {
			store.logger.Error("catalog_persist_failed", slog.Any("error", err))
		}

	default:
		store.logger.Error("catalog_load_failed", slog.Any("error", err))
		store.comics = mustDefaults(store.logger)
	}

	store.logger.Info("catalog_loaded", slog.Int("comics", len(store.comics)))
	return store
}

// mustDefaults returns the built-in catalogue, or an empty one if the
// embedded seed is broken.
func mustDefaults(logger *slog.Logger) []*Comic {
	comics, err := DefaultComics()
	if err != nil {
		logger.Error("catalog_seed_invalid", slog.Any("error", err))
		return []*Comic{}
	}
	return comics
}

// dedupe drops repeated comic ids, and repeated chapter ids within a comic,
// keeping the first occurrence.
func dedupe(comics []*Comic) []*Comic {
	unique := slice.UniqueBy(comics, func(comic *Comic) string { return comic.ID })
	if unique == nil {
		return []*Comic{}
	}
	for _, comic := range unique {
		comic.Chapters = slice.UniqueBy(comic.Chapters, func(chapter *Chapter) string { return chapter.ID })
		if comic.Chapters == nil {
			comic.Chapters = []*Chapter{}
		}
	}
	return unique
}

// # Mutations

/*
AddComic appends a new comic built from input.

Description: Assigns a fresh id, stamps CreatedAt and starts with no
chapters. A comic created as featured or trending takes the flag from
whichever comic held it.

Parameters:
  - context: context.Context
  - input: ComicInput

Returns:
  - string: The new comic id
  - error: Persistence failure (the comic is still added)
*/
func (store *Store) AddComic(context context.Context, input ComicInput) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comic := &Comic{
		ID:          store.newID(),
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Genres:      slices.Clone(input.Genres),
		Status:      input.Status,
		CoverImage:  input.CoverImage,
		Rating:      input.Rating,
		Views:       input.Views,
		CreatedAt:   store.now(),
		Featured:    input.Featured,
		Trending:    input.Trending,
		Tags:        slices.Clone(input.Tags),
		Chapters:    []*Chapter{},
	}

	store.comics = append(store.comics, comic)
	store.enforceSingleWinners(comic)

	return comic.ID, store.commit(context, OpComicCreated, comic.ID)
}

/*
UpdateComic shallow-merges patch into the comic with id.

Parameters:
  - context: context.Context
  - id: string
  - patch: ComicPatch

Returns:
  - error: ErrComicNotFound (state unchanged) or a persistence failure
*/
func (store *Store) UpdateComic(context context.Context, id string, patch ComicPatch) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	comic := store.find(id)
	if comic == nil {
		return ErrComicNotFound
	}

	patch.apply(comic)
	store.enforceSingleWinners(comic)

	return store.commit(context, OpComicUpdated, id)
}

/*
DeleteComic removes the comic with id.

Description: The removed comic is returned so the caller can clean up page
artifacts of every chapter. A missing id returns (nil, nil).

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comic: Snapshot of the removed comic, or nil
  - error: Persistence failure
*/
func (store *Store) DeleteComic(context context.Context, id string) (*Comic, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := slices.IndexFunc(store.comics, func(c *Comic) bool { return c.ID == id })
	if index < 0 {
		return nil, nil
	}

	removed := store.comics[index]
	store.comics = slices.Delete(store.comics, index, index+1)

	return removed.Clone(), store.commit(context, OpComicDeleted, id)
}

/*
AddChapter appends a chapter to the comic with comicID.

Description: An unknown comicID is a silent no-op returning an empty id.
The chapter gets a fresh id (never reused) and PublishedAt = now.

Parameters:
  - context: context.Context
  - comicID: string
  - input: ChapterInput

Returns:
  - string: The new chapter id, or "" when the comic does not exist
  - error: Persistence failure
*/
func (store *Store) AddChapter(context context.Context, comicID string, input ChapterInput) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comic := store.find(comicID)
	if comic == nil {
		store.logger.Debug("chapter_add_skipped", slog.String("comic_id", comicID))
		return "", nil
	}

	pages := slices.Clone(input.Pages)
	if pages == nil {
		pages = []string{}
	}

	chapter := &Chapter{
		ID:          store.newID(),
		ComicID:     comicID,
		Number:      input.Number,
		Title:       input.Title,
		Pages:       pages,
		PublishedAt: store.now(),
	}
	comic.Chapters = append(comic.Chapters, chapter)

	return chapter.ID, store.commit(context, OpChapterAdded, chapter.ID)
}

/*
DeleteChapter removes one chapter from its comic.

Description: The chapter, including its Number, is resolved before removal
and returned so the caller can delete the page artifact keyed by
"{comicId}-{number}". Unknown ids return (nil, nil).

Parameters:
  - context: context.Context
  - comicID: string
  - chapterID: string

Returns:
  - *Chapter: Snapshot of the removed chapter, or nil
  - error: Persistence failure
*/
func (store *Store) DeleteChapter(context context.Context, comicID, chapterID string) (*Chapter, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comic := store.find(comicID)
	if comic == nil {
		return nil, nil
	}

	index := slices.IndexFunc(comic.Chapters, func(ch *Chapter) bool { return ch.ID == chapterID })
	if index < 0 {
		return nil, nil
	}

	removed := comic.Chapters[index]
	comic.Chapters = slices.Delete(comic.Chapters, index, index+1)

	return removed.Clone(), store.commit(context, OpChapterDeleted, chapterID)
}

// SetFeaturedComic marks comicID as the only featured comic. An unknown id
// clears the flag everywhere.
func (store *Store) SetFeaturedComic(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, comic := range store.comics {
		comic.Featured = comic.ID == comicID
	}
	return store.commit(context, OpFeaturedSet, comicID)
}

// SetTrendingComic marks comicID as the only trending comic. An unknown id
// clears the flag everywhere.
func (store *Store) SetTrendingComic(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, comic := range store.comics {
		comic.Trending = comic.ID == comicID
	}
	return store.commit(context, OpTrendingSet, comicID)
}

// IncrementViews adds one to the view counter of comicID.
func (store *Store) IncrementViews(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	comic := store.find(comicID)
	if comic == nil {
		return ErrComicNotFound
	}
	comic.Views++

	return store.commit(context, OpViewsCounted, comicID)
}

// Replace swaps the whole catalogue, collapsing duplicate ids. sakuractl
// uses it to import a dataset.
func (store *Store) Replace(context context.Context, comics []*Comic) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	fresh := make([]*Comic, len(comics))
	for i, comic := range comics {
		fresh[i] = comic.Clone()
	}
	store.comics = dedupe(fresh)

	return store.commit(context, OpCatalogReset, "")
}

// # Reads

// GetComicByID returns a copy of the comic with id.
func (store *Store) GetComicByID(id string) (*Comic, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	comic := store.find(id)
	if comic == nil {
		return nil, false
	}
	return comic.Clone(), true
}

// Comics returns a copy of the whole catalogue in stored order.
func (store *Store) Comics() []*Comic {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return cloneAll(store.comics)
}

// Len returns the number of comics.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.comics)
}

// FindChapterByNumber resolves a chapter by normalized number.
func (store *Store) FindChapterByNumber(comicID, number string) (*Chapter, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	comic := store.find(comicID)
	if comic == nil {
		return nil, false
	}
	for _, chapter := range comic.Chapters {
		if SameChapterNumber(chapter.Number, number) {
			return chapter.Clone(), true
		}
	}
	return nil, false
}

// # Internals

// find returns the live comic with id. Callers must hold the lock.
func (store *Store) find(id string) *Comic {
	for _, comic := range store.comics {
		if comic.ID == id {
			return comic
		}
	}
	return nil
}

// enforceSingleWinners clears featured/trending on every other comic when
// winner holds the flag.
func (store *Store) enforceSingleWinners(winner *Comic) {
	for _, comic := range store.comics {
		if comic == winner {
			continue
		}
		if winner.Featured {
			comic.Featured = false
		}
		if winner.Trending {
			comic.Trending = false
		}
	}
}

// commit persists the catalogue and announces the change. Callers must hold
// the write lock.
func (store *Store) commit(context context.Context, op, id string) error {
	if store.publisher != nil {
		defer store.publisher.Publish(broadcast.Change{
			Store: broadcast.StoreContent,
			Op:    op,
			ID:    id,
			At:    store.now(),
		})
	}

	if err := store.repository.Save(context, store.comics); err != nil {
		store.logger.Error("catalog_persist_failed",
			slog.String("op", op),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return fmt.Errorf("comic_persist_failed: %w", err)
	}

	store.logger.Debug(op, slog.String("id", id))
	return nil
}

func cloneAll(comics []*Comic) []*Comic {
	clones := make([]*Comic, len(comics))
	for i, comic := range comics {
		clones[i] = comic.Clone()
	}
	return clones
}

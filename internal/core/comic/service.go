// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/sakura/internal/core/page"
)

// # Service Layer

// Service orchestrates the catalogue [Store] and the page artifacts that live
// outside it. Deleting through the Service never leaves orphaned pages.
type Service struct {
	store      *Store
	pages      *page.Store
	index      *page.Index
	dependents []Dependent
	logger     *slog.Logger
}

// Dependent keeps data keyed by comic id outside the catalogue and drops it
// when the comic is deleted.
type Dependent interface {
	PurgeComic(context context.Context, comicID string) error
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithDependents registers stores purged in the same call that deletes a comic.
func WithDependents(dependents ...Dependent) ServiceOption {
	return func(service *Service) { service.dependents = append(service.dependents, dependents...) }
}

// NewService constructs a new [Service].
func NewService(store *Store, pages *page.Store, index *page.Index, logger *slog.Logger, options ...ServiceOption) *Service {
	service := &Service{store: store, pages: pages, index: index, logger: logger}
	for _, option := range options {
		option(service)
	}
	return service
}

// Store exposes the catalogue for read paths.
func (service *Service) Store() *Store {
	return service.store
}

// Reading is everything the chapter reader renders.
type Reading struct {
	ReaderID string       `json:"readerId"`
	Comic    *Comic       `json:"comic"`
	Number   string       `json:"number"`
	Title    string       `json:"title"`
	Chapter  *Chapter     `json:"chapter,omitempty"`
	Images   []page.Image `json:"images"`
	Previous *Chapter     `json:"previous,omitempty"`
	Next     *Chapter     `json:"next,omitempty"`
}

/*
DeleteComic removes a comic and every page artifact stored under its id.

Description: The store delete runs first. The artifact sweep goes by key
rather than by the removed chapter list, so pages of chapters that never
reached the catalogue go too. Every [Dependent] is purged before returning.
Cleanup failures are joined and returned after the comic is already gone.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: ErrComicNotFound, persistence or cleanup failures
*/
func (service *Service) DeleteComic(context context.Context, id string) error {
	removed, err := service.store.DeleteComic(context, id)
	if removed == nil && err == nil {
		return ErrComicNotFound
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	if removed != nil {
		artifacts, err := service.pages.DeleteSeries(context, id)
		if err != nil {
			errs = append(errs, err)
		}
		if _, err := service.index.RemoveSeries(context, id); err != nil {
			errs = append(errs, err)
		}
		for _, dependent := range service.dependents {
			if err := dependent.PurgeComic(context, id); err != nil {
				service.logger.Error("comic_dependent_purge_failed", slog.String("comic_id", id), slog.Any("error", err))
				errs = append(errs, err)
			}
		}

		service.logger.Info("comic_deleted",
			slog.String("comic_id", id),
			slog.Int("chapters", len(removed.Chapters)),
			slog.Int("artifacts", artifacts),
		)
	}

	return errors.Join(errs...)
}

/*
DeleteChapter removes one chapter and its page artifact.

Parameters:
  - context: context.Context
  - comicID: string
  - chapterID: string

Returns:
  - error: ErrChapterNotFound, persistence or cleanup failures
*/
func (service *Service) DeleteChapter(context context.Context, comicID, chapterID string) error {
	removed, err := service.store.DeleteChapter(context, comicID, chapterID)
	if removed == nil && err == nil {
		return ErrChapterNotFound
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	if removed != nil {
		if err := service.pages.Delete(context, comicID, removed.Number); err != nil {
			errs = append(errs, err)
		}
		if err := service.index.Remove(context, ReaderID(comicID, removed.Number)); err != nil {
			errs = append(errs, err)
		}

		service.logger.Info("chapter_deleted",
			slog.String("comic_id", comicID),
			slog.String("chapter_id", chapterID),
			slog.String("number", removed.Number),
		)
	}

	return errors.Join(errs...)
}

/*
PublishChapter is the admin chapter editor flow.

Description: Writes the page artifact ("{comicId}-{number}-{n}" ids), lists
the chapter in the reader index, then appends it to the catalogue. If the
comic disappears before the append, the artifact and index entry are rolled
back. A persistence failure on the append keeps them: the chapter is already
live in memory and the reader needs its pages.

Parameters:
  - context: context.Context
  - comicID: string
  - input: ChapterInput

Returns:
  - string: The new chapter id
  - error: ErrComicNotFound, ErrInvalidChapterNumber or persistence failures
*/
func (service *Service) PublishChapter(context context.Context, comicID string, input ChapterInput) (string, error) {
	comic, ok := service.store.GetComicByID(comicID)
	if !ok {
		return "", ErrComicNotFound
	}

	number, err := NormalizeChapterNumber(input.Number)
	if err != nil {
		return "", err
	}

	images := page.BuildImages(comicID, input.Number, input.Pages)
	if err := service.pages.Save(context, comicID, input.Number, images); err != nil {
		return "", err
	}

	title := input.Title
	if title == "" {
		title = input.Number
	}

	entry := page.ReaderEntry{
		ID:          ReaderID(comicID, input.Number),
		Title:       title,
		Number:      number,
		SeriesID:    comicID,
		SeriesTitle: comic.Title,
	}
	if err := service.index.Upsert(context, entry); err != nil {
		return "", err
	}

	chapterID, err := service.store.AddChapter(context, comicID, input)
	if err != nil {
		return chapterID, err
	}
	if chapterID == "" {
		return "", errors.Join(ErrComicNotFound, service.rollbackPublish(context, comicID, input.Number, entry.ID))
	}

	service.logger.Info("chapter_published",
		slog.String("comic_id", comicID),
		slog.String("chapter_id", chapterID),
		slog.Int("pages", len(images)),
	)
	return chapterID, nil
}

/*
ReadChapter resolves a reader id into the reader payload.

Description: The comic must exist; the chapter itself may only exist as a
page artifact. Every successful read counts one view.

Parameters:
  - context: context.Context
  - readerID: string ("{comicId}-{number}")

Returns:
  - *Reading: Chapter, pages and navigation
  - error: ErrInvalidReaderID, ErrComicNotFound or backend failures
*/
func (service *Service) ReadChapter(context context.Context, readerID string) (*Reading, error) {
	comicID, number, err := ParseReaderID(readerID)
	if err != nil {
		return nil, err
	}

	comic, ok := service.store.GetComicByID(comicID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComicNotFound, comicID)
	}

	reading := &Reading{
		ReaderID: readerID,
		Comic:    comic,
		Number:   number,
		Title:    "Chapter " + number,
	}

	// The artifact is keyed by the number as published ("01"), which may differ
	// from the one in the reader id ("1").
	artifactNumber := number
	if chapter, found := service.store.FindChapterByNumber(comicID, number); found {
		reading.Chapter = chapter
		artifactNumber = chapter.Number
		if chapter.Title != "" {
			reading.Title = fmt.Sprintf("Chapter %s - %s", number, chapter.Title)
		}
	}

	images, err := service.pages.Load(context, comicID, artifactNumber)
	if err != nil {
		return nil, err
	}
	reading.Images = images
	reading.Previous, reading.Next = service.store.ChapterNeighbours(comicID, number)

	if err := service.store.IncrementViews(context, comicID); err != nil {
		service.logger.Warn("views_increment_failed", slog.String("comic_id", comicID), slog.Any("error", err))
	}

	return reading, nil
}

// rollbackPublish removes what PublishChapter wrote before the catalogue
// refused the chapter.
func (service *Service) rollbackPublish(context context.Context, comicID, number, readerID string) error {
	service.logger.Warn("chapter_publish_rolled_back",
		slog.String("comic_id", comicID),
		slog.String("number", number),
	)
	return errors.Join(
		service.pages.Delete(context, comicID, number),
		service.index.Remove(context, readerID),
	)
}

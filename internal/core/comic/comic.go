// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comic owns the Sakura catalogue: comics, their chapters and the views
derived from them.

Core Responsibility:

  - Store: the in-memory catalogue, written through a [Repository] on every mutation.
  - Views: featured, popular, latest updates and period rankings, recomputed per read.
  - Service: cascades into page artifacts when comics or chapters go away.

The JSON field names match what the web client always wrote, so existing
exports load without conversion.
*/
package comic

import (
	"errors"
	"slices"
	"time"

	"github.com/taibuivan/sakura/pkg/pointer"
	"github.com/taibuivan/sakura/pkg/slug"
)

// # Domain Enums

// Status represents the publication status of a comic.
type Status string

const (
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusHiatus    Status = "Hiatus"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// # Domain Errors

var (
	// ErrComicNotFound is returned by mutations addressing an unknown comic.
	ErrComicNotFound = errors.New("comic: not found")

	// ErrChapterNotFound is returned when a chapter cannot be resolved.
	ErrChapterNotFound = errors.New("comic: chapter not found")

	// ErrInvalidChapterNumber is returned when a chapter number has no leading integer.
	ErrInvalidChapterNumber = errors.New("comic: invalid chapter number")

	// ErrInvalidReaderID is returned for reader ids without a "{comicId}-{number}" shape.
	ErrInvalidReaderID = errors.New("comic: invalid reader id")

	// ErrResetToDefaults is reported by a [Repository] when persisted data is
	// missing, from another schema version, or unreadable.
	ErrResetToDefaults = errors.New("comic: persisted catalogue unusable, reset to defaults")
)

// # Core Entities

// Comic is a single catalogue entry and the owner of its chapters.
type Comic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	Genres      []string   `json:"genres"`
	Status      Status     `json:"status"`
	CoverImage  string     `json:"coverImage"`
	Chapters    []*Chapter `json:"chapters"`
	Rating      float64    `json:"rating"`
	Views       int64      `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	Featured    bool       `json:"featured"`
	Trending    bool       `json:"trending"`

	// Tags holds classification labels; the first one is the displayed badge.
	Tags []string `json:"tags"`
}

// Chapter is one release of a comic.
type Chapter struct {
	ID      string `json:"id"`
	ComicID string `json:"comicId"`

	// Number is free text ("12", "012", "12.5"); compare with [NormalizeChapterNumber].
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Pages       []string  `json:"pages"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Badge returns the displayed type label, or "" without tags.
func (c *Comic) Badge() string {
	if len(c.Tags) == 0 {
		return ""
	}
	return c.Tags[0]
}

// Slug returns the URL slug of the title.
func (c *Comic) Slug() string {
	return slug.From(c.Title)
}

// HasGenre reports whether genre is one of the comic's genres.
func (c *Comic) HasGenre(genre string) bool {
	return slices.Contains(c.Genres, genre)
}

// LatestChapterAt returns the newest publish time, or the zero time when the
// comic has no chapters.
func (c *Comic) LatestChapterAt() time.Time {
	var latest time.Time
	for _, chapter := range c.Chapters {
		if chapter.PublishedAt.After(latest) {
			latest = chapter.PublishedAt
		}
	}
	return latest
}

// Clone returns a deep copy that shares no slices with c.
func (c *Comic) Clone() *Comic {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Genres = slices.Clone(c.Genres)
	clone.Tags = slices.Clone(c.Tags)
	clone.Chapters = make([]*Chapter, len(c.Chapters))
	for i, chapter := range c.Chapters {
		clone.Chapters[i] = chapter.Clone()
	}
	return &clone
}

// Clone returns a deep copy of the chapter.
func (ch *Chapter) Clone() *Chapter {
	if ch == nil {
		return nil
	}
	clone := *ch
	clone.Pages = slices.Clone(ch.Pages)
	return &clone
}

// # Inputs

// ComicInput carries every attribute a new comic can be created with. The id,
// creation time and chapter list are assigned by the store.
type ComicInput struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Status      Status   `json:"status"`
	CoverImage  string   `json:"coverImage"`
	Rating      float64  `json:"rating"`
	Views       int64    `json:"views"`
	Featured    bool     `json:"featured"`
	Trending    bool     `json:"trending"`
	Tags        []string `json:"tags"`
}

// ComicPatch is a shallow partial update. Nil fields are left untouched; the
// id, creation time and chapters have no field here and cannot be patched.
type ComicPatch struct {
	Title       *string   `json:"title,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genres      *[]string `json:"genres,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Views       *int64    `json:"views,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
	Trending    *bool     `json:"trending,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// apply merges the non-nil fields of patch into comic.
func (patch ComicPatch) apply(comic *Comic) {
	comic.Title = pointer.Fallback(patch.Title, comic.Title)
	comic.Author = pointer.Fallback(patch.Author, comic.Author)
	comic.Description = pointer.Fallback(patch.Description, comic.Description)
	comic.Status = pointer.Fallback(patch.Status, comic.Status)
	comic.CoverImage = pointer.Fallback(patch.CoverImage, comic.CoverImage)
	comic.Rating = pointer.Fallback(patch.Rating, comic.Rating)
	comic.Views = pointer.Fallback(patch.Views, comic.Views)
	comic.Featured = pointer.Fallback(patch.Featured, comic.Featured)
	comic.Trending = pointer.Fallback(patch.Trending, comic.Trending)

	if patch.Genres != nil {
		comic.Genres = slices.Clone(*patch.Genres)
	}
	if patch.Tags != nil {
		comic.Tags = slices.Clone(*patch.Tags)
	}
}

// ChapterInput carries the attributes of a new chapter. The id and publish
// time are assigned by the store.
type ChapterInput struct {
	Number string   `json:"number"`
	Title  string   `json:"title"`
	Pages  []string `json:"pages"`
}

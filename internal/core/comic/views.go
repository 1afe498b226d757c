// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"cmp"
	"slices"
	"time"

	"github.com/taibuivan/sakura/pkg/slice"
)

// Caps of the derived views.
const (
	PopularLimit        = 8
	LatestPerComicLimit = 3
	LatestLimit         = 10
	PeriodRankingLimit  = 10
	weeklyWindow        = 7 * 24 * time.Hour
	monthlyWindow       = 30 * 24 * time.Hour
)

// Update pairs a comic with its most recent chapters.
type Update struct {
	Comic    *Comic     `json:"comic"`
	Chapters []*Chapter `json:"chapters"`
}

// Period selects the window of a popularity ranking.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// IsValid reports whether p is a known [Period].
func (p Period) IsValid() bool {
	switch p {
	case PeriodAll, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// RankedComic is one row of a popularity ranking.
type RankedComic struct {
	Rank  int    `json:"rank"`
	Comic *Comic `json:"comic"`
}

// # Derived Views

// FeaturedComic returns the first featured comic, else the first comic, else nil.
func (store *Store) FeaturedComic() *Comic {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, comic := range store.comics {
		if comic.Featured {
			return comic.Clone()
		}
	}
	if len(store.comics) > 0 {
		return store.comics[0].Clone()
	}
	return nil
}

// PopularComics returns non-featured comics by rating, highest first, capped
// at [PopularLimit].
func (store *Store) PopularComics() []*Comic {
	comics := slice.Filter(store.Comics(), func(c *Comic) bool { return !c.Featured })
	comics = dedupe(comics)

	slices.SortStableFunc(comics, func(a, b *Comic) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	return capped(comics, PopularLimit)
}

// LatestUpdates returns comics with at least one chapter, each with its
// newest chapters, ordered by newest chapter first.
func (store *Store) LatestUpdates() []Update {
	comics := dedupe(slice.Filter(store.Comics(), func(c *Comic) bool { return len(c.Chapters) > 0 }))

	updates := slice.Map(comics, func(c *Comic) Update {
		chapters := slices.Clone(c.Chapters)
		slices.SortStableFunc(chapters, func(a, b *Chapter) int {
			return b.PublishedAt.Compare(a.PublishedAt)
		})
		return Update{Comic: c, Chapters: capped(chapters, LatestPerComicLimit)}
	})

	slices.SortStableFunc(updates, func(a, b Update) int {
		return b.Chapters[0].PublishedAt.Compare(a.Chapters[0].PublishedAt)
	})

	return capped(updates, LatestLimit)
}

// PopularByPeriod ranks comics by rating. Weekly and monthly rankings only
// consider comics with a chapter published in the last 7 or 30 days.
func (store *Store) PopularByPeriod(period Period) []RankedComic {
	comics := store.Comics()

	var window time.Duration
	switch period {
	case PeriodWeekly:
		window = weeklyWindow
	case PeriodMonthly:
		window = monthlyWindow
	}

	if window > 0 {
		cutoff := store.now().Add(-window)
		comics = slice.Filter(comics, func(c *Comic) bool {
			return slices.ContainsFunc(c.Chapters, func(ch *Chapter) bool {
				return !ch.PublishedAt.Before(cutoff)
			})
		})
	}

	slices.SortStableFunc(comics, func(a, b *Comic) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	ranked := make([]RankedComic, 0, min(len(comics), PeriodRankingLimit))
	for i, comic := range capped(comics, PeriodRankingLimit) {
		ranked = append(ranked, RankedComic{Rank: i + 1, Comic: comic})
	}
	return ranked
}

// Genres returns the sorted distinct genres across the catalogue.
func (store *Store) Genres() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()

	genres := []string{}
	for _, comic := range store.comics {
		genres = append(genres, comic.Genres...)
	}
	slices.Sort(genres)
	return slices.Compact(genres)
}

// ChapterNeighbours returns the chapters before and after number in story
// order (normalized number ascending). Either may be nil.
func (store *Store) ChapterNeighbours(comicID, number string) (previous, next *Chapter) {
	comic, ok := store.GetComicByID(comicID)
	if !ok {
		return nil, nil
	}

	target, err := NormalizeChapterNumber(number)
	if err != nil {
		return nil, nil
	}

	for _, chapter := range comic.Chapters {
		value, err := NormalizeChapterNumber(chapter.Number)
		if err != nil {
			continue
		}
		if value < target && (previous == nil || value > mustNormalize(previous.Number)) {
			previous = chapter
		}
		if value > target && (next == nil || value < mustNormalize(next.Number)) {
			next = chapter
		}
	}
	return previous, next
}

// mustNormalize is only called on numbers that already normalized.
func mustNormalize(number string) int {
	value, _ := NormalizeChapterNumber(number)
	return value
}

func capped[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/sakura/pkg/slice"
	"github.com/taibuivan/sakura/pkg/slug"
)

// # Search Criteria

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortTitle     SortKey = "title"
	SortLatest    SortKey = "latest"
	SortViews     SortKey = "views"
	SortNewest    SortKey = "newest"
)

// Order flips the natural direction of a [SortKey]. "desc" keeps it (highest
// score, newest, A to Z for titles); "asc" reverses it.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// Relevance weights, highest matching field wins.
const (
	relevanceTitle  = 3
	relevanceAuthor = 2
	relevanceGenre  = 1
)

// Query describes a catalogue search. Zero values disable a filter.
type Query struct {
	// Text matches title, author, description and genres, ignoring case and accents.
	Text string

	// Genres keeps comics having any of the listed genres.
	Genres []string

	// Statuses keeps comics in any of the listed statuses.
	Statuses []Status

	// Types keeps comics whose tags include any of these labels, ignoring case.
	Types []string

	// MinRating keeps comics rated at least this much.
	MinRating float64

	Sort  SortKey
	Order Order
}

// Search filters and sorts a copy of the catalogue.
func (store *Store) Search(query Query) []*Comic {
	needle := slug.Fold(strings.TrimSpace(query.Text))

	results := slice.Filter(store.Comics(), func(c *Comic) bool {
		return matchesText(c, needle) &&
			matchesGenres(c, query.Genres) &&
			matchesStatuses(c, query.Statuses) &&
			matchesTypes(c, query.Types) &&
			c.Rating >= query.MinRating
	})
	if results == nil {
		return []*Comic{}
	}

	compare := comparator(query.Sort, needle)
	slices.SortStableFunc(results, func(a, b *Comic) int {
		if query.Order == OrderAsc {
			return compare(b, a)
		}
		return compare(a, b)
	})

	return results
}

// Relevance scores how well comic matches the folded needle.
func Relevance(comic *Comic, needle string) int {
	if needle == "" {
		return 0
	}
	switch {
	case strings.Contains(slug.Fold(comic.Title), needle):
		return relevanceTitle
	case strings.Contains(slug.Fold(comic.Author), needle):
		return relevanceAuthor
	case slices.ContainsFunc(comic.Genres, func(g string) bool { return strings.Contains(slug.Fold(g), needle) }):
		return relevanceGenre
	}
	return 0
}

// comparator returns the natural-order comparison for key.
func comparator(key SortKey, needle string) func(a, b *Comic) int {
	switch key {
	case SortRating:
		return func(a, b *Comic) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortTitle:
		collator := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
		return func(a, b *Comic) int { return collator.CompareString(a.Title, b.Title) }
	case SortLatest:
		return func(a, b *Comic) int { return b.LatestChapterAt().Compare(a.LatestChapterAt()) }
	case SortViews:
		return func(a, b *Comic) int { return cmp.Compare(b.Views, a.Views) }
	case SortNewest:
		return func(a, b *Comic) int { return b.CreatedAt.Compare(a.CreatedAt) }
	default:
		return func(a, b *Comic) int { return cmp.Compare(Relevance(b, needle), Relevance(a, needle)) }
	}
}

func matchesText(comic *Comic, needle string) bool {
	if needle == "" {
		return true
	}
	if Relevance(comic, needle) > 0 {
		return true
	}
	return strings.Contains(slug.Fold(comic.Description), needle)
}

func matchesGenres(comic *Comic, genres []string) bool {
	return len(genres) == 0 || slices.ContainsFunc(genres, comic.HasGenre)
}

func matchesStatuses(comic *Comic, statuses []Status) bool {
	return len(statuses) == 0 || slices.Contains(statuses, comic.Status)
}

func matchesTypes(comic *Comic, types []string) bool {
	if len(types) == 0 {
		return true
	}
	return slices.ContainsFunc(comic.Tags, func(tag string) bool {
		return slices.ContainsFunc(types, func(t string) bool { return strings.EqualFold(t, tag) })
	})
}

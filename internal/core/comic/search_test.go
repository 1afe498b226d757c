// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/comic"
)

/*
TestSearch_Filters runs each filter against the built-in catalogue.
*/
func TestSearch_Filters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		query comic.Query
		want  []string
	}{
		{"no filters", comic.Query{}, []string{"popular-1", "popular-2", "featured-1", "action-1", "magic-1"}},
		{"title text", comic.Query{Text: "sword"}, []string{"popular-1", "popular-2"}},
		{"accents and case", comic.Query{Text: "SWÖRD"}, []string{"popular-1", "popular-2"}},
		{"author text", comic.Query{Text: "magic works"}, []string{"magic-1"}},
		{"description text", comic.Query{Text: "money maniac"}, []string{"featured-1"}},
		{"genre", comic.Query{Genres: []string{"School", "Magic"}}, []string{"popular-2", "magic-1"}},
		{"status", comic.Query{Statuses: []comic.Status{comic.StatusCompleted}}, []string{}},
		{"type ignores case", comic.Query{Types: []string{"manhwa"}}, []string{"popular-1", "popular-2", "featured-1", "action-1", "magic-1"}},
		{"unknown type", comic.Query{Types: []string{"Manga"}}, []string{}},
		{"min rating", comic.Query{MinRating: 9.6}, []string{"popular-1", "action-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.store.Search(tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

/*
TestSearch_Sort verifies each sort key in both directions.
*/
func TestSearch_Sort(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		query comic.Query
		want  []string
	}{
		{"relevance", comic.Query{Text: "action", Sort: comic.SortRelevance}, []string{"action-1", "popular-1", "popular-2", "featured-1", "magic-1"}},
		{"rating", comic.Query{Sort: comic.SortRating}, []string{"popular-1", "action-1", "popular-2", "magic-1", "featured-1"}},
		{"rating asc", comic.Query{Sort: comic.SortRating, Order: comic.OrderAsc}, []string{"featured-1", "magic-1", "popular-2", "action-1", "popular-1"}},
		{"views", comic.Query{Sort: comic.SortViews}, []string{"featured-1", "action-1", "magic-1", "popular-1", "popular-2"}},
		{"latest", comic.Query{Sort: comic.SortLatest}, []string{"featured-1", "action-1", "popular-1", "magic-1", "popular-2"}},
		{"newest", comic.Query{Sort: comic.SortNewest}, []string{"magic-1", "action-1", "featured-1", "popular-2", "popular-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(f.store.Search(tt.query)))
		})
	}
}

/*
TestSearch_TitleCollation verifies titles sort A to Z ignoring case and accents.
*/
func TestSearch_TitleCollation(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore()

	for _, title := range []string{"banana", "Éclair", "Apple"} {
		_, err := store.AddComic(ctx, comic.ComicInput{Title: title})
		require.NoError(t, err)
	}

	titles := func(comics []*comic.Comic) []string {
		out := make([]string, len(comics))
		for i, c := range comics {
			out[i] = c.Title
		}
		return out
	}

	assert.Equal(t, []string{"Apple", "banana", "Éclair"}, titles(store.Search(comic.Query{Sort: comic.SortTitle})))
	assert.Equal(t, []string{"Éclair", "banana", "Apple"}, titles(store.Search(comic.Query{Sort: comic.SortTitle, Order: comic.OrderAsc})))
}

/*
TestRelevance verifies the field weights.
*/
func TestRelevance(t *testing.T) {
	subject := &comic.Comic{Title: "Night Watch", Author: "Moon Press", Genres: []string{"Horror"}}

	assert.Equal(t, 3, comic.Relevance(subject, "night"))
	assert.Equal(t, 2, comic.Relevance(subject, "moon"))
	assert.Equal(t, 1, comic.Relevance(subject, "horror"))
	assert.Equal(t, 0, comic.Relevance(subject, "comedy"))
	assert.Equal(t, 0, comic.Relevance(subject, ""))
}

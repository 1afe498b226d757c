// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/comic"
)

/*
TestFeaturedComic covers the flagged, fallback and empty cases.
*/
func TestFeaturedComic(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "featured-1", f.store.FeaturedComic().ID)

	require.NoError(t, f.store.SetFeaturedComic(context.Background(), ""))
	assert.Equal(t, "popular-1", f.store.FeaturedComic().ID)

	empty, _ := newEmptyStore()
	assert.Nil(t, empty.FeaturedComic())
}

/*
TestPopularComics verifies ordering, the featured exclusion and the cap.
*/
func TestPopularComics(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"popular-1", "action-1", "popular-2", "magic-1"}, ids(f.store.PopularComics()))

	for i := range 10 {
		_, err := f.store.AddComic(context.Background(), comic.ComicInput{Title: fmt.Sprintf("Filler %d", i), Rating: 1})
		require.NoError(t, err)
	}
	assert.Len(t, f.store.PopularComics(), comic.PopularLimit)
}

/*
TestLatestUpdates verifies ordering by newest chapter and the per-comic cap.
*/
func TestLatestUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.store.AddComic(ctx, comic.ComicInput{Title: "No chapters yet"})
	require.NoError(t, err)

	updates := f.store.LatestUpdates()
	got := make([]string, len(updates))
	for i, update := range updates {
		got[i] = update.Comic.ID
		assert.LessOrEqual(t, len(update.Chapters), comic.LatestPerComicLimit)
	}
	assert.Equal(t, []string{"featured-1", "action-1", "popular-1", "magic-1", "popular-2"}, got)

	// A new chapter moves its comic to the front.
	_, err = f.store.AddChapter(ctx, "popular-2", comic.ChapterInput{Number: "110"})
	require.NoError(t, err)

	updates = f.store.LatestUpdates()
	assert.Equal(t, "popular-2", updates[0].Comic.ID)
	assert.Equal(t, "110", updates[0].Chapters[0].Number)
	assert.Len(t, updates[0].Chapters, comic.LatestPerComicLimit)
}

/*
TestPopularByPeriod verifies ranks and the publish windows.
*/
func TestPopularByPeriod(t *testing.T) {
	f := newFixture(t)

	all := f.store.PopularByPeriod(comic.PeriodAll)
	require.Len(t, all, 5)
	assert.Equal(t, 1, all[0].Rank)
	assert.Equal(t, "popular-1", all[0].Comic.ID)
	assert.Equal(t, "featured-1", all[4].Comic.ID)

	// Ten days later the newest chapter is older than a week.
	f.now = referenceNow.Add(10 * 24 * time.Hour)
	assert.Empty(t, f.store.PopularByPeriod(comic.PeriodWeekly))
	assert.Len(t, f.store.PopularByPeriod(comic.PeriodMonthly), 5)
	assert.Len(t, f.store.PopularByPeriod(comic.PeriodAll), 5)
}

/*
TestGenres verifies the distinct sorted list.
*/
func TestGenres(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"Action", "Adventure", "Fantasy", "Genius MC", "Magic", "School"}, f.store.Genres())

	empty, _ := newEmptyStore()
	assert.NotNil(t, empty.Genres())
	assert.Empty(t, empty.Genres())
}

/*
TestChapterNeighbours verifies navigation by normalized number.
*/
func TestChapterNeighbours(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		number   string
		previous string
		next     string
	}{
		{"166", "165", "167"},
		{"0166", "165", "167"},
		{"165", "", "166"},
		{"167", "166", ""},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			previous, next := f.store.ChapterNeighbours("popular-1", tt.number)
			assert.Equal(t, tt.previous, numberOf(previous))
			assert.Equal(t, tt.next, numberOf(next))
		})
	}
}

func numberOf(chapter *comic.Chapter) string {
	if chapter == nil {
		return ""
	}
	return chapter.Number
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/core/comic"
)

/*
TestDefaultComics verifies the built-in catalogue is well formed.
*/
func TestDefaultComics(t *testing.T) {
	comics, err := comic.DefaultComics()
	require.NoError(t, err)
	require.Len(t, comics, 5)

	featured, trending := countFlags(comics)
	assert.Equal(t, 1, featured)
	assert.Equal(t, 1, trending)

	for _, c := range comics {
		assert.True(t, c.Status.IsValid(), c.ID)
		assert.NotEmpty(t, c.Chapters, c.ID)
		for _, chapter := range c.Chapters {
			assert.Equal(t, c.ID, chapter.ComicID)
			assert.False(t, chapter.PublishedAt.IsZero())
		}
	}

	// Each call hands out independent values.
	again, err := comic.DefaultComics()
	require.NoError(t, err)
	comics[0].Title = "changed"
	assert.NotEqual(t, comics[0].Title, again[0].Title)
}

/*
TestParseSeed_Errors verifies malformed documents are rejected.
*/
func TestParseSeed_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "comics: [",
		"bad createdAt": "comics:\n  - id: x\n    createdAt: yesterday\n",
		"bad publishedAt": "comics:\n  - id: x\n    createdAt: \"2024-01-01T00:00:00Z\"\n" +
			"    chapters:\n      - { id: c, number: \"1\", publishedAt: soon }\n",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := comic.ParseSeed([]byte(raw))
			assert.Error(t, err)
		})
	}
}

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
TestNormalizeChapterNumber verifies leading-integer parsing.
*/
func TestNormalizeChapterNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"01", 1, false},
		{"1.5", 1, false},
		{" 12 ", 12, false},
		{"12abc", 12, false},
		{"-3", -3, false},
		{"+4", 4, false},
		{"abc", 0, true},
		{"", 0, true},
		{"-", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := comic.NormalizeChapterNumber(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, comic.ErrInvalidChapterNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestSameChapterNumber verifies normalized and raw comparisons.
*/
func TestSameChapterNumber(t *testing.T) {
	assert.True(t, comic.SameChapterNumber("01", "1"))
	assert.True(t, comic.SameChapterNumber("1.5", "1"))
	assert.False(t, comic.SameChapterNumber("2", "1"))
	assert.True(t, comic.SameChapterNumber("extra", "extra"))
	assert.False(t, comic.SameChapterNumber("extra", "special"))
}

/*
TestParseReaderID verifies splitting on the last hyphen.
*/
func TestParseReaderID(t *testing.T) {
	tests := []struct {
		input      string
		wantComic  string
		wantNumber string
		wantErr    bool
	}{
		{"popular-1-167", "popular-1", "167", false},
		{"abc-12", "abc", "12", false},
		{"abc", "", "", true},
		{"-5", "", "", true},
		{"abc-", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			comicID, number, err := comic.ParseReaderID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, comic.ErrInvalidReaderID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantComic, comicID)
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.input, comic.ReaderID(comicID, number))
		})
	}
}

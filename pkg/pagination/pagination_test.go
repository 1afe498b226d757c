// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sakura/pkg/pagination"
)

/*
TestFromRequest checks parsing and clamping of page and limit.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"?page=-1&limit=500", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=abc", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/comics"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

/*
TestSlice checks windows at the start, middle and past the end.
*/
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, pagination.Slice(items, pagination.Params{Page: 1, Limit: 2}))
	assert.Equal(t, []int{5}, pagination.Slice(items, pagination.Params{Page: 3, Limit: 2}))
	assert.Empty(t, pagination.Slice(items, pagination.Params{Page: 4, Limit: 2}))

	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, pagination.NewMeta(2, 2, 5))
}

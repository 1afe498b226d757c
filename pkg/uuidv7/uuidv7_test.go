// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuidv7_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sakura/pkg/uuidv7"
)

/*
TestNew_Unique checks ids are valid, distinct and time ordered.
*/
func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	previous := ""

	for range 100 {
		id := uuidv7.New()
		assert.True(t, uuidv7.Valid(id))
		assert.False(t, seen[id])
		assert.GreaterOrEqual(t, id, previous)

		seen[id] = true
		previous = id
	}

	assert.False(t, uuidv7.Valid("popular-1"))
}

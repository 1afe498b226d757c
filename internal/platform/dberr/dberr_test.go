// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/dberr"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

/*
TestWrap checks the error classification table.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"storage miss", fmt.Errorf("load: %w", storage.ErrNotFound), http.StatusNotFound},
		{"pgx miss", pgx.ErrNoRows, http.StatusNotFound},
		{"app error passes through", apperr.Forbidden("nope"), http.StatusForbidden},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperr.As(dberr.Wrap(tt.err, "Chapter"))
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "Chapter"))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/platform/apperr"
)

/*
TestAs_WrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", apperr.NotFound("Comic"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "Comic not found", ae.Message)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestInternal_HidesCause checks the client message never leaks the cause.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	ae := apperr.Internal(cause)

	assert.NotContains(t, ae.Error(), "disk")
	assert.ErrorIs(t, ae, cause)
}

/*
TestAs_PlainError returns nil for non-AppError values.
*/
func TestAs_PlainError(t *testing.T) {
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestRateLimited carries the wait in the client message.
*/
func TestRateLimited(t *testing.T) {
	ae := apperr.RateLimited(30)

	assert.Equal(t, "RATE_LIMITED", ae.Code)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)
	assert.Equal(t, "Too many requests. Try again in 30s.", ae.Message)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/ctxutil"
	"github.com/taibuivan/sakura/internal/platform/middleware"
	"github.com/taibuivan/sakura/internal/platform/respond"
	"github.com/taibuivan/sakura/internal/platform/sec"
)

// session is a fixed [middleware.SessionReader].
type session struct {
	principal *ctxutil.Principal
}

func (s session) Principal() (*ctxutil.Principal, bool) {
	return s.principal, s.principal != nil
}

var ok = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func serve(handler http.Handler, request *http.Request) int {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Code
}

/*
TestAuthorization covers the session and role guards.
*/
func TestAuthorization(t *testing.T) {
	member := &ctxutil.Principal{UserID: "u1", Username: "reader", Role: sec.RoleUser}
	owner := &ctxutil.Principal{UserID: "u0", Username: "owner", Role: sec.RoleAdmin}

	tests := []struct {
		name      string
		principal *ctxutil.Principal
		guard     func(http.Handler) http.Handler
		want      int
	}{
		{"session anonymous", nil, middleware.RequireSession, http.StatusUnauthorized},
		{"session member", member, middleware.RequireSession, http.StatusOK},
		{"admin anonymous", nil, middleware.RequireRole(sec.RoleAdmin), http.StatusUnauthorized},
		{"admin member", member, middleware.RequireRole(sec.RoleAdmin), http.StatusForbidden},
		{"admin owner", owner, middleware.RequireRole(sec.RoleAdmin), http.StatusOK},
		{"user owner", owner, middleware.RequireRole(sec.RoleUser), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Session(session{tt.principal})(tt.guard(ok))
			assert.Equal(t, tt.want, serve(handler, httptest.NewRequest(http.MethodGet, "/", nil)))
		})
	}
}

/*
TestRateLimitWith verifies the bucket is tracked per client address and a
refused request carries the standard error envelope and a Retry-After hint.
*/
func TestRateLimitWith(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, rate.Limit(0.5), 2)(ok)

	from := func(ip string) *http.Request {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, ip)
		return request
	}

	assert.Equal(t, http.StatusOK, serve(handler, from("10.0.0.1")))
	assert.Equal(t, http.StatusOK, serve(handler, from("10.0.0.1")))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "2", recorder.Header().Get(constants.HeaderRetryAfter))

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "RATE_LIMITED", envelope.Code)
	assert.Equal(t, "Too many requests. Try again in 2s.", envelope.Error)

	assert.Equal(t, http.StatusOK, serve(handler, from("10.0.0.2")))
}

/*
TestRequestID verifies a caller-supplied id is echoed and a missing one is generated.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "trace-1")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "trace-1", seen)
	assert.Equal(t, "trace-1", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "trace-1", seen)
}

/*
TestPanicRecovery verifies a panicking handler yields a 500.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.Equal(t, http.StatusInternalServerError, serve(handler, httptest.NewRequest(http.MethodGet, "/", nil)))
}

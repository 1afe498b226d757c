// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/sakura/internal/app"
	"github.com/taibuivan/sakura/internal/platform/broadcast"
	"github.com/taibuivan/sakura/internal/platform/config"
	"github.com/taibuivan/sakura/internal/platform/storage"
	"github.com/taibuivan/sakura/internal/social"
	"github.com/taibuivan/sakura/internal/users/auth"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:     "0",
		Environment:    "development",
		StorageBackend: config.BackendMemory,
		SessionSecret:  "test-secret",
		OwnerEmail:     "owner@sakura.local",
		BcryptCost:     bcrypt.MinCost,
	}
}

// newServer starts the full HTTP stack over a fresh memory backend.
func newServer(t *testing.T) (*app.App, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	application := app.New(ctx, testConfig(), storage.NewMemory(), discard)

	server := httptest.NewServer(application.Server(ctx).Handler())
	t.Cleanup(server.Close)
	return application, server
}

func send(t *testing.T, server *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	request, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

/*
TestApp_HealthAndCatalogue checks the probes and the seeded catalogue.
*/
func TestApp_HealthAndCatalogue(t *testing.T) {
	_, server := newServer(t)

	assert.Equal(t, http.StatusOK, send(t, server, http.MethodGet, "/health", "").StatusCode)
	assert.Equal(t, http.StatusOK, send(t, server, http.MethodGet, "/ready", "").StatusCode)
	assert.Equal(t, http.StatusOK, send(t, server, http.MethodGet, "/api/v1/comics/featured", "").StatusCode)
	assert.Equal(t, http.StatusOK, send(t, server, http.MethodGet, "/api/v1/comics/popular-1/community", "").StatusCode)
	assert.Equal(t, http.StatusOK, send(t, server, http.MethodGet, "/api/v1/chapters/popular-1-167", "").StatusCode)
	assert.NotEmpty(t, send(t, server, http.MethodGet, "/health", "").Header.Get("X-Request-ID"))
}

/*
TestApp_SessionDrivesAuthorization verifies the shared session gates the
admin routes across the whole router.
*/
func TestApp_SessionDrivesAuthorization(t *testing.T) {
	application, server := newServer(t)
	payload := `{"title":"Omniscient Reader","author":"Sing Shong"}`

	assert.Equal(t, http.StatusUnauthorized, send(t, server, http.MethodPost, "/api/v1/comics", payload).StatusCode)

	register := `{"username":"owner","email":"owner@sakura.local","password":"pw"}`
	require.Equal(t, http.StatusOK, send(t, server, http.MethodPost, "/api/v1/auth/register", register).StatusCode)
	assert.Equal(t, http.StatusCreated, send(t, server, http.MethodPost, "/api/v1/comics", payload).StatusCode)

	require.Equal(t, http.StatusNoContent, send(t, server, http.MethodPost, "/api/v1/auth/logout", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, send(t, server, http.MethodGet, "/api/v1/admin/users", "").StatusCode)

	_, signedIn := application.Users.CurrentUser()
	assert.False(t, signedIn)
}

/*
TestApp_DeletedComicPurgesSocial verifies deleting a comic clears its
comments and reactions before the response, however many changes were
published just before.
*/
func TestApp_DeletedComicPurgesSocial(t *testing.T) {
	application, server := newServer(t)
	ctx := context.Background()

	register := `{"username":"owner","email":"owner@sakura.local","password":"pw"}`
	require.Equal(t, http.StatusOK, send(t, server, http.MethodPost, "/api/v1/auth/register", register).StatusCode)
	require.Equal(t, http.StatusCreated, send(t, server, http.MethodPost, "/api/v1/comics/magic-1/comments", `{"content":"first"}`).StatusCode)
	require.Equal(t, http.StatusOK, send(t, server, http.MethodPost, "/api/v1/comics/magic-1/reactions/sad", "").StatusCode)
	require.Equal(t, http.StatusCreated, send(t, server, http.MethodPost, "/api/v1/comics/action-1/comments", `{"content":"stays"}`).StatusCode)

	// A slow observer that never drains its subscription.
	_, cancel := application.Hub.Subscribe(1)
	defer cancel()
	for range 40 {
		require.NoError(t, application.Catalogue.IncrementViews(ctx, "magic-1"))
	}

	require.Equal(t, http.StatusNoContent, send(t, server, http.MethodDelete, "/api/v1/comics/magic-1", "").StatusCode)

	assert.Empty(t, application.Social.Comments(ctx, "magic-1", "best"))
	assert.Equal(t, social.DefaultReactions(), application.Social.Reactions(ctx, "magic-1"))
	assert.Len(t, application.Social.Comments(ctx, "action-1", "best"), 1)
}

/*
TestApp_EventStream verifies committed changes reach WebSocket clients.
*/
func TestApp_EventStream(t *testing.T) {
	application, server := newServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return application.Hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	register := `{"username":"reader","email":"reader@example.com","password":"pw"}`
	require.Equal(t, http.StatusOK, send(t, server, http.MethodPost, "/api/v1/auth/register", register).StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var change broadcast.Change
	require.NoError(t, conn.ReadJSON(&change))
	assert.Equal(t, broadcast.StoreSession, change.Store)
	assert.Equal(t, auth.OpUserRegistered, change.Op)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the Sakura stores on top of one storage backend.

Both the HTTP server and the sakuractl CLI build their state through [New],
so a backend written by one is read identically by the other.
*/
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/sakura/internal/api"
	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/core/page"
	"github.com/taibuivan/sakura/internal/platform/broadcast"
	"github.com/taibuivan/sakura/internal/platform/config"
	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/internal/platform/storage"
	"github.com/taibuivan/sakura/internal/social"
	"github.com/taibuivan/sakura/internal/users/auth"
)

// App holds every store of one process.
type App struct {
	Config  *config.Config
	Storage storage.Storage
	Hub     *broadcast.Hub[broadcast.Change]

	Catalogue *comic.Store
	Comics    *comic.Service
	Users     *auth.Store
	Social    *social.Store

	logger *slog.Logger
}

/*
New rehydrates every store from backend.

Parameters:
  - context: context.Context (bounds the initial loads)
  - cfg: *config.Config
  - backend: storage.Storage
  - logger: *slog.Logger

Returns:
  - *App: Ready to serve; stores publish their changes on Hub, which only
    feeds observers such as the event stream
*/
func New(context context.Context, cfg *config.Config, backend storage.Storage, logger *slog.Logger) *App {
	hub := broadcast.NewHub[broadcast.Change]()

	catalogue := comic.NewStore(context, comic.NewKVRepository(backend),
		comic.WithLogger(logger.With(slog.String("store", broadcast.StoreContent))),
		comic.WithPublisher(hub),
	)

	socialStore := social.NewStore(backend,
		social.WithLogger(logger.With(slog.String("store", broadcast.StoreSocial))),
		social.WithPublisher(hub),
	)

	comics := comic.NewService(catalogue,
		page.NewStore(backend, logger),
		page.NewIndex(backend, logger),
		logger,
		comic.WithDependents(socialStore),
	)

	signer := sec.NewSessionSigner(cfg.SessionSecret, constants.AppName)
	users := auth.NewStore(context, auth.NewKVRepository(backend, signer),
		auth.WithLogger(logger.With(slog.String("store", broadcast.StoreSession))),
		auth.WithPublisher(hub),
		auth.WithHasher(sec.NewHasher(cfg.BcryptCost)),
		auth.WithOwnerEmail(cfg.OwnerEmail),
		auth.WithLatency(cfg.AuthLatency),
	)

	return &App{
		Config:    cfg,
		Storage:   backend,
		Hub:       hub,
		Catalogue: catalogue,
		Comics:    comics,
		Users:     users,
		Social:    socialStore,
		logger:    logger,
	}
}

// Server builds the HTTP server over the stores.
func (app *App) Server(context context.Context) *api.Server {
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Storage: app.Storage,
		Backend: app.Config.StorageBackend,
	}, app.logger)

	return api.NewServer(context, app.Config, app.logger, app.Users, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Events:    api.NewEventsHandler(app.Hub, app.allowOrigin, app.logger),
		Auth:      auth.NewHandler(app.Users, app.Catalogue),
		Comic:     comic.NewHandler(app.Comics),
		Social:    social.NewHandler(app.Social, app.Catalogue, app.Users),
	})
}

// Close stops the broadcast hub and releases the backend.
func (app *App) Close() error {
	app.Hub.Close()
	return app.Storage.Close()
}

// allowOrigin applies the CORS origin policy to WebSocket upgrades.
func (app *App) allowOrigin(request *http.Request) bool {
	origin := request.Header.Get(constants.HeaderOrigin)
	if origin == "" || app.Config.IsDevelopment() {
		return true
	}
	for _, allowed := range app.Config.AllowedOrigins() {
		if origin == allowed {
			return true
		}
	}
	return false
}

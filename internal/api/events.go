// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taibuivan/sakura/internal/platform/broadcast"
)

const (
	// eventsBuffer is how many changes a slow client may lag behind.
	eventsBuffer = 64

	// eventsWriteTimeout bounds one frame write.
	eventsWriteTimeout = 5 * time.Second

	// eventsPingInterval keeps idle connections and proxies alive.
	eventsPingInterval = 30 * time.Second
)

// Subscriber hands out change subscriptions.
type Subscriber interface {
	Subscribe(buffer int) (<-chan broadcast.Change, func())
}

// NewEventsHandler streams every committed store change to a WebSocket
// client as JSON. Clients only read; any inbound frame is discarded and a
// read error ends the stream.
func NewEventsHandler(hub Subscriber, allowOrigin func(*http.Request) bool, logger *slog.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: allowOrigin}

	return func(writer http.ResponseWriter, request *http.Request) {
		conn, err := upgrader.Upgrade(writer, request, nil)
		if err != nil {
			logger.Warn("events_upgrade_failed", slog.Any("error", err))
			return
		}
		defer func() { _ = conn.Close() }()

		// The hijacked connection keeps the server read deadline; pongs extend it.
		_ = conn.SetReadDeadline(time.Now().Add(2 * eventsPingInterval))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(2 * eventsPingInterval))
		})

		changes, cancel := hub.Subscribe(eventsBuffer)
		defer cancel()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(eventsPingInterval)
		defer ticker.Stop()

		logger.Debug("events_client_connected", slog.String("remote", request.RemoteAddr))
		for {
			select {
			case <-closed:
				return
			case <-request.Context().Done():
				return
			case change, ok := <-changes:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
						time.Now().Add(eventsWriteTimeout))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
				if err := conn.WriteJSON(change); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteTimeout)); err != nil {
					return
				}
			}
		}
	}
}

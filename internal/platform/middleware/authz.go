// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/ctxutil"
	"github.com/taibuivan/sakura/internal/platform/respond"
	"github.com/taibuivan/sakura/internal/platform/sec"
)

// SessionReader exposes the current session to the middleware.
//
// The server process acts as a single client, so identity comes from the
// session store rather than a per-request credential.
type SessionReader interface {
	Principal() (*ctxutil.Principal, bool)
}

// Session injects the current session principal, if any, into the request
// context. Anonymous requests pass through untouched.
func Session(reader SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal, ok := reader.Principal()
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks anonymous requests with 401.
//
// Must be registered in the router AFTER [Session].
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("User not authenticated"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose session role is below role. It implies
// [RequireSession].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("User not authenticated"))
				return
			}

			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

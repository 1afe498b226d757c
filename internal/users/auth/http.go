// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/middleware"
	requestutil "github.com/taibuivan/sakura/internal/platform/request"
	"github.com/taibuivan/sakura/internal/platform/respond"
	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/internal/platform/validate"
	"github.com/taibuivan/sakura/pkg/convert"
)

// Request field names used in validation errors.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
	FieldAvatar          = "avatar"
	FieldDescription     = "description"
)

// defaultStatsWindow is the new-user window in days when none is given.
const defaultStatsWindow = 30

// Catalogue resolves bookmarked ids to comics.
type Catalogue interface {
	GetComicByID(id string) (*comic.Comic, bool)
}

// # Handler Implementation

// Handler implements the session, profile and user administration endpoints.
type Handler struct {
	store     *Store
	catalogue Catalogue
}

// NewHandler constructs a new auth [Handler].
func NewHandler(store *Store, catalogue Catalogue) *Handler {
	return &Handler{store: store, catalogue: catalogue}
}

// Routes returns the session endpoints mounted under /auth.
//
// # Endpoints
//   - POST /register : Creates an account and signs it in.
//   - POST /login    : Signs in with email and password.
//   - POST /logout   : Ends the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	return router
}

// MeRoutes returns the signed-in user's endpoints mounted under /me.
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireSession)

	router.Get("/", handler.getMe)
	router.Patch("/", handler.updateMe)
	router.Post("/password", handler.changePassword)

	router.Get("/bookmarks", handler.listBookmarks)
	router.Get("/bookmarks/{comicID}", handler.isBookmarked)
	router.Put("/bookmarks/{comicID}", handler.addBookmark)
	router.Delete("/bookmarks/{comicID}", handler.removeBookmark)

	return router
}

// AdminRoutes returns the user administration endpoints mounted under /admin.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/users", handler.listUsers)
	router.Delete("/users/{id}", handler.deleteUser)
	router.Get("/stats", handler.stats)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type statsResponse struct {
	TotalUsers int `json:"totalUsers"`
	NewUsers   int `json:"newUsers"`
	Days       int `json:"days"`
}

// # Session Handlers

/*
POST /api/v1/auth/register

Description: Creates an account and profile, then signs the new user in.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 200: ResultEnvelope with the new UserProfile
  - 400: Validation failure
  - 409: Email or username already in use
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, 50).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.store.Register(request.Context(), input.Username, input.Email, input.Password)
	handler.writeResult(writer, request, result)
}

/*
POST /api/v1/auth/login

Description: Signs in the account matching the credentials.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: ResultEnvelope with the UserProfile
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.store.Login(request.Context(), input.Email, input.Password)
	handler.writeResult(writer, request, result)
}

/*
POST /api/v1/auth/logout

Response:
  - 204: Session ended (also when already anonymous)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.store.Logout(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Profile Handlers

/*
GET /api/v1/me

Response:
  - 200: UserProfile
  - 401: Not signed in
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	profile, ok := handler.store.CurrentUser()
	if !ok {
		respond.Error(writer, request, apperr.Unauthorized(MsgNotAuthenticated))
		return
	}
	respond.OK(writer, profile)
}

/*
PATCH /api/v1/me

Request:
  - Body: ProfileUpdate (only the fields to change)

Response:
  - 200: ResultEnvelope with the updated UserProfile
  - 409: Email or username belongs to another user
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var input ProfileUpdate
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.Required(FieldUsername, *input.Username).MaxLen(FieldUsername, *input.Username, 50)
	}
	if input.Email != nil {
		v.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
	}
	if input.Avatar != nil && *input.Avatar != "" {
		v.URL(FieldAvatar, *input.Avatar)
	}
	if input.Description != nil {
		v.MaxLen(FieldDescription, *input.Description, 500)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.store.UpdateProfile(request.Context(), input)
	handler.writeResult(writer, request, result)
}

/*
POST /api/v1/me/password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: ResultEnvelope
  - 400: Current password is incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.store.ChangePassword(request.Context(), input.CurrentPassword, input.NewPassword)
	if !result.Success {
		respond.Error(writer, request, resultError(result))
		return
	}
	respond.Result(writer, result.Message, nil)
}

// # Bookmark Handlers

/*
GET /api/v1/me/bookmarks

Description: Resolves bookmarked ids against the catalogue. Ids of deleted
comics are skipped.

Response:
  - 200: []comic.Comic
*/
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	profile, ok := handler.store.CurrentUser()
	if !ok {
		respond.Error(writer, request, apperr.Unauthorized(MsgNotAuthenticated))
		return
	}

	comics := make([]*comic.Comic, 0, len(profile.Bookmarks))
	for _, id := range profile.Bookmarks {
		if found, exists := handler.catalogue.GetComicByID(id); exists {
			comics = append(comics, found)
		}
	}
	respond.OK(writer, comics)
}

// GET /api/v1/me/bookmarks/{comicID}
func (handler *Handler) isBookmarked(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.Param(request, "comicID")
	respond.OK(writer, map[string]bool{"bookmarked": handler.store.IsBookmarked(comicID)})
}

/*
PUT /api/v1/me/bookmarks/{comicID}

Response:
  - 204: Bookmarked (idempotent)
  - 404: Unknown comic
*/
func (handler *Handler) addBookmark(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.Param(request, "comicID")
	if _, exists := handler.catalogue.GetComicByID(comicID); !exists {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}

	if err := handler.store.AddBookmark(request.Context(), comicID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DELETE /api/v1/me/bookmarks/{comicID}
func (handler *Handler) removeBookmark(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.Param(request, "comicID")
	if err := handler.store.RemoveBookmark(request.Context(), comicID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Administration Handlers

// GET /api/v1/admin/users
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.store.Users())
}

/*
DELETE /api/v1/admin/users/{id}

Response:
  - 204: Deleted
  - 403: Target is the signed-in user or an admin
  - 404: Unknown user
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	err := handler.store.DeleteUser(request.Context(), requestutil.Param(request, "id"))
	switch {
	case err == nil:
		respond.NoContent(writer)
	case errors.Is(err, ErrUserNotFound):
		respond.Error(writer, request, apperr.NotFound("User"))
	case errors.Is(err, ErrDeleteSelf):
		respond.Error(writer, request, apperr.Forbidden("You cannot delete your own account"))
	case errors.Is(err, ErrDeleteAdmin):
		respond.Error(writer, request, apperr.Forbidden("Admin accounts cannot be deleted"))
	default:
		respond.Error(writer, request, err)
	}
}

// GET /api/v1/admin/stats?days=30
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	days := convert.ToIntD(request.URL.Query().Get("days"), defaultStatsWindow)
	if days < 0 {
		respond.Error(writer, request, apperr.BadRequest("days must not be negative"))
		return
	}

	respond.OK(writer, statsResponse{
		TotalUsers: handler.store.TotalUsers(),
		NewUsers:   handler.store.NewUsersCount(days),
		Days:       days,
	})
}

// # Helpers

// writeResult answers a session or profile outcome, attaching the current
// profile on success.
func (handler *Handler) writeResult(writer http.ResponseWriter, request *http.Request, result Result) {
	if !result.Success {
		respond.Error(writer, request, resultError(result))
		return
	}

	profile, _ := handler.store.CurrentUser()
	respond.Result(writer, result.Message, profile)
}

// resultError maps a failed [Result] to its HTTP error.
func resultError(result Result) error {
	switch result.Message {
	case MsgEmailRegistered, MsgUsernameTaken, MsgEmailTaken:
		return apperr.Conflict(result.Message)
	case MsgInvalidCredentials, MsgNotAuthenticated:
		return apperr.Unauthorized(result.Message)
	case MsgWrongPassword:
		return apperr.BadRequest(result.Message)
	case MsgProfileMissing, MsgAccountMissing:
		return apperr.Unprocessable(result.Message)
	case MsgCancelled:
		return apperr.ServiceUnavailable(result.Message)
	default:
		return apperr.Internal(errors.New(result.Message))
	}
}

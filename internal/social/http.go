// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/middleware"
	requestutil "github.com/taibuivan/sakura/internal/platform/request"
	"github.com/taibuivan/sakura/internal/platform/respond"
	"github.com/taibuivan/sakura/internal/platform/validate"
	"github.com/taibuivan/sakura/internal/users/auth"
	"github.com/taibuivan/sakura/pkg/pointer"
)

// Catalogue tells the handler which comics exist.
type Catalogue interface {
	GetComicByID(id string) (*comic.Comic, bool)
}

// Profiles exposes the signed-in profile and bookmark totals.
type Profiles interface {
	CurrentUser() (*auth.UserProfile, bool)
	BookmarkCount(comicID string) int
}

// # Handler Implementation

// Handler implements the social endpoints nested under /comics/{id}.
type Handler struct {
	store     *Store
	catalogue Catalogue
	profiles  Profiles
}

// NewHandler constructs a new social [Handler].
func NewHandler(store *Store, catalogue Catalogue, profiles Profiles) *Handler {
	return &Handler{store: store, catalogue: catalogue, profiles: profiles}
}

// Register adds the social routes to the catalogue router, which already
// owns the /{id} segment.
//
// # Endpoints
//   - GET  /{id}/community                    : Rating, reaction and bookmark totals.
//   - GET  /{id}/reactions                    : Reaction counters.
//   - GET  /{id}/comments?order=              : Thread sorted best, newest or oldest.
//   - GET  /{id}/rating                       : The caller's stars (session).
//   - PUT  /{id}/rating                       : Rate 1 to 5 stars (session).
//   - POST /{id}/reactions/{kind}             : Toggle a reaction (session).
//   - POST /{id}/comments                     : Post a comment (session).
//   - POST /{id}/comments/{commentID}/like    : Toggle a like (session).
func (handler *Handler) Register(router chi.Router) {
	router.Get("/{id}/community", handler.community)
	router.Get("/{id}/reactions", handler.listReactions)
	router.Get("/{id}/comments", handler.listComments)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireSession)

		member.Get("/{id}/rating", handler.getRating)
		member.Put("/{id}/rating", handler.rate)
		member.Post("/{id}/reactions/{kind}", handler.toggleReaction)
		member.Post("/{id}/comments", handler.addComment)
		member.Post("/{id}/comments/{commentID}/like", handler.toggleLike)
	})
}

// # Payloads

type rateRequest struct {
	Stars int `json:"stars"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type communityResponse struct {
	Rating     CommunityRating `json:"rating"`
	UserRating *int            `json:"userRating,omitempty"`
	Bookmarks  int             `json:"bookmarks"`
	Reactions  int             `json:"reactions"`
	Comments   int             `json:"comments"`
}

type ratingResponse struct {
	ComicID string `json:"comicId"`
	Stars   int    `json:"stars"`
}

// # Read Handlers

/*
GET /api/v1/comics/{id}/community

Description: Aggregates the social state of one comic. The caller's own
rating is included when signed in and rated.

Response:
  - 200: communityResponse
  - 404: Unknown comic
*/
func (handler *Handler) community(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	rating, err := handler.store.Community(request.Context(), comicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := communityResponse{
		Rating:    rating,
		Bookmarks: handler.profiles.BookmarkCount(comicID),
		Reactions: handler.store.Reactions(request.Context(), comicID).Total(),
		Comments:  len(handler.store.Comments(request.Context(), comicID, OrderNewest)),
	}
	if profile, signedIn := handler.profiles.CurrentUser(); signedIn {
		if stars := handler.store.UserRating(request.Context(), profile.ID, comicID); stars > 0 {
			response.UserRating = pointer.To(stars)
		}
	}

	respond.OK(writer, response)
}

// GET /api/v1/comics/{id}/reactions
func (handler *Handler) listReactions(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, handler.store.Reactions(request.Context(), comicID))
}

// GET /api/v1/comics/{id}/comments?order=best|newest|oldest
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	order := ParseOrder(request.URL.Query().Get("order"))
	respond.OK(writer, handler.store.Comments(request.Context(), comicID, order))
}

// # Member Handlers

// GET /api/v1/comics/{id}/rating
func (handler *Handler) getRating(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ratingResponse{
		ComicID: comicID,
		Stars:   handler.store.UserRating(request.Context(), principal.UserID, comicID),
	})
}

/*
PUT /api/v1/comics/{id}/rating

Request:
  - Body: rateRequest (Stars 1 to 5)

Response:
  - 200: ratingResponse
  - 400: Stars out of range
*/
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Range("stars", input.Stars, MinStars, MaxStars)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Rate(request.Context(), principal.UserID, comicID, input.Stars); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.OK(writer, ratingResponse{ComicID: comicID, Stars: input.Stars})
}

// POST /api/v1/comics/{id}/reactions/{kind}
func (handler *Handler) toggleReaction(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind := ReactionKind(requestutil.Param(request, "kind"))
	reactions, err := handler.store.ToggleReaction(request.Context(), principal.UserID, comicID, kind)
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.OK(writer, reactions)
}

/*
POST /api/v1/comics/{id}/comments

Description: Posts a comment as the signed-in user. The profile avatar is
used, or the generated one when the profile has none.

Request:
  - Body: commentRequest (Content)

Response:
  - 201: Comment
  - 400: Empty or oversized content
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	profile, signedIn := handler.profiles.CurrentUser()
	if !signedIn {
		respond.Error(writer, request, apperr.Unauthorized(auth.MsgNotAuthenticated))
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatar := profile.Avatar
	if avatar == "" {
		avatar = auth.DefaultAvatar(profile.Username)
	}

	comment, err := handler.store.AddComment(request.Context(), comicID, Author{
		UserID:   profile.ID,
		Username: profile.Username,
		Avatar:   avatar,
	}, input.Content)
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.Created(writer, comment)
}

// POST /api/v1/comics/{id}/comments/{commentID}/like
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	comicID, ok := handler.comicID(writer, request)
	if !ok {
		return
	}

	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.store.ToggleLike(request.Context(), principal.UserID, comicID, requestutil.Param(request, "commentID"))
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.OK(writer, comment)
}

// # Helpers

// comicID resolves the {id} segment, answering 404 for unknown comics.
func (handler *Handler) comicID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	id := requestutil.Param(request, "id")
	if _, exists := handler.catalogue.GetComicByID(id); !exists {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return "", false
	}
	return id, true
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		return apperr.NotFound("Comment")
	case errors.Is(err, ErrInvalidStars):
		return apperr.BadRequest("Rating must be between 1 and 5 stars")
	case errors.Is(err, ErrUnknownReaction):
		return apperr.BadRequest("Unknown reaction")
	case errors.Is(err, ErrEmptyComment):
		return apperr.BadRequest("Comment cannot be empty")
	case errors.Is(err, ErrCommentTooLong):
		return apperr.BadRequest("Comment is too long")
	default:
		return err
	}
}

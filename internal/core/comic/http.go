// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/dberr"
	"github.com/taibuivan/sakura/internal/platform/middleware"
	requestutil "github.com/taibuivan/sakura/internal/platform/request"
	"github.com/taibuivan/sakura/internal/platform/respond"
	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/internal/platform/validate"
	"github.com/taibuivan/sakura/pkg/convert"
	"github.com/taibuivan/sakura/pkg/pagination"
	"github.com/taibuivan/sakura/pkg/pointer"
	"github.com/taibuivan/sakura/pkg/query"
	"github.com/taibuivan/sakura/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalogue and the chapter reader.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comic [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the catalogue endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): browsing, search and the home page views.
//   - Management (Restricted): requires [sec.RoleAdmin] for every mutation.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listComics)
	router.Get("/featured", handler.getFeatured)
	router.Get("/popular", handler.listPopular)
	router.Get("/latest", handler.listLatest)
	router.Get("/ranking", handler.listRanking)
	router.Get("/genres", handler.listGenres)
	router.Get("/{id}", handler.getComic)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createComic)
		admin.Patch("/{id}", handler.updateComic)
		admin.Delete("/{id}", handler.deleteComic)
		admin.Post("/{id}/featured", handler.setFeatured)
		admin.Post("/{id}/trending", handler.setTrending)

		admin.Post("/{id}/chapters", handler.publishChapter)
		admin.Delete("/{id}/chapters/{chapterID}", handler.deleteChapter)
	})

	return router
}

// ReaderRoutes returns the chapter reader endpoints mounted under /chapters.
func (handler *Handler) ReaderRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listReaderIndex)
	router.Get("/{readerID}", handler.readChapter)
	return router
}

// # Response Payloads

// comicResponse adds the derived display fields to a [Comic].
type comicResponse struct {
	*Comic
	Slug  string `json:"slug"`
	Badge string `json:"badge"`
}

func toResponse(comic *Comic) comicResponse {
	return comicResponse{Comic: comic, Slug: comic.Slug(), Badge: comic.Badge()}
}

// # Discovery Endpoints

/*
GET /api/v1/comics.

Description: Searches the catalogue and returns one page of results.

Request:
  - q: string (Matches title, author, description, genres)
  - genre: []string
  - status: []string (Ongoing, Completed, Hiatus)
  - type: []string (Badge labels such as Manga, Manhwa)
  - minRating: float
  - sort: string (relevance, rating, title, latest, views, newest)
  - order: string (desc, asc)
  - limit: int
  - page: int

Response:
  - 200: []Comic: Paginated list
*/
func (handler *Handler) listComics(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	search := Query{
		Text:      queryParams.Get("q"),
		Genres:    query.StringSlice(queryParams["genre"]...),
		Statuses:  slice.Map(query.StringSlice(queryParams["status"]...), func(s string) Status { return Status(s) }),
		Types:     query.StringSlice(queryParams["type"]...),
		MinRating: convert.ToFloat64D(queryParams.Get("minRating"), 0),
		Sort:      SortKey(queryParams.Get("sort")),
		Order:     Order(queryParams.Get("order")),
	}

	results := handler.service.Store().Search(search)
	items := slice.Map(pagination.Slice(results, paginationParams), toResponse)

	respond.Paginated(writer, items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, len(results)))
}

/*
GET /api/v1/comics/featured.

Response:
  - 200: Comic: The featured comic, or the first comic when none is flagged
  - 404: 404: ErrNotFound: Catalogue is empty
*/
func (handler *Handler) getFeatured(writer http.ResponseWriter, request *http.Request) {
	featured := handler.service.Store().FeaturedComic()
	if featured == nil {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}
	respond.OK(writer, toResponse(featured))
}

// listPopular serves GET /api/v1/comics/popular.
func (handler *Handler) listPopular(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, slice.Map(handler.service.Store().PopularComics(), toResponse))
}

// listLatest serves GET /api/v1/comics/latest.
func (handler *Handler) listLatest(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Store().LatestUpdates())
}

/*
GET /api/v1/comics/ranking.

Request:
  - period: string (all, weekly, monthly; defaults to all)

Response:
  - 200: []RankedComic
  - 400: 400: ErrValidation: Unknown period
*/
func (handler *Handler) listRanking(writer http.ResponseWriter, request *http.Request) {
	period := Period(request.URL.Query().Get("period"))
	if period == "" {
		period = PeriodAll
	}

	v := &validate.Validator{}
	v.OneOf("period", string(period), string(PeriodAll), string(PeriodWeekly), string(PeriodMonthly))
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Store().PopularByPeriod(period))
}

// listGenres serves GET /api/v1/comics/genres.
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Store().Genres())
}

/*
GET /api/v1/comics/{id}.

Response:
  - 200: Comic: Success
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	comic, ok := handler.service.Store().GetComicByID(requestutil.Param(request, "id"))
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}
	respond.OK(writer, toResponse(comic))
}

// # Mutation Endpoints

/*
POST /api/v1/comics.

Description: Adds a comic. Chapters are published separately.

Request:
  - body: ComicInput

Response:
  - 201: Comic: Created comic
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload
  - 403: 403: ErrForbidden: Admin only
*/
func (handler *Handler) createComic(writer http.ResponseWriter, request *http.Request) {
	var input ComicInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Status == "" {
		input.Status = StatusOngoing
	}

	v := &validate.Validator{}
	v.Required("title", input.Title).MaxLen("title", input.Title, 200)
	v.Required("author", input.Author)
	v.OneOf("status", string(input.Status), string(StatusOngoing), string(StatusCompleted), string(StatusHiatus))
	v.Score("rating", input.Rating, 0, 10)
	v.Custom("views", input.Views < 0, "Views cannot be negative")
	if input.CoverImage != "" {
		v.URL("coverImage", input.CoverImage)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := handler.service.Store().AddComic(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}

	comic, _ := handler.service.Store().GetComicByID(id)
	respond.Created(writer, toResponse(comic))
}

/*
PATCH /api/v1/comics/{id}.

Description: Shallow-merges the provided fields into the comic.

Response:
  - 200: Comic: Updated comic
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) updateComic(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var patch ComicPatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if patch.Title != nil {
		v.Required("title", *patch.Title).MaxLen("title", *patch.Title, 200)
	}
	if patch.Status != nil {
		v.OneOf("status", string(*patch.Status), string(StatusOngoing), string(StatusCompleted), string(StatusHiatus))
	}
	if patch.Rating != nil {
		v.Score("rating", *patch.Rating, 0, 10)
	}
	if cover := pointer.Val(patch.CoverImage); cover != "" {
		v.URL("coverImage", cover)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Store().UpdateComic(request.Context(), id, patch); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}

	comic, _ := handler.service.Store().GetComicByID(id)
	respond.OK(writer, toResponse(comic))
}

/*
DELETE /api/v1/comics/{id}.

Description: Deletes the comic together with the page artifacts of all its chapters.

Response:
  - 204: No Content
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) deleteComic(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteComic(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.NoContent(writer)
}

// setFeatured serves POST /api/v1/comics/{id}/featured.
func (handler *Handler) setFeatured(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if _, ok := handler.service.Store().GetComicByID(id); !ok {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}

	if err := handler.service.Store().SetFeaturedComic(request.Context(), id); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.NoContent(writer)
}

// setTrending serves POST /api/v1/comics/{id}/trending.
func (handler *Handler) setTrending(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	if _, ok := handler.service.Store().GetComicByID(id); !ok {
		respond.Error(writer, request, apperr.NotFound("Comic"))
		return
	}

	if err := handler.service.Store().SetTrendingComic(request.Context(), id); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.NoContent(writer)
}

// # Chapter Endpoints

/*
POST /api/v1/comics/{id}/chapters.

Description: Publishes a chapter: stores its page artifact, lists it in the
reader index and appends it to the comic.

Request:
  - body: ChapterInput (number, title, pages)

Response:
  - 201: Chapter: Created chapter
  - 400: 400: ErrValidation: Missing number or malformed page URLs
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) publishChapter(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.Param(request, "id")

	var input ChapterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("number", input.Number)
	v.Custom("pages", len(input.Pages) == 0, "At least one page is required")
	for _, pageURL := range input.Pages {
		v.URL("pages", pageURL)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID, err := handler.service.PublishChapter(request.Context(), comicID, input)
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}

	chapter, _ := handler.service.Store().FindChapterByNumber(comicID, input.Number)
	if chapter == nil || chapter.ID != chapterID {
		respond.Created(writer, map[string]string{"id": chapterID})
		return
	}
	respond.Created(writer, chapter)
}

// deleteChapter serves DELETE /api/v1/comics/{id}/chapters/{chapterID}.
func (handler *Handler) deleteChapter(writer http.ResponseWriter, request *http.Request) {
	comicID := requestutil.Param(request, "id")
	chapterID := requestutil.Param(request, "chapterID")

	if err := handler.service.DeleteChapter(request.Context(), comicID, chapterID); err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.NoContent(writer)
}

// # Reader Endpoints

// listReaderIndex serves GET /api/v1/chapters.
func (handler *Handler) listReaderIndex(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.index.List(request.Context())
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.OK(writer, entries)
}

/*
GET /api/v1/chapters/{readerID}.

Description: Resolves "{comicId}-{number}" into the reader payload and counts one view.

Response:
  - 200: Reading
  - 400: 400: ErrBadRequest: Malformed reader id
  - 404: 404: ErrNotFound: Comic not found
*/
func (handler *Handler) readChapter(writer http.ResponseWriter, request *http.Request) {
	reading, err := handler.service.ReadChapter(request.Context(), requestutil.Param(request, "readerID"))
	if err != nil {
		respond.Error(writer, request, mapError(err))
		return
	}
	respond.OK(writer, reading)
}

// mapError translates catalogue errors into API errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrComicNotFound):
		return apperr.NotFound("Comic")
	case errors.Is(err, ErrChapterNotFound):
		return apperr.NotFound("Chapter")
	case errors.Is(err, ErrInvalidReaderID):
		return apperr.BadRequest("Reader id must look like {comicId}-{number}")
	case errors.Is(err, ErrInvalidChapterNumber):
		return apperr.BadRequest("Chapter number must start with a whole number")
	}
	return dberr.Wrap(err, "Catalogue")
}

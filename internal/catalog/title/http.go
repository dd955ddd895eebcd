// Copyright (c) 2026 Revuo. All rights reserved.

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/revuo/revuo/internal/platform/request"
	"github.com/revuo/revuo/internal/platform/respond"
	"github.com/revuo/revuo/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTitles)
	router.Post("/", handler.createTitle)
	router.Get("/{titleID}", handler.getTitle)
	router.Patch("/{titleID}", handler.updateTitle)
	router.Delete("/{titleID}", handler.deleteTitle)
}

// titlePayload is the shared request body for create and patch.
type titlePayload struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	filter := Filter{
		CategorySlug: request.URL.Query().Get("category"),
		GenreSlug:    request.URL.Query().Get("genre"),
		Name:         request.URL.Query().Get("name"),
	}
	if raw := request.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filter.Year = &year
		}
	}

	titles, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var payload titlePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{GenreSlugs: payload.Genre}
	if payload.Name != nil {
		input.Name = *payload.Name
	}
	if payload.Year != nil {
		input.Year = *payload.Year
	}
	if payload.Description != nil {
		input.Description = *payload.Description
	}
	if payload.Category != nil {
		input.CategorySlug = *payload.Category
	}

	created, err := handler.service.Create(request.Context(), requestutil.Identity(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload titlePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.Identity(request), titleID, UpdateInput{
		Name:         payload.Name,
		Year:         payload.Year,
		Description:  payload.Description,
		CategorySlug: payload.Category,
		GenreSlugs:   payload.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// Copyright (c) 2026 Revuo. All rights reserved.

package account

import (
	"net/http"

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

// RegisterRoutes mounts account endpoints under /users.
//
// The fixed /me routes are declared before the wildcard {username} routes;
// chi gives the literal segment priority, and the signup flow refuses to
// register "me" as a username anyway.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.patchMe)

	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)
	router.Get("/{username}", handler.getUser)
	router.Patch("/{username}", handler.updateUser)
	router.Delete("/{username}", handler.deleteUser)
}

// accountPayload is the shared request body for create and patch.
type accountPayload struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Bio       *string `json:"bio"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.service.List(request.Context(), requestutil.Identity(request), search, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var payload accountPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{}
	if payload.Username != nil {
		input.Username = *payload.Username
	}
	if payload.Email != nil {
		input.Email = *payload.Email
	}
	if payload.Role != nil {
		input.Role = *payload.Role
	}
	if payload.Bio != nil {
		input.Bio = *payload.Bio
	}
	if payload.FirstName != nil {
		input.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		input.LastName = *payload.LastName
	}

	created, err := handler.service.Create(request.Context(), requestutil.Identity(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.service.Get(request.Context(), requestutil.Identity(request), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var payload accountPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.Identity(request), username, PatchInput{
		Email:     payload.Email,
		Role:      payload.Role,
		Bio:       payload.Bio,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetMe(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) patchMe(writer http.ResponseWriter, request *http.Request) {
	var payload accountPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.PatchMe(request.Context(), requestutil.Identity(request), PatchInput{
		Email:     payload.Email,
		Role:      payload.Role,
		Bio:       payload.Bio,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/revuo/revuo/internal/platform/request"
	"github.com/revuo/revuo/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public auth endpoints under /auth.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)
}

// signup requests a confirmation code for a new or existing account.
//
// The response deliberately echoes only the signup pair; the code travels
// by mail, never through this channel.
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Signup(request.Context(), SignupInput{
		Email:    payload.Email,
		Username: payload.Username,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldEmail:    user.Email,
		FieldUsername: user.Username,
	})
}

// token exchanges a username plus confirmation code for a JWT.
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Username         string `json:"username"`
		ConfirmationCode string `json:"confirmation_code"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.Token(request.Context(), TokenInput{
		Username:         payload.Username,
		ConfirmationCode: payload.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"token": token})
}

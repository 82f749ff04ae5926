package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	CallbackPath      = "/auth/callback"
	ResetPasswordPath = "/reset-password"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get(CallbackPath, h.authCallback)
	router.Get(ResetPasswordPath, h.authCallback)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

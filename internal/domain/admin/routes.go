package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the admin router
func (h *Handler) Routes(adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Get("/session", h.Session)
	r.With(adminMiddleware).Post("/logout", h.Logout)

	return r
}

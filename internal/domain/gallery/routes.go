package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the gallery router. Mutating routes for the catalog are
// behind the admin gate; browsing, purchasing and language switching are
// public.
func (h *Handler) Routes(adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/map", h.MapDefaults)

	r.Get("/cities", h.ListCities)
	r.Get("/cities/{id}/photos", h.CityPhotos)

	r.Route("/photos", func(r chi.Router) {
		r.Get("/", h.ListPhotos)

		// Registered before /{id} so "builtin" is not matched as a photo ID
		r.With(adminMiddleware).Delete("/builtin", h.ClearBuiltins)

		r.Get("/{id}", h.GetPhoto)
		r.Post("/{id}/purchase", h.Purchase)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.Upload)
			r.Delete("/{id}", h.Delete)
		})
	})

	r.Get("/purchases", h.ListPurchases)

	r.Get("/language", h.GetLanguage)
	r.Put("/language", h.SetLanguage)

	return r
}

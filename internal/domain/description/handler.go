package description

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elhabassi/portfolio-api/internal/domain/catalog"
	"github.com/elhabassi/portfolio-api/internal/domain/gallery"
	"github.com/elhabassi/portfolio-api/internal/pkg/response"
)

// Handler serves generated photo descriptions.
type Handler struct {
	client *Client
	store  *gallery.Store
}

func NewHandler(client *Client, store *gallery.Store) *Handler {
	return &Handler{client: client, store: store}
}

type descriptionResponse struct {
	PhotoID     string `json:"photo_id"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// Get returns an artistic description for a photo, generated in the
// requested language (falls back to the site language).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "id")

	photo, ok := h.store.PhotoByID(photoID)
	if !ok {
		response.NotFound(w, "Photo not found")
		return
	}

	lang := h.store.Language()
	if q := catalog.Language(r.URL.Query().Get("lang")); q != "" {
		if !q.Valid() {
			response.BadRequest(w, "Unsupported language")
			return
		}
		lang = q
	}

	location := photo.LocationName
	if location == "" {
		location = "Morocco"
	}

	text := h.client.ArtisticDescription(r.Context(), photo.LocalizedTitle(lang), location, lang)

	response.OK(w, descriptionResponse{
		PhotoID:     photo.ID,
		Language:    string(lang),
		Description: text,
	})
}

// Register attaches description endpoints to the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/photos/{id}/description", h.Get)
}

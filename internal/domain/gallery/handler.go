package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/elhabassi/portfolio-api/internal/domain/catalog"
	"github.com/elhabassi/portfolio-api/internal/pkg/imaging"
	"github.com/elhabassi/portfolio-api/internal/pkg/response"
	"github.com/elhabassi/portfolio-api/internal/pkg/storage"
	"github.com/elhabassi/portfolio-api/internal/pkg/validator"
)

const maxUploadBytes = 20 << 20 // 20MB raw upload cap before downscaling

// Handler handles gallery HTTP requests
type Handler struct {
	store     *Store
	processor *imaging.Processor
	media     storage.Storage // nil means inline data-URI persistence
}

// NewHandler creates gallery handler
func NewHandler(store *Store, processor *imaging.Processor, media storage.Storage) *Handler {
	return &Handler{
		store:     store,
		processor: processor,
		media:     media,
	}
}

// ListCities handles GET /cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	lang := h.requestLanguage(r)

	cities := catalog.Cities()
	out := make([]CityResponse, 0, len(cities))
	for i := range cities {
		c := &cities[i]
		out = append(out, CityResponse{
			ID:          c.ID,
			Name:        c.LocalizedName(lang),
			Description: c.LocalizedDescription(lang),
			Center:      c.Center,
			Zoom:        c.Zoom,
			PhotoCount:  len(h.store.PhotosForCity(c)),
		})
	}
	response.OK(w, out)
}

// CityPhotos handles GET /cities/{id}/photos, the map view's marker set
func (h *Handler) CityPhotos(w http.ResponseWriter, r *http.Request) {
	city := catalog.CityByID(chi.URLParam(r, "id"))
	if city == nil {
		response.NotFound(w, "City not found")
		return
	}
	response.OK(w, h.toResponses(h.store.PhotosForCity(city)))
}

// MapDefaults handles GET /map: the initial viewport before a city is chosen
func (h *Handler) MapDefaults(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"center": catalog.MoroccoCenter,
		"zoom":   6,
	})
}

// ListPhotos handles GET /photos?city=, the composed catalog for grid views
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	cityName := r.URL.Query().Get("city")
	if cityName == "" {
		cityName = catalog.FilterAll
	}
	response.OK(w, h.toResponses(h.store.CatalogForCity(cityName)))
}

// GetPhoto handles GET /photos/{id}
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.store.PhotoByID(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "Photo not found")
		return
	}
	response.OK(w, PhotoResponse{Photo: *photo, Purchased: h.store.IsPurchased(photo.ID)})
}

// Upload handles POST /photos (admin): multipart image plus metadata
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	form, formErr := parseUploadForm(r)
	if formErr != nil {
		response.BadRequest(w, formErr.Error())
		return
	}
	if errs := validator.Validate(form); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	coords, locationName, err := resolveLocation(r, form)
	if err != nil {
		response.UnprocessableEntity(w, "GEOLOCATION_INVALID", err.Error())
		return
	}

	img, err := h.processor.Downscale(file)
	if err != nil {
		log.Warn().Err(err).Msg("Upload image processing failed")
		response.UnprocessableEntity(w, "IMAGE_PROCESSING_FAILED", ErrImageProcessingFailed.Error())
		return
	}

	url, mediaKey, err := h.storeMedia(r, img)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store uploaded media")
		response.InternalError(w)
		return
	}

	now := time.Now()
	photo := catalog.Photo{
		ID:           NewCustomID(now),
		Origin:       catalog.OriginCustom,
		URL:          url,
		Title:        form.Title,
		TitleAr:      form.TitleAr,
		TitleFr:      form.TitleFr,
		Description:  "Custom uploaded photo",
		LocationName: locationName,
		Coords:       coords,
		Price:        form.Price,
		CreatedAt:    now,
		MediaKey:     mediaKey,
	}

	if err := h.store.Upload(r.Context(), photo); err != nil {
		// The record did not commit, so the stored blob has no owner
		h.discardMedia(r, mediaKey)
		switch {
		case errors.Is(err, ErrGeolocationInvalid):
			response.UnprocessableEntity(w, "GEOLOCATION_INVALID", err.Error())
		case errors.Is(err, ErrStorageQuotaExceeded):
			response.InsufficientStorage(w, ErrStorageQuotaExceeded.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, PhotoResponse{Photo: photo})
}

// Delete handles DELETE /photos/{id} (admin). The confirm query parameter is
// the caller-side confirmation gate for a destructive action.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		response.BadRequest(w, "Deletion requires confirm=true")
		return
	}

	id := chi.URLParam(r, "id")
	photo, _ := h.store.PhotoByID(id)

	if err := h.store.DeletePhoto(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrPhotoNotFound):
			response.NotFound(w, "Photo not found")
		case errors.Is(err, ErrStorageQuotaExceeded):
			response.InsufficientStorage(w, ErrStorageQuotaExceeded.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	// A removed custom photo takes its stored blob with it. Built-ins are
	// soft-deleted and keep their static URL.
	if photo != nil && photo.IsCustom() {
		h.discardMedia(r, photo.MediaKey)
	}

	response.NoContent(w)
}

// ClearBuiltins handles DELETE /photos/builtin (admin): soft-deletes the whole
// built-in catalog in one batch. Irreversible through the API.
func (h *Handler) ClearBuiltins(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		response.BadRequest(w, "Clearing the built-in catalog requires confirm=true")
		return
	}

	if err := h.store.ClearBuiltins(r.Context()); err != nil {
		if errors.Is(err, ErrStorageQuotaExceeded) {
			response.InsufficientStorage(w, ErrStorageQuotaExceeded.Error())
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Purchase handles POST /photos/{id}/purchase. Buying the same photo twice is
// a no-op.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.PhotoByID(id); !ok {
		response.NotFound(w, "Photo not found")
		return
	}

	if err := h.store.Purchase(r.Context(), id); err != nil {
		log.Error().Err(err).Str("photo_id", id).Msg("Failed to persist purchase")
		response.InternalError(w)
		return
	}

	response.OK(w, PurchaseResponse{PhotoID: id, Purchased: true})
}

// ListPurchases handles GET /purchases
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.store.PurchasedIDs())
}

// GetLanguage handles GET /language
func (h *Handler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"language": string(h.store.Language())})
}

// SetLanguage handles PUT /language
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.store.SetLanguage(r.Context(), catalog.Language(req.Language)); err != nil {
		if errors.Is(err, ErrUnsupportedLanguage) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"language": req.Language})
}

// --- helpers ---

func (h *Handler) toResponses(photos []catalog.Photo) []PhotoResponse {
	out := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, PhotoResponse{Photo: p, Purchased: h.store.IsPurchased(p.ID)})
	}
	return out
}

func (h *Handler) requestLanguage(r *http.Request) catalog.Language {
	if lang := catalog.Language(r.URL.Query().Get("lang")); lang.Valid() {
		return lang
	}
	return h.store.Language()
}

func (h *Handler) storeMedia(r *http.Request, img *imaging.DownscaledImage) (url, key string, err error) {
	if h.media == nil {
		return img.DataURI(), "", nil
	}
	key = fmt.Sprintf("uploads/%s.jpg", uuid.New())
	if err := h.media.Put(r.Context(), key, bytes.NewReader(img.JPEG), "image/jpeg"); err != nil {
		return "", "", err
	}
	return h.media.GetURL(key), key, nil
}

// discardMedia removes a blob whose photo record is gone. Best effort: a
// failed removal is logged, the catalog stays authoritative either way.
func (h *Handler) discardMedia(r *http.Request, key string) {
	if h.media == nil || key == "" {
		return
	}
	if err := h.media.Delete(r.Context(), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to remove stored media")
	}
}

func parseUploadForm(r *http.Request) (*UploadForm, error) {
	form := &UploadForm{
		Title:   r.FormValue("title"),
		TitleAr: r.FormValue("title_ar"),
		TitleFr: r.FormValue("title_fr"),
		CityID:  r.FormValue("city_id"),
	}

	for field, dst := range map[string]*float64{
		"lat":   &form.Lat,
		"lng":   &form.Lng,
		"price": &form.Price,
	} {
		raw := r.FormValue(field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value", field)
		}
		*dst = v
	}
	return form, nil
}

// resolveLocation picks the upload's coordinates: explicit lat/lng when both
// are present, otherwise the selected city's center. An upload with neither is
// rejected rather than silently pinned to a default.
func resolveLocation(r *http.Request, form *UploadForm) (catalog.Coords, string, error) {
	hasLat := r.FormValue("lat") != ""
	hasLng := r.FormValue("lng") != ""

	if hasLat || hasLng {
		if !hasLat || !hasLng {
			return nil, "", errors.New("latitude and longitude must be provided together")
		}
		coords := catalog.Coords{form.Lat, form.Lng}
		if !coords.Valid() {
			return nil, "", ErrGeolocationInvalid
		}
		locationName := "Morocco"
		if city := catalog.CityByID(form.CityID); city != nil {
			locationName = city.Name
		}
		return coords, locationName, nil
	}

	city := catalog.CityByID(form.CityID)
	if city == nil {
		return nil, "", errors.New("select a city or provide coordinates")
	}
	return city.Center, city.Name, nil
}

package admin

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/elhabassi/portfolio-api/internal/pkg/response"
	"github.com/elhabassi/portfolio-api/internal/pkg/validator"
)

// LoginRequest carries the owner's password attempt
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the minted session token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	Admin       bool   `json:"admin"`
}

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := h.service.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Incorrect key, access denied")
			return
		}
		log.Error().Err(err).Msg("Failed to persist admin session")
		response.InternalError(w)
		return
	}

	response.OK(w, &LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.service.TokenTTL().Seconds()),
		Admin:       true,
	})
}

// Logout handles POST /admin/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to clear admin session")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Session handles GET /admin/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]bool{"admin": h.service.SessionActive()})
}

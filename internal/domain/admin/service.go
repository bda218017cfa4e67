package admin

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/elhabassi/portfolio-api/internal/pkg/jwt"
)

// bcrypt cost is modest on purpose: the gate protects convenience features
// for a single trusted operator, not user accounts
const bcryptCost = 10

// SessionStore persists the admin session flag across restarts
type SessionStore interface {
	SetAdmin(ctx context.Context, admin bool) error
	IsAdmin() bool
}

// Service handles the owner login gate
type Service struct {
	passwordHash []byte
	jwtService   *jwt.Service
	store        SessionStore
}

// NewService creates the admin service. The configured password is hashed
// once at startup so the plaintext never sits in memory longer than needed.
func NewService(password string, jwtService *jwt.Service, store SessionStore) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		passwordHash: hash,
		jwtService:   jwtService,
		store:        store,
	}, nil
}

// Login verifies the password attempt. On success the persisted admin flag is
// set and a session token minted; on mismatch nothing is persisted.
func (s *Service) Login(ctx context.Context, attempt string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(attempt)); err != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.store.SetAdmin(ctx, true); err != nil {
		return "", err
	}

	return s.jwtService.GenerateAdminToken()
}

// Logout clears the admin flag in memory and in storage
func (s *Service) Logout(ctx context.Context) error {
	return s.store.SetAdmin(ctx, false)
}

// SessionActive reports the hydrated admin flag
func (s *Service) SessionActive() bool {
	return s.store.IsAdmin()
}

// TokenTTL reports how long a minted session token stays valid
func (s *Service) TokenTTL() time.Duration {
	return s.jwtService.TTL()
}

package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elhabassi/portfolio-api/internal/pkg/jwt"
)

type fakeSessionStore struct {
	admin    bool
	setCalls int
	failSet  bool
}

func (f *fakeSessionStore) SetAdmin(ctx context.Context, admin bool) error {
	if f.failSet {
		return errors.New("backend down")
	}
	f.setCalls++
	f.admin = admin
	return nil
}

func (f *fakeSessionStore) IsAdmin() bool { return f.admin }

func newTestService(t *testing.T, store SessionStore) *Service {
	t.Helper()
	svc, err := NewService("1234", jwt.NewService("test-secret", time.Hour), store)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

func TestService_LoginWrongPassword(t *testing.T) {
	store := &fakeSessionStore{}
	svc := newTestService(t, store)

	for i := 0; i < 3; i++ {
		token, err := svc.Login(context.Background(), "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
		if token != "" {
			t.Fatalf("attempt %d: no token must be minted on failure", i+1)
		}
	}

	if store.setCalls != 0 || store.admin {
		t.Fatal("failed attempts must not touch the session store")
	}
}

func TestService_LoginCorrectPassword(t *testing.T) {
	store := &fakeSessionStore{}
	svc := newTestService(t, store)

	token, err := svc.Login(context.Background(), "1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if !store.admin {
		t.Fatal("login must persist the admin flag")
	}
	if !svc.SessionActive() {
		t.Fatal("session must be active after login")
	}
}

func TestService_LoginPersistFailure(t *testing.T) {
	store := &fakeSessionStore{failSet: true}
	svc := newTestService(t, store)

	if _, err := svc.Login(context.Background(), "1234"); err == nil {
		t.Fatal("expected error when the flag cannot be persisted")
	}
	if store.admin {
		t.Fatal("admin flag set despite persist failure")
	}
}

func TestService_Logout(t *testing.T) {
	store := &fakeSessionStore{admin: true}
	svc := newTestService(t, store)

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if store.admin {
		t.Fatal("logout must clear the admin flag")
	}
}

func TestHandler_Login(t *testing.T) {
	store := &fakeSessionStore{}
	h := NewHandler(newTestService(t, store))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"wrong"}`))
	h.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Incorrect key, access denied") {
		t.Fatalf("unexpected error message: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"1234"}`))
	h.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "access_token") {
		t.Fatalf("response missing access token: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"expires_in":3600`) {
		t.Fatalf("response missing token lifetime: %s", rr.Body.String())
	}
}

func TestHandler_Session(t *testing.T) {
	store := &fakeSessionStore{admin: true}
	h := NewHandler(newTestService(t, store))

	rr := httptest.NewRecorder()
	h.Session(rr, httptest.NewRequest(http.MethodGet, "/session", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"admin":true`) {
		t.Fatalf("expected active session, got %d: %s", rr.Code, rr.Body.String())
	}
}

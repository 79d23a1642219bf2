package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/domain/user"
	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/kv"
	"github.com/elhossary/offerwall-api/internal/pkg/password"
)

func setup(t *testing.T) (http.Handler, user.Repository, *user.User) {
	t.Helper()
	repo := user.NewRepository(kv.NewMemoryStore())
	hash, err := password.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Inject the user directly instead of issuing a token.
	asUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), u.ID, u.Email)))
		})
	}
	return NewHandler(NewService(repo)).Routes(asUser), repo, u
}

func send(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, &buf))
	return rr
}

func TestUpdateProfile(t *testing.T) {
	h, repo, u := setup(t)

	rr := send(t, h, http.MethodPut, "/", UpdateProfileRequest{Name: "Ada L.", Country: "Egypt"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	stored, _ := repo.GetByID(context.Background(), u.ID)
	if stored.Name != "Ada L." || stored.Country != "Egypt" {
		t.Fatalf("profile not stored: %+v", stored)
	}

	rr = send(t, h, http.MethodPut, "/", UpdateProfileRequest{Name: "Ada", Country: "Atlantis"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown country, got %d", rr.Code)
	}

	rr = send(t, h, http.MethodPut, "/", UpdateProfileRequest{Name: "Ada"})
	if rr.Code != http.StatusOK {
		t.Fatalf("empty country must be accepted, got %d", rr.Code)
	}

	rr = send(t, h, http.MethodGet, "/", nil)
	var out struct {
		Data ProfileResponse `json:"data"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	if out.Data.Email != "ada@example.com" || out.Data.Country != "" {
		t.Fatalf("unexpected profile: %+v", out.Data)
	}
}

func TestChangePassword(t *testing.T) {
	h, repo, u := setup(t)

	rr := send(t, h, http.MethodPost, "/password", ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong current password, got %d", rr.Code)
	}

	rr = send(t, h, http.MethodPost, "/password", ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "different1"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for mismatched confirmation, got %d", rr.Code)
	}

	rr = send(t, h, http.MethodPost, "/password", ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	stored, _ := repo.GetByID(context.Background(), u.ID)
	if !password.Verify("newpassword1", stored.PasswordHash) || password.Verify("password123", stored.PasswordHash) {
		t.Fatal("password hash was not replaced")
	}
}

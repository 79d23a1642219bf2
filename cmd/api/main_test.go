package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/elhossary/offerwall-api/internal/config"
	"github.com/elhossary/offerwall-api/internal/domain/auth"
	"github.com/elhossary/offerwall-api/internal/domain/dashboard"
	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/domain/offer"
	"github.com/elhossary/offerwall-api/internal/domain/postback"
	"github.com/elhossary/offerwall-api/internal/domain/profile"
	"github.com/elhossary/offerwall-api/internal/domain/realtime"
	"github.com/elhossary/offerwall-api/internal/domain/user"
	"github.com/elhossary/offerwall-api/internal/domain/withdrawal"
	"github.com/elhossary/offerwall-api/internal/pkg/jwt"
	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := &config.Config{Env: "test", AllowedOrigins: []string{"*"}}
	store := kv.NewMemoryStore()

	hub := realtime.NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	jwtService := jwt.NewService("test-secret", time.Hour)
	earningService := earning.NewService(earning.NewKVRepository(store, false), earning.WithNotifier(hub))
	userRepo := user.NewRepository(store)
	catalog := offer.DefaultCatalog()

	return newRouter(cfg, routerDeps{
		jwtService:        jwtService,
		authHandler:       auth.NewHandler(auth.NewService(userRepo, jwtService)),
		profileHandler:    profile.NewHandler(profile.NewService(userRepo)),
		earningHandler:    earning.NewHandler(earningService),
		withdrawalHandler: withdrawal.NewHandler(withdrawal.NewService(withdrawal.NewRepository(store), earningService, decimal.RequireFromString("0.50"))),
		offerHandler:      offer.NewHandler(catalog, nil),
		dashboardHandler:  dashboard.NewHandler(dashboard.NewService(earningService, catalog)),
		postbackHandler:   postback.NewHandler(postback.NewService(earningService, nil)),
		realtimeHandler:   realtime.NewHandler(hub, jwtService, cfg.AllowedOrigins),
	})
}

func serve(router http.Handler, method, target string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rr := serve(router, http.MethodGet, "/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestPostbackMountedOnBothPaths(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/postback", "/postback"} {
		t.Run(path, func(t *testing.T) {
			rr := serve(router, http.MethodGet, path+"?appid=7212&userid=u1&payout=0.25", nil, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			rr = serve(router, http.MethodGet, path+"?appid=7212", nil, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/auth/me",
		"/api/v1/profile",
		"/api/v1/earnings",
		"/api/v1/earnings/balance",
		"/api/v1/withdrawals",
		"/api/v1/offers",
		"/api/v1/dashboard",
	} {
		rr := serve(router, http.MethodGet, path, nil, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401, got %d", path, rr.Code)
		}
	}
}

func TestRegisterThenEarnThroughPostback(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse",
	})
	rr := serve(router, http.MethodPost, "/api/v1/auth/register", body, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var registered struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			Tokens struct {
				AccessToken string `json:"access_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	userID := registered.Data.User.ID
	token := registered.Data.Tokens.AccessToken
	if userID == "" || token == "" {
		t.Fatalf("missing user id or token: %s", rr.Body.String())
	}

	for _, payout := range []string{"0.50", "1.25"} {
		rr = serve(router, http.MethodGet, "/api/postback?appid=7212&userid="+userID+"&payout="+payout, nil, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("postback: expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
	}

	rr = serve(router, http.MethodGet, "/api/v1/earnings/balance", nil, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("balance: expected status 200, got %d", rr.Code)
	}
	var balance struct {
		Data earning.Balance `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if !balance.Data.AvailableBalance.Equal(decimal.RequireFromString("1.75")) {
		t.Fatalf("expected available 1.75, got %s", balance.Data.AvailableBalance)
	}

	rr = serve(router, http.MethodGet, "/api/v1/earnings", nil, token)
	var listed struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode earnings: %v", err)
	}
	if listed.Data.Total != 2 {
		t.Fatalf("expected 2 earnings, got %d", listed.Data.Total)
	}
}

package offer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/middleware"
)

func TestDefaultCatalogLinks(t *testing.T) {
	c := DefaultCatalog()

	cases := map[string]string{
		"monlix": "https://offers.monlix.com?appid=7212&userid=u-1",
		"adgate": "https://wall.adgaterewards.com/nqmTrg/u-1#loaded=true&hasOffers=true",
		"torox":  "https://torox.io/ifr/show/20323/u-1/7977",
	}
	for slug, want := range cases {
		n, err := c.Get(slug)
		if err != nil {
			t.Fatalf("%s: %v", slug, err)
		}
		got, err := n.Link("u-1")
		if err != nil || got != want {
			t.Fatalf("%s: expected %s, got %s (%v)", slug, want, got, err)
		}
	}

	for _, slug := range []string{"tyrads", "adgem"} {
		n, _ := c.Get(slug)
		if _, err := n.Link("u-1"); !errors.Is(err, ErrNetworkUnavailable) {
			t.Fatalf("%s: expected ErrNetworkUnavailable, got %v", slug, err)
		}
	}

	if _, err := c.Get("nope"); !errors.Is(err, ErrNetworkNotFound) {
		t.Fatalf("expected ErrNetworkNotFound, got %v", err)
	}
}

func TestForUserKeepsOrder(t *testing.T) {
	offers := DefaultCatalog().ForUser("u-1")
	if len(offers) != 5 || offers[0].Slug != "monlix" || offers[4].Slug != "torox" {
		t.Fatalf("unexpected offers: %+v", offers)
	}
	if offers[1].URL != "" || !offers[1].ComingSoon {
		t.Fatalf("coming soon network must not get a link: %+v", offers[1])
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeRecorder) RecordPendingConversion(_ context.Context, userID, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID+":"+label)
}

func TestOpenRecordsPendingConversion(t *testing.T) {
	userID := uuid.New()
	rec := &fakeRecorder{}
	asUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, "")))
		})
	}
	router := NewHandler(DefaultCatalog(), rec).Routes(asUser)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/monlix/open", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(rec.calls) != 1 || rec.calls[0] != userID.String()+":Monlix" {
		t.Fatalf("unexpected recorder calls: %v", rec.calls)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/adgem/open", nil))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for coming soon network, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/unknown/open", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("failed opens must not record conversions, got %v", rec.calls)
	}
}

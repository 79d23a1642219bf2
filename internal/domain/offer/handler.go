package offer

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/response"
)

// PendingRecorder records a pending conversion when a user opens an offer.
type PendingRecorder interface {
	RecordPendingConversion(ctx context.Context, userID, offerLabel string)
}

type Handler struct {
	catalog *Catalog
	pending PendingRecorder
}

// NewHandler creates the offer handler. A nil recorder disables mock conversions.
func NewHandler(catalog *Catalog, pending PendingRecorder) *Handler {
	return &Handler{catalog: catalog, pending: pending}
}

// List handles GET /offers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.OK(w, h.catalog.ForUser(userID.String()))
}

// Open handles POST /offers/{slug}/open
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	n, err := h.catalog.Get(chi.URLParam(r, "slug"))
	if err != nil {
		response.NotFound(w, "Offer network not found")
		return
	}

	link, err := n.Link(userID.String())
	if err != nil {
		if errors.Is(err, ErrNetworkUnavailable) {
			response.Conflict(w, n.Name+" is coming soon")
			return
		}
		response.InternalError(w)
		return
	}

	if h.pending != nil {
		h.pending.RecordPendingConversion(r.Context(), userID.String(), n.Name)
	}

	response.OK(w, map[string]interface{}{
		"slug": n.Slug,
		"url":  link,
	})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.List)
	r.Post("/{slug}/open", h.Open)
	return r
}

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/errorhandler"
	"github.com/elhossary/offerwall-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates new dashboard handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the dashboard overview
// GET /api/v1/dashboard
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	overview, err := h.svc.Overview(r.Context(), userID.String())
	if err != nil {
		errorhandler.HandleInternal(r.Context(), w, err)
		return
	}

	response.OK(w, overview)
}

// Routes returns dashboard routes
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.Get)

	return r
}

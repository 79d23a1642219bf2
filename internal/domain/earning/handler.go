package earning

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/errorhandler"
	"github.com/elhossary/offerwall-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /earnings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	earnings, err := h.svc.ListUserEarnings(r.Context(), userID.String())
	if err != nil {
		errorhandler.HandleInternal(r.Context(), w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": earnings,
		"total": len(earnings),
	})
}

// Balance handles GET /earnings/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID.String())
	if err != nil {
		errorhandler.HandleInternal(r.Context(), w, err)
		return
	}

	response.OK(w, balance)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.List)
	r.Get("/balance", h.Balance)
	return r
}

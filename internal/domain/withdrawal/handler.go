package withdrawal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/errorhandler"
	"github.com/elhossary/offerwall-api/internal/pkg/response"
	"github.com/elhossary/offerwall-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

type withdrawalRequest struct {
	Method      string          `json:"method" validate:"required,payout_method"`
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient" validate:"required,max=255"`
	ReferenceID string          `json:"reference_id" validate:"max=100"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /withdrawals
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req withdrawalRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, created, err := h.svc.Request(r.Context(), Request{
		UserID:      userID.String(),
		Method:      Method(req.Method),
		Amount:      req.Amount,
		Recipient:   req.Recipient,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrBelowMinimum):
			response.BadRequest(w, "Minimum withdrawal amount is $"+h.svc.MinAmount().String())
		case errors.Is(err, ErrInvalidRecipient):
			response.BadRequest(w, "Please enter valid recipient information")
		case errors.Is(err, ErrInsufficientFunds):
			response.Conflict(w, "insufficient available balance")
		case errors.Is(err, ErrReferenceConflict):
			response.Conflict(w, "reference_id already used with a different request")
		default:
			errorhandler.HandleInternal(r.Context(), w, err)
		}
		return
	}

	if created {
		response.Created(w, result)
		return
	}
	response.OK(w, result)
}

// List handles GET /withdrawals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	items, err := h.svc.List(r.Context(), userID.String())
	if err != nil {
		errorhandler.HandleInternal(r.Context(), w, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"items":      items,
		"min_amount": h.svc.MinAmount(),
	})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	return r
}

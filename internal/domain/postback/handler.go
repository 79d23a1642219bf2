package postback

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/pkg/logger"
	"github.com/elhossary/offerwall-api/internal/pkg/response"
)

// Reply is the body ad networks receive. It does not use the API envelope.
type Reply struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    *ReplyData `json:"data,omitempty"`
}

type ReplyData struct {
	AppID     string    `json:"appid"`
	UserID    string    `json:"userid"`
	Payout    string    `json:"payout"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	msgMissingParameters = "Missing required parameters"
	msgInvalidPayout     = "Invalid payout amount"
	msgDuplicate         = "Duplicate transaction"
	msgInternal          = "Internal server error"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Receive handles GET /postback?appid=&userid=&payout=[&txid=]
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	// Networks parse this body, so a panic must not reach the API error envelope.
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error().
				Err(fmt.Errorf("panic: %v", rec)).
				Str("stack", string(debug.Stack())).
				Msg("postback panicked")
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
	}()

	q := r.URL.Query()
	appID := strings.TrimSpace(q.Get("appid"))
	userID := strings.TrimSpace(q.Get("userid"))
	rawPayout := strings.TrimSpace(q.Get("payout"))
	txID := strings.TrimSpace(q.Get("txid"))

	if appID == "" || userID == "" || rawPayout == "" {
		writeError(w, http.StatusBadRequest, msgMissingParameters)
		return
	}

	payout, err := earning.ParseAmount(rawPayout)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayout)
		return
	}

	e, err := h.svc.ProcessPostback(r.Context(), Conversion{
		AppID:         appID,
		UserID:        userID,
		Payout:        payout,
		TransactionID: txID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingParameters):
			writeError(w, http.StatusBadRequest, msgMissingParameters)
		case errors.Is(err, ErrInvalidPayout):
			writeError(w, http.StatusBadRequest, msgInvalidPayout)
		case errors.Is(err, ErrDuplicate):
			writeError(w, http.StatusConflict, msgDuplicate)
		default:
			logger.FromContext(r.Context()).Error().Err(err).
				Str("app_id", appID).
				Str("user_id", userID).
				Msg("postback failed")
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	response.WriteJSON(w, http.StatusOK, Reply{
		Status:  "success",
		Message: "Postback processed successfully. Earning ID: " + e.ID,
		Data: &ReplyData{
			AppID:     appID,
			UserID:    userID,
			Payout:    rawPayout,
			Timestamp: e.Timestamp,
		},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	response.WriteJSON(w, status, Reply{Status: "error", Message: message})
}

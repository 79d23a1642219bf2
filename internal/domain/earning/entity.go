package earning

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// MockConversionAmount is credited as pending when a user opens an offer.
var MockConversionAmount = decimal.RequireFromString("0.50")

// Earning is one ledger row. ID and Timestamp never change after creation.
type Earning struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	AppID         string          `db:"app_id" json:"app_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Timestamp     time.Time       `db:"created_at" json:"timestamp"`
	Status        Status          `db:"status" json:"status"`
	OfferName     *string         `db:"offer_name" json:"offer_name,omitempty"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id,omitempty"`
}

// Label is the display name: the offer name when present, the app id otherwise.
func (e Earning) Label() string {
	if e.OfferName != nil && *e.OfferName != "" {
		return *e.OfferName
	}
	return e.AppID
}

// NewEarning is the input for Service.AddEarning.
type NewEarning struct {
	UserID        string
	AppID         string
	Amount        decimal.Decimal
	Status        Status
	OfferName     string
	TransactionID string
}

// Balance is the derived per-user snapshot.
// TotalEarnings always equals AvailableBalance + PendingBalance.
type Balance struct {
	UserID           string          `db:"user_id" json:"user_id"`
	TotalEarnings    decimal.Decimal `db:"total_earnings" json:"total_earnings"`
	AvailableBalance decimal.Decimal `db:"available_balance" json:"available_balance"`
	PendingBalance   decimal.Decimal `db:"pending_balance" json:"pending_balance"`
}

// Summarize derives a balance snapshot from the given user's earnings.
// Records belonging to other users are ignored.
func Summarize(userID string, earnings []Earning) Balance {
	available := decimal.Zero
	pending := decimal.Zero

	for _, e := range earnings {
		if e.UserID != userID {
			continue
		}
		switch e.Status {
		case StatusCompleted:
			available = available.Add(e.Amount)
		case StatusPending:
			pending = pending.Add(e.Amount)
		}
	}

	return Balance{
		UserID:           userID,
		TotalEarnings:    available.Add(pending),
		AvailableBalance: available,
		PendingBalance:   pending,
	}
}

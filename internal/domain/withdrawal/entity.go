package withdrawal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodPayPal  Method = "paypal"
	MethodPayeer  Method = "payeer"
	MethodBitcoin Method = "bitcoin"
	MethodEth     Method = "eth"
)

// DisplayName is the label shown to users.
func (m Method) DisplayName() string {
	switch m {
	case MethodPayPal:
		return "PayPal"
	case MethodPayeer:
		return "Payeer"
	case MethodBitcoin:
		return "Bitcoin"
	case MethodEth:
		return "Ethereum"
	}
	return string(m)
}

type Status string

const (
	StatusRequested Status = "requested"
)

// Withdrawal is a payout request. It reserves funds but never changes ledger records.
type Withdrawal struct {
	ID          uuid.UUID       `json:"id"`
	UserID      string          `json:"user_id"`
	Method      Method          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient"`
	Status      Status          `json:"status"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Outstanding reports whether the request still reserves funds.
func (w Withdrawal) Outstanding() bool {
	return w.Status == StatusRequested
}

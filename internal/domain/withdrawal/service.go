package withdrawal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/pkg/validator"
)

// BalanceReader is the part of the ledger withdrawals depend on.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID string) (*earning.Balance, error)
}

type Service struct {
	repo      *Repository
	balances  BalanceReader
	minAmount decimal.Decimal

	mu sync.Mutex
}

func NewService(repo *Repository, balances BalanceReader, minAmount decimal.Decimal) *Service {
	return &Service{repo: repo, balances: balances, minAmount: minAmount}
}

// MinAmount returns the smallest accepted withdrawal.
func (s *Service) MinAmount() decimal.Decimal {
	return s.minAmount
}

// Request is the input for Service.Request.
type Request struct {
	UserID      string
	Method      Method
	Amount      decimal.Decimal
	Recipient   string
	ReferenceID string
}

// Request reserves funds for a payout. A repeated reference id returns the
// original request instead of reserving twice.
func (s *Service) Request(ctx context.Context, req Request) (*Withdrawal, bool, error) {
	if !req.Amount.IsPositive() {
		return nil, false, ErrInvalidAmount
	}
	if req.Amount.LessThan(s.minAmount) {
		return nil, false, ErrBelowMinimum
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		return nil, false, ErrInvalidRecipient
	}
	if req.Method == MethodPayPal && validator.ValidateVar(recipient, "email") != nil {
		return nil, false, ErrInvalidRecipient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}

	outstanding := decimal.Zero
	for _, w := range existing {
		if req.ReferenceID != "" && w.ReferenceID != nil && *w.ReferenceID == req.ReferenceID {
			if !w.Amount.Equal(req.Amount) || w.Method != req.Method {
				return nil, false, ErrReferenceConflict
			}
			found := w
			return &found, false, nil
		}
		if w.Outstanding() {
			outstanding = outstanding.Add(w.Amount)
		}
	}

	balance, err := s.balances.GetBalance(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}
	if req.Amount.GreaterThan(balance.AvailableBalance.Sub(outstanding)) {
		return nil, false, ErrInsufficientFunds
	}

	w := Withdrawal{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Method:    req.Method,
		Amount:    req.Amount,
		Recipient: recipient,
		Status:    StatusRequested,
		CreatedAt: time.Now().UTC(),
	}
	if req.ReferenceID != "" {
		ref := req.ReferenceID
		w.ReferenceID = &ref
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, false, err
	}

	log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("user_id", w.UserID).
		Str("method", string(w.Method)).
		Str("amount", w.Amount.String()).
		Msg("withdrawal requested")
	return &w, true, nil
}

// List returns the user's requests in creation order.
func (s *Service) List(ctx context.Context, userID string) ([]Withdrawal, error) {
	return s.repo.ListByUser(ctx, userID)
}

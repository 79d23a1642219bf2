package postback

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/elhossary/offerwall-api/internal/domain/earning"
)

// Ledger is the part of earning.Service the postback flow needs.
type Ledger interface {
	AddEarning(ctx context.Context, in earning.NewEarning) (*earning.Earning, error)
}

// Conversion is a validated postback.
type Conversion struct {
	AppID         string
	UserID        string
	Payout        decimal.Decimal
	TransactionID string
}

type Service struct {
	ledger  Ledger
	deduper Deduper
}

// NewService creates the postback service. A nil deduper disables duplicate detection.
func NewService(ledger Ledger, deduper Deduper) *Service {
	return &Service{ledger: ledger, deduper: deduper}
}

// DedupeEnabled reports whether transaction ids are checked.
func (s *Service) DedupeEnabled() bool {
	return s.deduper != nil
}

// ProcessPostback credits a confirmed conversion as a completed earning.
func (s *Service) ProcessPostback(ctx context.Context, c Conversion) (*earning.Earning, error) {
	if c.AppID == "" || c.UserID == "" {
		return nil, ErrMissingParameters
	}
	if !c.Payout.IsPositive() {
		return nil, ErrInvalidPayout
	}

	in := earning.NewEarning{
		UserID: c.UserID,
		AppID:  c.AppID,
		Amount: c.Payout,
		Status: earning.StatusCompleted,
	}

	claimed := false
	if s.deduper != nil && c.TransactionID != "" {
		ok, err := s.deduper.Claim(ctx, c.AppID, c.TransactionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicate
		}
		claimed = true
		in.TransactionID = c.TransactionID
	}

	e, err := s.ledger.AddEarning(ctx, in)
	if err != nil {
		if claimed && !errors.Is(err, earning.ErrDuplicateTransaction) {
			if relErr := s.deduper.Release(ctx, c.AppID, c.TransactionID); relErr != nil {
				log.Warn().Err(relErr).Str("app_id", c.AppID).Str("txid", c.TransactionID).Msg("failed to release postback claim")
			}
		}
		if errors.Is(err, earning.ErrDuplicateTransaction) {
			return nil, ErrDuplicate
		}
		if errors.Is(err, earning.ErrInvalidAmount) {
			return nil, ErrInvalidPayout
		}
		return nil, err
	}

	log.Info().
		Str("earning_id", e.ID).
		Str("app_id", c.AppID).
		Str("user_id", c.UserID).
		Str("payout", c.Payout.String()).
		Msg("postback processed")

	return e, nil
}

package earning

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Notifier is told about every earning that was stored.
type Notifier interface {
	EarningAdded(ctx context.Context, e Earning, b Balance)
}

type Option func(*Service)

// WithNotifier registers a listener for new earnings.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithPersistOnRead controls whether GetBalance stores a snapshot for first-seen users.
func WithPersistOnRead(persist bool) Option {
	return func(s *Service) { s.persistOnRead = persist }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the ledger. Mutations are serialized so that appending a record
// and recomputing the owner's snapshot happen as one step.
type Service struct {
	repo          Repository
	notifier      Notifier
	persistOnRead bool
	now           func() time.Time

	mu sync.Mutex
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		persistOnRead: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListEarnings returns every record in insertion order.
func (s *Service) ListEarnings(ctx context.Context) ([]Earning, error) {
	return s.repo.List(ctx)
}

// ListUserEarnings returns the records owned by userID in insertion order.
func (s *Service) ListUserEarnings(ctx context.Context, userID string) ([]Earning, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AddEarning appends a record and refreshes the owner's balance snapshot.
func (s *Service) AddEarning(ctx context.Context, in NewEarning) (*Earning, error) {
	if err := ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	now := s.now()
	e := Earning{
		ID:        newEarningID(now),
		UserID:    in.UserID,
		AppID:     in.AppID,
		Amount:    in.Amount,
		Timestamp: time.UnixMilli(now.UnixMilli()).UTC(),
		Status:    in.Status,
	}
	if in.OfferName != "" {
		name := in.OfferName
		e.OfferName = &name
	}
	if in.TransactionID != "" {
		txID := in.TransactionID
		e.TransactionID = &txID
	}

	if err := s.repo.Append(ctx, e); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	balance, err := s.recomputeLocked(ctx, e.UserID)
	s.mu.Unlock()
	if err != nil {
		// The record is stored; the snapshot can be rebuilt later.
		log.Error().Err(err).Str("user_id", e.UserID).Str("earning_id", e.ID).Msg("balance recompute failed after append")
	}

	log.Info().
		Str("earning_id", e.ID).
		Str("user_id", e.UserID).
		Str("app_id", e.AppID).
		Str("amount", e.Amount.String()).
		Str("status", string(e.Status)).
		Msg("earning recorded")

	if s.notifier != nil && err == nil {
		s.notifier.EarningAdded(ctx, e, balance)
	}
	return &e, nil
}

// RecomputeBalance derives the user's snapshot from their records and stores it.
func (s *Service) RecomputeBalance(ctx context.Context, userID string) (*Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.recomputeLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) recomputeLocked(ctx context.Context, userID string) (Balance, error) {
	earnings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Balance{}, err
	}
	b := Summarize(userID, earnings)
	if err := s.repo.SaveBalance(ctx, b); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// GetBalance returns the stored snapshot. For a user without one the snapshot is
// derived from their records and, when persist-on-read is enabled, stored.
func (s *Service) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	b, err := s.repo.FindBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	if s.persistOnRead {
		return s.RecomputeBalance(ctx, userID)
	}

	earnings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(userID, earnings)
	return &summary, nil
}

// RecomputeAll rebuilds the snapshot of every user that owns at least one record.
func (s *Service) RecomputeAll(ctx context.Context) ([]Balance, error) {
	ids, err := s.repo.UserIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Balance, 0, len(ids))
	for _, id := range ids {
		b, err := s.RecomputeBalance(ctx, id)
		if err != nil {
			return out, fmt.Errorf("recompute %s: %w", id, err)
		}
		out = append(out, *b)
	}
	return out, nil
}

// RecordPendingConversion stores a pending earning for an offer the user just opened.
// Failures are logged and never returned.
func (s *Service) RecordPendingConversion(ctx context.Context, userID, offerLabel string) {
	_, err := s.AddEarning(ctx, NewEarning{
		UserID:    userID,
		AppID:     offerLabel,
		Amount:    MockConversionAmount,
		Status:    StatusPending,
		OfferName: offerLabel,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("offer", offerLabel).Msg("pending conversion not recorded")
	}
}

func newEarningID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("earning_%d_%s", now.UnixMilli(), suffix)
}

const (
	// AmountScale is the number of fractional digits every ledger driver stores exactly.
	AmountScale = 6
	// maxAmountIntegerDigits keeps amounts below 10^14, the NUMERIC(20, 6) range.
	maxAmountIntegerDigits = 14
	maxAmountInputLength   = 32
)

// ValidateAmount accepts positive amounts below 10^14 with at most AmountScale
// fractional digits. Exponents are checked before any value is expanded.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	digits := d.NumDigits()
	exp := int(d.Exponent())
	if digits+exp > maxAmountIntegerDigits {
		return ErrInvalidAmount
	}
	if exp < -AmountScale {
		// The mantissa has fewer than digits trailing zeros.
		if exp < -(AmountScale + digits) {
			return ErrInvalidAmount
		}
		if !d.Equal(d.Truncate(AmountScale)) {
			return ErrInvalidAmount
		}
	}
	return nil
}

// ParseAmount parses an amount accepted by ValidateAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountInputLength {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

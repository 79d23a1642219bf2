package dashboard

import (
	"context"

	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/domain/offer"
)

const recentEarningsLimit = 10

// Ledger is the read side of earning.Service used by the dashboard.
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (*earning.Balance, error)
	ListUserEarnings(ctx context.Context, userID string) ([]earning.Earning, error)
}

// Overview is everything the dashboard page renders.
type Overview struct {
	UserID         string            `json:"user_id"`
	Balance        *earning.Balance  `json:"balance"`
	RecentEarnings []earning.Earning `json:"recent_earnings"`
	EarningsCount  int               `json:"earnings_count"`
	Offers         []offer.Offer     `json:"offers"`
}

// Service provides the dashboard overview
type Service struct {
	ledger  Ledger
	catalog *offer.Catalog
}

// NewService creates dashboard service
func NewService(ledger Ledger, catalog *offer.Catalog) *Service {
	return &Service{ledger: ledger, catalog: catalog}
}

// Overview returns the balance, newest earnings first, and personal offer links.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	earnings, err := s.ledger.ListUserEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]earning.Earning, 0, recentEarningsLimit)
	for i := len(earnings) - 1; i >= 0 && len(recent) < recentEarningsLimit; i-- {
		recent = append(recent, earnings[i])
	}

	return &Overview{
		UserID:         userID,
		Balance:        balance,
		RecentEarnings: recent,
		EarningsCount:  len(earnings),
		Offers:         s.catalog.ForUser(userID),
	}, nil
}

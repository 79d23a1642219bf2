package withdrawal

import (
	"context"
	"fmt"

	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

const TableWithdrawals = "withdrawals"

type Repository struct {
	items *kv.Collection[Withdrawal]
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{items: kv.NewCollection[Withdrawal](store, TableWithdrawals)}
}

func (r *Repository) Create(ctx context.Context, w Withdrawal) error {
	err := r.items.Update(ctx, nil, func(items []Withdrawal) ([]Withdrawal, error) {
		return append(items, w), nil
	})
	if err != nil {
		return fmt.Errorf("withdrawal repository create: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Withdrawal, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository list: %w", err)
	}

	out := make([]Withdrawal, 0)
	for _, w := range items {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

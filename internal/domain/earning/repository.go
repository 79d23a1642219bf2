package earning

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

const (
	TableEarnings = "earnings"
	TableBalances = "balances"
)

// Repository persists earning records and balance snapshots.
type Repository interface {
	Append(ctx context.Context, e Earning) error
	List(ctx context.Context) ([]Earning, error)
	ListByUser(ctx context.Context, userID string) ([]Earning, error)
	// FindBalance returns nil, nil when no snapshot exists for userID.
	FindBalance(ctx context.Context, userID string) (*Balance, error)
	SaveBalance(ctx context.Context, b Balance) error
	UserIDs(ctx context.Context) ([]string, error)
}

// KVRepository keeps the earnings and balances tables as whole JSON blobs in a kv.Store.
// Unreadable data degrades to an empty table unless strict is set.
type KVRepository struct {
	earnings *kv.Collection[Earning]
	balances *kv.Collection[Balance]
	strict   bool
}

func NewKVRepository(store kv.Store, strict bool) *KVRepository {
	return &KVRepository{
		earnings: kv.NewCollection[Earning](store, TableEarnings),
		balances: kv.NewCollection[Balance](store, TableBalances),
		strict:   strict,
	}
}

// tolerate decides whether a read failure is swallowed.
func (r *KVRepository) tolerate(table string, err error) error {
	if r.strict {
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	log.Warn().Err(err).Str("table", table).Msg("ledger table unreadable, treating as empty")
	return nil
}

func (r *KVRepository) load(ctx context.Context) ([]Earning, error) {
	items, err := r.earnings.Load(ctx)
	if err != nil {
		if err := r.tolerate(TableEarnings, err); err != nil {
			return nil, err
		}
		return []Earning{}, nil
	}
	return items, nil
}

func (r *KVRepository) loadBalances(ctx context.Context) ([]Balance, error) {
	items, err := r.balances.Load(ctx)
	if err != nil {
		if err := r.tolerate(TableBalances, err); err != nil {
			return nil, err
		}
		return []Balance{}, nil
	}
	return items, nil
}

// Append adds e to the earnings table. A backend read failure aborts the write so a
// transient outage never overwrites history; a corrupt blob is replaced unless strict.
func (r *KVRepository) Append(ctx context.Context, e Earning) error {
	err := r.earnings.Update(ctx, func(err error) error { return r.tolerate(TableEarnings, err) },
		func(items []Earning) ([]Earning, error) {
			if e.TransactionID != nil {
				for _, existing := range items {
					if existing.AppID == e.AppID && existing.TransactionID != nil && *existing.TransactionID == *e.TransactionID {
						return nil, ErrDuplicateTransaction
					}
				}
			}
			return append(items, e), nil
		})
	return classifyWrite(err)
}

func (r *KVRepository) List(ctx context.Context) ([]Earning, error) {
	return r.load(ctx)
}

func (r *KVRepository) ListByUser(ctx context.Context, userID string) ([]Earning, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Earning, 0)
	for _, e := range items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *KVRepository) FindBalance(ctx context.Context, userID string) (*Balance, error) {
	items, err := r.loadBalances(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].UserID == userID {
			b := items[i]
			return &b, nil
		}
	}
	return nil, nil
}

// SaveBalance inserts or replaces the snapshot keyed by user id.
func (r *KVRepository) SaveBalance(ctx context.Context, b Balance) error {
	err := r.balances.Update(ctx, func(err error) error { return r.tolerate(TableBalances, err) },
		func(items []Balance) ([]Balance, error) {
			for i := range items {
				if items[i].UserID == b.UserID {
					items[i] = b
					return items, nil
				}
			}
			return append(items, b), nil
		})
	return classifyWrite(err)
}

func (r *KVRepository) UserIDs(ctx context.Context) ([]string, error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, e := range items {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		ids = append(ids, e.UserID)
	}
	sort.Strings(ids)
	return ids, nil
}

func classifyWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateTransaction), errors.Is(err, ErrStorageRead), errors.Is(err, ErrStorageWrite):
		return err
	case errors.Is(err, kv.ErrCorrupt), errors.Is(err, kv.ErrRead):
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
}

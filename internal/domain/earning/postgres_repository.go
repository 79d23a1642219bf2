package earning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const sqlStateUniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS earnings (
	seq            BIGSERIAL,
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	app_id         TEXT NOT NULL,
	amount         NUMERIC(20, 6) NOT NULL CHECK (amount > 0),
	status         TEXT NOT NULL CHECK (status IN ('pending', 'completed')),
	offer_name     TEXT,
	transaction_id TEXT,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_earnings_user_id ON earnings (user_id, seq);
CREATE UNIQUE INDEX IF NOT EXISTS ux_earnings_app_transaction
	ON earnings (app_id, transaction_id) WHERE transaction_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS user_balances (
	user_id           TEXT PRIMARY KEY,
	total_earnings    NUMERIC(38, 6) NOT NULL,
	available_balance NUMERIC(38, 6) NOT NULL,
	pending_balance   NUMERIC(38, 6) NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const earningColumns = `id, user_id, app_id, amount, status, offer_name, transaction_id, created_at`

// PostgresRepository stores one row per earning and upserts balances by user id,
// so concurrent writers never overwrite each other's records.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the ledger tables if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("earning schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Append(ctx context.Context, e Earning) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO earnings (`+earningColumns+`)
		VALUES (:id, :user_id, :app_id, :amount, :status, :offer_name, :transaction_id, :created_at)
	`, e)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation && pqErr.Constraint == "ux_earnings_app_transaction" {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("%w: insert earning: %v", ErrStorageWrite, err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Earning, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	earnings := make([]Earning, 0)
	err := r.db.SelectContext(ctx2, &earnings, `SELECT `+earningColumns+` FROM earnings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: list earnings: %v", ErrStorageRead, err)
	}
	return earnings, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Earning, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	earnings := make([]Earning, 0)
	err := r.db.SelectContext(ctx2, &earnings, `
		SELECT `+earningColumns+`
		FROM earnings
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user earnings: %v", ErrStorageRead, err)
	}
	return earnings, nil
}

func (r *PostgresRepository) FindBalance(ctx context.Context, userID string) (*Balance, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Balance
	err := r.db.GetContext(ctx2, &b, `
		SELECT user_id, total_earnings, available_balance, pending_balance
		FROM user_balances
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get balance: %v", ErrStorageRead, err)
	}
	return &b, nil
}

func (r *PostgresRepository) SaveBalance(ctx context.Context, b Balance) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO user_balances (user_id, total_earnings, available_balance, pending_balance)
		VALUES (:user_id, :total_earnings, :available_balance, :pending_balance)
		ON CONFLICT (user_id) DO UPDATE SET
			total_earnings = EXCLUDED.total_earnings,
			available_balance = EXCLUDED.available_balance,
			pending_balance = EXCLUDED.pending_balance,
			updated_at = now()
	`, b)
	if err != nil {
		return fmt.Errorf("%w: upsert balance: %v", ErrStorageWrite, err)
	}
	return nil
}

func (r *PostgresRepository) UserIDs(ctx context.Context) ([]string, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ids := make([]string, 0)
	if err := r.db.SelectContext(ctx2, &ids, `SELECT DISTINCT user_id FROM earnings ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("%w: list user ids: %v", ErrStorageRead, err)
	}
	return ids, nil
}

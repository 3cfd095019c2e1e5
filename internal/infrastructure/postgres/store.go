package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentStore persists payment records keyed by idempotency
// identifier. Rows are write-once: Insert never overwrites and no
// update path exists.
type PaymentStore struct {
	db *DB
}

func NewPaymentStore(db *DB) *PaymentStore {
	return &PaymentStore{db: db}
}

var _ application.PaymentStore = (*PaymentStore)(nil)

// Insert is insert-if-absent: ON CONFLICT DO NOTHING makes the
// check-and-set atomic across gateway instances, and RowsAffected
// reports who won the race.
func (s *PaymentStore) Insert(ctx context.Context, payment *domain.Payment) (bool, error) {
	query := `
		INSERT INTO payments (
			id, card_last_four, expiry_month, expiry_year, currency, amount, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := s.db.Pool.Exec(ctx, query,
		payment.ID,
		payment.CardLastFour,
		payment.ExpiryMonth,
		payment.ExpiryYear,
		payment.Currency,
		payment.Amount,
		string(payment.Status),
		payment.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert payment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *PaymentStore) Lookup(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, card_last_four, expiry_month, expiry_year, currency, amount, status, created_at
		FROM payments WHERE id = $1
	`

	row := s.db.Pool.QueryRow(ctx, query, id)

	var m paymentModel
	err := row.Scan(
		&m.ID,
		&m.CardLastFour,
		&m.ExpiryMonth,
		&m.ExpiryYear,
		&m.Currency,
		&m.Amount,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	return m.toDomain(), nil
}

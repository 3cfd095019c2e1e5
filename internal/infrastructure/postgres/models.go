package postgres

import (
	"time"

	"github.com/fluxpay/payment-gateway/internal/domain"
)

type paymentModel struct {
	ID           string
	CardLastFour int
	ExpiryMonth  int
	ExpiryYear   int
	Currency     string
	Amount       int64
	Status       string
	CreatedAt    time.Time
}

func (m *paymentModel) toDomain() *domain.Payment {
	return domain.Reconstitute(
		m.ID,
		m.CardLastFour,
		m.ExpiryMonth,
		m.ExpiryYear,
		m.Currency,
		m.Amount,
		domain.PaymentStatus(m.Status),
		m.CreatedAt,
	)
}

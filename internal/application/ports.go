package application

import (
	"context"

	"github.com/fluxpay/payment-gateway/internal/domain"
)

// BankPaymentRequest is the outbound shape for the acquiring bank.
// It carries the only copy of the full card number and CVV that leaves
// the processing pipeline; neither field may be persisted or logged.
type BankPaymentRequest struct {
	CardNumber string
	ExpiryDate string // MM/YYYY
	Currency   string
	Amount     int64
	Cvv        string
}

// BankPaymentResponse is the bank's verdict on a well-formed request.
// A decline is a normal outcome, not an error; transport failures and
// contract violations surface as errors from BankClient instead.
type BankPaymentResponse struct {
	Authorized        bool
	AuthorizationCode string
}

// BankClient is the port for the external acquiring bank.
type BankClient interface {
	Authorize(ctx context.Context, req BankPaymentRequest) (*BankPaymentResponse, error)
}

// PaymentStore is the port for persistence, keyed by the idempotency
// identifier. Records are immutable: there is no update or delete.
type PaymentStore interface {
	// Insert stores the payment only when its ID is absent. It returns
	// false, without error, when another writer already owns the ID.
	Insert(ctx context.Context, payment *domain.Payment) (bool, error)
	// Lookup returns (nil, nil) when the ID has never been processed.
	Lookup(ctx context.Context, id string) (*domain.Payment, error)
}

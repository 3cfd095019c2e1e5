// Package memstore provides the in-memory payment store. It backs
// single-instance deployments and tests; the postgres store carries the
// same contract for anything beyond that.
package memstore

import (
	"context"
	"sync"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/domain"
)

type PaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{
		payments: make(map[string]*domain.Payment),
	}
}

var _ application.PaymentStore = (*PaymentStore)(nil)

// Insert stores the payment only if its ID is absent. The write lock
// makes the check-and-set atomic, so concurrent writers for one ID
// resolve to exactly one winner.
func (s *PaymentStore) Insert(ctx context.Context, payment *domain.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[payment.ID]; ok {
		return false, nil
	}

	copied := *payment
	s.payments[payment.ID] = &copied
	return true, nil
}

func (s *PaymentStore) Lookup(ctx context.Context, id string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, nil
	}

	// Records are immutable; hand out a copy so no caller can touch the
	// stored one.
	copied := *payment
	return &copied, nil
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/domain"
)

// MockPaymentStore
type MockPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	InsertFn func(ctx context.Context, payment *domain.Payment) (bool, error)
	LookupFn func(ctx context.Context, id string) (*domain.Payment, error)
}

func NewMockPaymentStore() *MockPaymentStore {
	return &MockPaymentStore{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentStore) Insert(ctx context.Context, payment *domain.Payment) (bool, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; ok {
		return false, nil
	}
	m.payments[payment.ID] = payment
	return true, nil
}

func (m *MockPaymentStore) Lookup(ctx context.Context, id string) (*domain.Payment, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, nil
}

func (m *MockPaymentStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// MockBankClient
type MockBankClient struct {
	mu    sync.Mutex
	calls int

	// Delay widens the race window in concurrency tests.
	Delay       time.Duration
	AuthorizeFn func(ctx context.Context, req application.BankPaymentRequest) (*application.BankPaymentResponse, error)
}

func (m *MockBankClient) Authorize(ctx context.Context, req application.BankPaymentRequest) (*application.BankPaymentResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, req)
	}
	return &application.BankPaymentResponse{
		Authorized:        true,
		AuthorizationCode: "auth-code-1",
	}, nil
}

func (m *MockBankClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

package services

import (
	"context"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/domain"
)

type QueryService struct {
	store application.PaymentStore
}

func NewQueryService(store application.PaymentStore) *QueryService {
	return &QueryService{
		store: store,
	}
}

// FindByID is a pure read of a previously processed payment. It returns
// (nil, nil) when the identifier has never been processed; absence is
// not an error at this layer.
func (s *QueryService) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.store.Lookup(ctx, id)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return payment, nil
}

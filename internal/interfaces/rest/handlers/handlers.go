package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fluxpay/payment-gateway/internal/application/services"
	"github.com/fluxpay/payment-gateway/internal/domain"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

// PaymentProcessor runs the payment pipeline for one request.
type PaymentProcessor interface {
	Process(ctx context.Context, cmd services.ProcessCommand) (*domain.Payment, error)
}

// PaymentFinder reads back a previously processed payment.
type PaymentFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
}

type Handlers struct {
	processor PaymentProcessor
	finder    PaymentFinder
	validator *rest.RequestValidator
	logger    *slog.Logger
}

func NewHandlers(
	processor PaymentProcessor,
	finder PaymentFinder,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		processor: processor,
		finder:    finder,
		validator: rest.NewRequestValidator(),
		logger:    logger,
	}
}

func (h *Handlers) Routes(r chi.Router) {
	r.Post("/api/payments", h.ProcessPayment)
	r.Get("/api/payments/{id}", h.GetPayment)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

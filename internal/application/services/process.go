package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProcessService orchestrates one payment attempt: idempotency
// resolution, bank authorization, status derivation and persistence.
type ProcessService struct {
	store  application.PaymentStore
	bank   application.BankClient
	logger *slog.Logger
	group  singleflight.Group
}

func NewProcessService(
	store application.PaymentStore,
	bank application.BankClient,
	logger *slog.Logger,
) *ProcessService {
	return &ProcessService{
		store:  store,
		bank:   bank,
		logger: logger,
	}
}

// Process resolves the command's identifier to its permanent outcome.
// A replayed identifier returns the original record without touching the
// bank, regardless of payload differences in the replay. Concurrent
// calls sharing an identifier collapse into a single bank invocation.
func (s *ProcessService) Process(ctx context.Context, cmd ProcessCommand) (*domain.Payment, error) {
	existing, err := s.store.Lookup(ctx, cmd.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	result, err, _ := s.group.Do(cmd.ID, func() (any, error) {
		return s.authorize(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Payment), nil
}

func (s *ProcessService) authorize(ctx context.Context, cmd ProcessCommand) (*domain.Payment, error) {
	// A concurrent caller may have finished between the fast-path lookup
	// and this flight winning the key.
	existing, err := s.store.Lookup(ctx, cmd.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	bankReq := application.BankPaymentRequest{
		CardNumber: cmd.CardNumber,
		ExpiryDate: domain.FormatExpiry(cmd.ExpiryMonth, cmd.ExpiryYear),
		Currency:   cmd.Currency,
		Amount:     cmd.Amount,
		Cvv:        cmd.CVV,
	}

	bankResp, err := s.bank.Authorize(ctx, bankReq)
	if err != nil {
		// Nothing is persisted here: storing a DECLINED record for an
		// infrastructure failure would contradict a later successful
		// retry against the bank.
		return nil, s.mapBankError(cmd.ID, err)
	}

	status := domain.StatusFromAuthorization(bankResp.Authorized)

	// The record is always built from the original command, never from
	// card data echoed back by the bank.
	payment, err := domain.NewPayment(
		cmd.ID,
		cmd.CardNumber,
		cmd.ExpiryMonth,
		cmd.ExpiryYear,
		cmd.Currency,
		cmd.Amount,
		status,
	)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	inserted, err := s.store.Insert(ctx, payment)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if !inserted {
		// Lost the insert race against another gateway instance. The
		// first record is the permanent answer for this identifier.
		winner, err := s.store.Lookup(ctx, cmd.ID)
		if err != nil {
			return nil, application.NewInternalError(err)
		}
		if winner == nil {
			return nil, application.NewInternalError(errors.New("insert lost race but winner record is missing"))
		}
		return winner, nil
	}

	s.logger.Info("payment processed",
		"payment_id", payment.ID,
		"status", payment.Status,
		"currency", payment.Currency,
		"amount", payment.Amount,
	)

	return payment, nil
}

func (s *ProcessService) mapBankError(paymentID string, err error) error {
	switch {
	case errors.Is(err, application.ErrBankUnavailable):
		s.logger.Warn("bank unavailable", "payment_id", paymentID, "error", err)
		return application.NewBankUnavailableError(err)
	case errors.Is(err, application.ErrBankInvalidResponse):
		s.logger.Warn("bank returned invalid response", "payment_id", paymentID, "error", err)
		return application.NewBankInvalidResponseError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return application.NewInternalError(err)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/application/services"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest"
	"github.com/google/uuid"
)

// ProcessPayment handles POST /api/payments. The idempotency identifier
// comes from the Idempotency-Key header; callers that omit it get a
// generated one, which makes every such call a distinct attempt.
func (h *Handlers) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req rest.PostPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	if details := h.validator.ValidateProcessPayment(&req); details != nil {
		rest.WriteValidationError(w, details)
		return
	}

	id := r.Header.Get("Idempotency-Key")
	if id == "" {
		id = uuid.New().String()
	}

	cmd := services.ProcessCommand{
		ID:          id,
		CardNumber:  req.CardNumber,
		CVV:         req.Cvv,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Currency:    req.Currency,
		Amount:      req.Amount,
	}

	payment, err := h.processor.Process(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			// The client went away; there is nobody to answer.
			return
		}
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, payment)
}

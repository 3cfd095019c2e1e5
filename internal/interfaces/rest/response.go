package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fluxpay/payment-gateway/internal/domain"
)

// PaymentResponse is the caller-facing projection of a payment record.
// It is recomputed from the record on every read and never carries the
// full card number or CVV.
type PaymentResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	CardLastFour int       `json:"card_last_four"`
	ExpiryMonth  int       `json:"expiry_month"`
	ExpiryYear   int       `json:"expiry_year"`
	Currency     string    `json:"currency"`
	Amount       int64     `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}

type SuccessResponse struct {
	Success bool            `json:"success"`
	Data    PaymentResponse `json:"data"`
}

func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		Status:       string(p.Status),
		CardLastFour: p.CardLastFour,
		ExpiryMonth:  p.ExpiryMonth,
		ExpiryYear:   p.ExpiryYear,
		Currency:     p.Currency,
		Amount:       p.Amount,
		CreatedAt:    p.CreatedAt,
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, payment *domain.Payment) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    ToPaymentResponse(payment),
	})
}

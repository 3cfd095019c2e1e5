// Package domain encodes the payment record and its attributes
package domain

import (
	"errors"
	"time"
)

// PaymentStatus is the terminal verdict stored for a payment.
// Only an explicit bank decision produces a status; infrastructure
// failures never do.
type PaymentStatus string

const (
	StatusAuthorized PaymentStatus = "AUTHORIZED"
	StatusDeclined   PaymentStatus = "DECLINED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusAuthorized, StatusDeclined:
		return true
	}
	return false
}

// Payment is the system of record for one processed payment attempt.
// The ID doubles as the idempotency identifier: once a record exists for
// an ID it is immutable and is the permanent answer to any replay of that
// ID. Only the last four card digits are ever retained.
type Payment struct {
	ID           string
	CardLastFour int
	ExpiryMonth  int
	ExpiryYear   int
	Currency     string
	Amount       int64
	Status       PaymentStatus
	CreatedAt    time.Time
}

func NewPayment(
	id string,
	cardNumber string,
	expiryMonth, expiryYear int,
	currency string,
	amount int64,
	status PaymentStatus,
) (*Payment, error) {
	if id == "" {
		return nil, errors.New("payment ID is required")
	}
	if !status.IsValid() {
		return nil, errors.New("payment status is invalid")
	}

	lastFour, err := CardLastFour(cardNumber)
	if err != nil {
		return nil, err
	}

	return &Payment{
		ID:           id,
		CardLastFour: lastFour,
		ExpiryMonth:  expiryMonth,
		ExpiryYear:   expiryYear,
		Currency:     currency,
		Amount:       amount,
		Status:       status,
		CreatedAt:    time.Now(),
	}, nil
}

// StatusFromAuthorization derives the stored status from a well-formed
// bank verdict. Callers must have already ruled out transport failures.
func StatusFromAuthorization(authorized bool) PaymentStatus {
	if authorized {
		return StatusAuthorized
	}
	return StatusDeclined
}

// Reconstitute - Special constructor for loading from storage
func Reconstitute(
	id string,
	cardLastFour int,
	expiryMonth, expiryYear int,
	currency string,
	amount int64,
	status PaymentStatus,
	createdAt time.Time,
) *Payment {
	return &Payment{
		ID:           id,
		CardLastFour: cardLastFour,
		ExpiryMonth:  expiryMonth,
		ExpiryYear:   expiryYear,
		Currency:     currency,
		Amount:       amount,
		Status:       status,
		CreatedAt:    createdAt,
	}
}

package rest

import (
	"time"

	"github.com/go-playground/validator"
)

// PostPaymentRequest is the inbound payment shape. CardNumber and Cvv
// exist only for the duration of one request: they are handed to the
// pipeline and never echoed back, stored, or logged.
type PostPaymentRequest struct {
	CardNumber  string `json:"card_number" validate:"required,min=14,max=19"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,gte=1,lte=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3,oneof=USD GBP EUR"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Cvv         string `json:"cvv" validate:"required,min=3,max=4"`
}

// RequestValidator is the validation gate in front of the pipeline: the
// pipeline trusts every request that passes it.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	validate := validator.New()
	validate.RegisterStructValidation(postPaymentStructLevel, PostPaymentRequest{})

	return &RequestValidator{validate: validate}
}

// ValidateProcessPayment returns per-field messages, or nil when the
// request is valid.
func (v *RequestValidator) ValidateProcessPayment(req *PostPaymentRequest) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}

	details := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field, message := describeFieldError(fieldErr)
		details[field] = message
	}
	return details
}

func postPaymentStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(PostPaymentRequest)

	if req.CardNumber != "" && !isDigits(req.CardNumber) {
		sl.ReportError(req.CardNumber, "CardNumber", "card_number", "digits", "")
	}
	if req.Cvv != "" && !isDigits(req.Cvv) {
		sl.ReportError(req.Cvv, "Cvv", "cvv", "digits", "")
	}

	// The expiry is valid through the last day of its month.
	if req.ExpiryMonth >= 1 && req.ExpiryMonth <= 12 && req.ExpiryYear > 0 {
		endOfMonth := time.Date(req.ExpiryYear, time.Month(req.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 1, 0).Add(-time.Nanosecond)
		if endOfMonth.Before(time.Now().UTC()) {
			sl.ReportError(req.ExpiryYear, "ExpiryYear", "expiry_year", "notexpired", "")
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func describeFieldError(fieldErr validator.FieldError) (string, string) {
	switch fieldErr.Field() {
	case "CardNumber":
		if fieldErr.Tag() == "digits" {
			return "card_number", "Card number must contain only digits"
		}
		return "card_number", "Card number must be between 14 and 19 digits"
	case "ExpiryMonth":
		return "expiry_month", "Expiry month must be between 1 and 12"
	case "ExpiryYear":
		if fieldErr.Tag() == "notexpired" {
			return "expiry_year", "Card has expired"
		}
		return "expiry_year", "Expiry year is required"
	case "Currency":
		return "currency", "Currency must be USD, GBP, or EUR"
	case "Amount":
		return "amount", "Amount must be greater than zero"
	case "Cvv":
		if fieldErr.Tag() == "digits" {
			return "cvv", "CVV must contain only digits"
		}
		return "cvv", "CVV must be 3 or 4 digits"
	default:
		return fieldErr.Field(), "Invalid value"
	}
}

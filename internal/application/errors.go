package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

// Bank failure classes. These are never converted into a stored DECLINED
// record: a decline requires an explicit verdict from a well-formed bank
// response.
var (
	// ErrBankUnavailable - the bank process could not be reached or did
	// not answer in time. Safe to retry the whole request later.
	ErrBankUnavailable = errors.New("bank is unavailable")

	// ErrBankInvalidResponse - the bank was reached but violated its
	// contract (empty or undecodable body, unexpected status).
	ErrBankInvalidResponse = errors.New("bank returned an invalid response")
)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeBankUnavailable     = "BANK_UNAVAILABLE"
	ErrCodeBankInvalidResponse = "BANK_INVALID_RESPONSE"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func NewBankUnavailableError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeBankUnavailable,
		Message:    "Acquiring bank is unavailable. The payment was not processed; retry later.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewBankInvalidResponseError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeBankInvalidResponse,
		Message:    "Acquiring bank returned a malformed response. The payment was not processed.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewPaymentNotFoundError(id string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodePaymentNotFound,
		Message:    fmt.Sprintf("Payment %s was not found", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

package rest

import (
	"encoding/json"
	"net/http"

	"github.com/fluxpay/payment-gateway/internal/application"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := application.ErrCodeInternal
	message := "An internal error occurred"

	if svcErr, ok := application.IsServiceError(err); ok {
		statusCode = svcErr.HTTPStatus
		errorCode = svcErr.Code
		message = svcErr.Message
	}

	writeErrorResponse(w, statusCode, ErrorDetail{
		Code:    errorCode,
		Message: message,
	})
}

// WriteValidationError returns the 400 produced by the validation gate,
// with per-field details.
func WriteValidationError(w http.ResponseWriter, details map[string]string) {
	writeErrorResponse(w, http.StatusBadRequest, ErrorDetail{
		Code:    application.ErrCodeInvalidInput,
		Message: "Invalid input",
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   detail,
	})
}

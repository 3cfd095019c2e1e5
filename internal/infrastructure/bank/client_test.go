package bank

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) application.BankClient {
	return NewBankClient(config.BankConfig{
		BankBaseURL:     baseURL,
		BankConnTimeout: 2 * time.Second,
	})
}

func defaultBankRequest() application.BankPaymentRequest {
	return application.BankPaymentRequest{
		CardNumber: "4532123456789012",
		ExpiryDate: "12/2030",
		Currency:   "USD",
		Amount:     10000,
		Cvv:        "123",
	}
}

func TestAuthorize_Approved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4532123456789012", body["card_number"])
		assert.Equal(t, "12/2030", body["expiry_date"])
		assert.Equal(t, "USD", body["currency"])
		assert.Equal(t, float64(10000), body["amount"])
		assert.Equal(t, "123", body["cvv"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"authorized":         true,
			"authorization_code": "0bb07405-6d44-4b50-a14f-7ae0beff13ad",
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	require.NoError(t, err)
	assert.True(t, resp.Authorized)
	assert.Equal(t, "0bb07405-6d44-4b50-a14f-7ae0beff13ad", resp.AuthorizationCode)
}

func TestAuthorize_DeclinedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"authorized": false})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	require.NoError(t, err)
	assert.False(t, resp.Authorized)
	assert.Empty(t, resp.AuthorizationCode)
}

func TestAuthorize_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	assert.ErrorIs(t, err, application.ErrBankUnavailable)
}

func TestAuthorize_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	assert.ErrorIs(t, err, application.ErrBankUnavailable)
}

func TestAuthorize_EmptyBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	assert.ErrorIs(t, err, application.ErrBankInvalidResponse)
}

func TestAuthorize_MalformedBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	assert.ErrorIs(t, err, application.ErrBankInvalidResponse)
}

func TestAuthorize_BadRequestStatusIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Authorize(context.Background(), defaultBankRequest())

	assert.ErrorIs(t, err, application.ErrBankInvalidResponse)
}

func TestAuthorize_CancellationAbortsCall(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The body must be drained before the server will watch the
		// connection and cancel r.Context() on client disconnect.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := newTestClient(server.URL).Authorize(ctx, defaultBankRequest())

	assert.True(t, errors.Is(err, context.Canceled))
}

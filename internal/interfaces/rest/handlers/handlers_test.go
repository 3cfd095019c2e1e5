package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/application/services"
	"github.com/fluxpay/payment-gateway/internal/infrastructure/memstore"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBank struct {
	mu         sync.Mutex
	calls      int
	authorized bool
	err        error
}

func (b *stubBank) Authorize(ctx context.Context, req application.BankPaymentRequest) (*application.BankPaymentResponse, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return &application.BankPaymentResponse{Authorized: b.authorized, AuthorizationCode: "auth-1"}, nil
}

func (b *stubBank) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func newTestServer(bank *stubBank) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.NewPaymentStore()

	h := handlers.NewHandlers(
		services.NewProcessService(store, bank, logger),
		services.NewQueryService(store),
		logger,
	)

	router := chi.NewRouter()
	h.Routes(router)
	return httptest.NewServer(router)
}

func validPaymentBody() map[string]any {
	return map[string]any{
		"card_number":  "4532123456789012",
		"expiry_month": 12,
		"expiry_year":  time.Now().Year() + 1,
		"currency":     "USD",
		"amount":       10000,
		"cvv":          "123",
	}
}

func postPayment(t *testing.T, server *httptest.Server, body map[string]any, idempotencyKey string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/payments", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestProcessPayment_Authorized(t *testing.T) {
	server := newTestServer(&stubBank{authorized: true})
	defer server.Close()

	resp := postPayment(t, server, validPaymentBody(), "idem-h-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "idem-h-1", data["id"])
	assert.Equal(t, "AUTHORIZED", data["status"])
	assert.Equal(t, float64(9012), data["card_last_four"])
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, float64(10000), data["amount"])

	// The full card number and CVV never appear in a response.
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "4532123456789012")
	assert.NotContains(t, string(raw), "cvv")
}

func TestProcessPayment_Declined(t *testing.T) {
	server := newTestServer(&stubBank{authorized: false})
	defer server.Close()

	resp := postPayment(t, server, validPaymentBody(), "idem-h-2")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "DECLINED", data["status"])
}

func TestProcessPayment_ReplayReturnsSameView(t *testing.T) {
	bank := &stubBank{authorized: true}
	server := newTestServer(bank)
	defer server.Close()

	first := decodeBody(t, postPayment(t, server, validPaymentBody(), "idem-h-3"))

	replay := validPaymentBody()
	replay["amount"] = 555
	second := decodeBody(t, postPayment(t, server, replay, "idem-h-3"))

	assert.Equal(t, first, second)
	assert.Equal(t, 1, bank.Calls())
}

func TestProcessPayment_GeneratedIdentifiersAreDistinctAttempts(t *testing.T) {
	bank := &stubBank{authorized: true}
	server := newTestServer(bank)
	defer server.Close()

	first := decodeBody(t, postPayment(t, server, validPaymentBody(), ""))
	second := decodeBody(t, postPayment(t, server, validPaymentBody(), ""))

	firstID := first["data"].(map[string]any)["id"]
	secondID := second["data"].(map[string]any)["id"]
	assert.NotEqual(t, firstID, secondID)
	assert.Equal(t, 2, bank.Calls())
}

func TestProcessPayment_ValidationFailure(t *testing.T) {
	bank := &stubBank{authorized: true}
	server := newTestServer(bank)
	defer server.Close()

	body := validPaymentBody()
	body["card_number"] = "1234"
	body["currency"] = "JPY"

	resp := postPayment(t, server, body, "idem-h-4")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errDetail := decodeBody(t, resp)["error"].(map[string]any)
	assert.Equal(t, "INVALID_INPUT", errDetail["code"])
	details := errDetail["details"].(map[string]any)
	assert.Contains(t, details, "card_number")
	assert.Contains(t, details, "currency")

	assert.Equal(t, 0, bank.Calls(), "rejected requests must not reach the bank")
}

func TestProcessPayment_MalformedJSON(t *testing.T) {
	server := newTestServer(&stubBank{authorized: true})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/payments", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessPayment_BankUnavailable(t *testing.T) {
	bank := &stubBank{err: fmt.Errorf("%w: connection refused", application.ErrBankUnavailable)}
	server := newTestServer(bank)
	defer server.Close()

	resp := postPayment(t, server, validPaymentBody(), "idem-h-5")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	errDetail := decodeBody(t, resp)["error"].(map[string]any)
	assert.Equal(t, "BANK_UNAVAILABLE", errDetail["code"])

	// Nothing was persisted, so the identifier is still unknown.
	getResp, err := http.Get(server.URL + "/api/payments/idem-h-5")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestGetPayment_Found(t *testing.T) {
	server := newTestServer(&stubBank{authorized: true})
	defer server.Close()

	created := decodeBody(t, postPayment(t, server, validPaymentBody(), "idem-h-6"))

	resp, err := http.Get(server.URL + "/api/payments/idem-h-6")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fetched := decodeBody(t, resp)
	assert.Equal(t, created["data"], fetched["data"])
}

func TestGetPayment_NotFound(t *testing.T) {
	server := newTestServer(&stubBank{authorized: true})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/payments/never-seen")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	errDetail := decodeBody(t, resp)["error"].(map[string]any)
	assert.Equal(t, "PAYMENT_NOT_FOUND", errDetail["code"])
}

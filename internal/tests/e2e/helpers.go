package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fluxpay/payment-gateway/internal/interfaces/rest"
	"github.com/stretchr/testify/require"
)

// BankSimulator stands in for the acquiring bank. Card numbers ending
// in an odd digit authorize, even digits decline, and a configurable
// switch takes the whole bank offline.
type BankSimulator struct {
	Server *httptest.Server

	mu      sync.Mutex
	calls   int
	offline bool
	broken  bool // respond with garbage instead of JSON
}

func NewBankSimulator() *BankSimulator {
	sim := &BankSimulator{}
	sim.Server = httptest.NewServer(http.HandlerFunc(sim.handle))
	return sim
}

func (s *BankSimulator) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls++
	offline, broken := s.offline, s.broken
	s.mu.Unlock()

	if offline {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if broken {
		w.Write([]byte("<html>gateway timeout</html>"))
		return
	}

	var req struct {
		CardNumber string `json:"card_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardNumber == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	lastDigit := req.CardNumber[len(req.CardNumber)-1]
	authorized := (lastDigit-'0')%2 == 1

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"authorized": authorized}
	if authorized {
		resp["authorization_code"] = fmt.Sprintf("auth-%d", time.Now().UnixNano())
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *BankSimulator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *BankSimulator) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

func (s *BankSimulator) SetBroken(broken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = broken
}

func (s *BankSimulator) Close() {
	s.Server.Close()
}

// TestClient wraps HTTP calls to the gateway
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TestClient) ProcessPayment(t *testing.T, req rest.PostPaymentRequest, idempotencyKey string) (*rest.PaymentResponse, int, string) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/payments", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if resp.StatusCode >= 400 {
		var errResp rest.ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &errResp))
		return nil, resp.StatusCode, errResp.Error.Code
	}

	var success rest.SuccessResponse
	require.NoError(t, json.Unmarshal(raw, &success))
	require.False(t, strings.Contains(string(raw), req.CardNumber), "response leaked the full card number")
	return &success.Data, resp.StatusCode, ""
}

func (c *TestClient) GetPayment(t *testing.T, id string) (*rest.PaymentResponse, int) {
	t.Helper()

	resp, err := c.httpClient.Get(c.baseURL + "/api/payments/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}

	var success rest.SuccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&success))
	return &success.Data, resp.StatusCode
}

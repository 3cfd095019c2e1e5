package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/config"
)

type HTTPBankClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBankClient(cfg config.BankConfig) application.BankClient {
	return &HTTPBankClient{
		baseURL: cfg.BankBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.BankConnTimeout,
		},
	}
}

// Authorize submits a payment to the bank and returns its verdict.
// Declines come back as a normal response with Authorized=false; only
// transport failures and contract violations are errors. The request
// body is the sole place the full card number and CVV cross this
// boundary and it is never logged.
func (c *HTTPBankClient) Authorize(ctx context.Context, req application.BankPaymentRequest) (*application.BankPaymentResponse, error) {
	body := paymentRequest{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		Currency:   req.Currency,
		Amount:     req.Amount,
		Cvv:        req.Cvv,
	}

	jsonData, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	url := fmt.Sprintf("%s/payments", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", application.ErrBankUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: bank returned status %d", application.ErrBankUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", application.ErrBankInvalidResponse, resp.StatusCode)
	}

	var bankResp paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&bankResp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", application.ErrBankInvalidResponse)
		}
		return nil, fmt.Errorf("%w: %v", application.ErrBankInvalidResponse, err)
	}

	result := &application.BankPaymentResponse{
		Authorized: bankResp.Authorized,
	}
	if bankResp.AuthorizationCode != nil {
		result.AuthorizationCode = *bankResp.AuthorizationCode
	}

	return result, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultChapaBaseURL = "https://api.chapa.co/v1"

// ChapaConfig carries everything the gateway client needs. It is built once
// in main from the environment and injected, so tests can point the client
// at a local server.
type ChapaConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	ReturnURL   string
}

// ChapaClient wraps the Chapa transaction API: initialize and verify.
// It makes exactly one outbound call per invocation; no retries.
type ChapaClient struct {
	cfg    ChapaConfig
	client *http.Client
}

func NewChapaClient(cfg ChapaConfig) *ChapaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultChapaBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &ChapaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// PaymentInitiationError carries the raw provider message when an
// initialization attempt is rejected or the response has an unexpected shape.
type PaymentInitiationError struct {
	Message string
}

func (e *PaymentInitiationError) Error() string {
	return "payment initiation failed: " + e.Message
}

type InitiateRequest struct {
	Amount      float64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	Title       string
	Description string
}

type InitiateResult struct {
	CheckoutURL string
	TxRef       string
}

// chapaEnvelope is the common response wrapper on both endpoints.
type chapaEnvelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e chapaEnvelope) message() string {
	if len(e.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	// message can be an object of field errors; pass it through raw
	return string(e.Message)
}

// VerifyResponse is the parsed verify envelope, returned verbatim.
// Interpreting it is the caller's job.
type VerifyResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DataStatus extracts data.status, or "" when absent.
func (r *VerifyResponse) DataStatus() string {
	if len(r.Data) == 0 {
		return ""
	}
	var d struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(r.Data, &d); err != nil {
		return ""
	}
	return d.Status
}

// Initiate POSTs to /transaction/initialize. It succeeds only when the
// envelope status is "success" and a checkout URL is present; everything
// else (transport error, non-success status, missing fields) comes back as
// a *PaymentInitiationError. The returned TxRef is the provider's echoed
// value when present, falling back to the caller's reference — persist
// whichever is returned.
func (cl *ChapaClient) Initiate(ctx context.Context, reqData InitiateRequest) (*InitiateResult, error) {
	currency := reqData.Currency
	if currency == "" {
		currency = "ETB"
	}

	payload := map[string]interface{}{
		"amount":       strconv.FormatFloat(reqData.Amount, 'f', 2, 64),
		"currency":     currency,
		"email":        reqData.Email,
		"first_name":   reqData.FirstName,
		"last_name":    reqData.LastName,
		"tx_ref":       reqData.TxRef,
		"callback_url": cl.cfg.CallbackURL,
		"return_url":   cl.cfg.ReturnURL,
		"customization": map[string]interface{}{
			"title":       reqData.Title,
			"description": reqData.Description,
		},
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.cfg.BaseURL+"/transaction/initialize", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cl.cfg.SecretKey)

	resp, err := cl.client.Do(req)
	if err != nil {
		return nil, &PaymentInitiationError{Message: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var env chapaEnvelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, &PaymentInitiationError{Message: fmt.Sprintf("unexpected response: %s", string(bodyBytes))}
	}

	if env.Status != "success" {
		msg := env.message()
		if msg == "" {
			msg = string(bodyBytes)
		}
		return nil, &PaymentInitiationError{Message: msg}
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
		TxRef       string `json:"tx_ref"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, &PaymentInitiationError{Message: fmt.Sprintf("missing checkout_url in response: %s", string(bodyBytes))}
	}

	txRef := data.TxRef
	if txRef == "" {
		txRef = reqData.TxRef
	}
	return &InitiateResult{CheckoutURL: data.CheckoutURL, TxRef: txRef}, nil
}

// Verify GETs /transaction/verify/{txRef} and returns the parsed envelope
// without interpreting it.
func (cl *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.cfg.BaseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cl.cfg.SecretKey)

	resp, err := cl.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var vr VerifyResponse
	if err := json.Unmarshal(bodyBytes, &vr); err != nil {
		return nil, fmt.Errorf("verify response parse error: %w", err)
	}
	return &vr, nil
}

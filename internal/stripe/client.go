// Package stripe предоставляет клиент REST API платёжного провайдера:
// платёжные сессии, подключённые аккаунты и ссылки онбординга.
package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client инкапсулирует HTTP-взаимодействие с платёжным провайдером.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *retryablehttp.Client
}

// CheckoutSession описывает платёжную сессию провайдера.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
}

// Paid сообщает, оплачена ли сессия.
func (s *CheckoutSession) Paid() bool {
	return s != nil && s.PaymentStatus == "paid"
}

// AccountStatus описывает состояние подключённого аккаунта.
// RequirementsDue передаётся дальше без интерпретации.
type AccountStatus struct {
	ID               string   `json:"id"`
	ChargesEnabled   bool     `json:"charges_enabled"`
	PayoutsEnabled   bool     `json:"payouts_enabled"`
	DetailsSubmitted bool     `json:"details_submitted"`
	RequirementsDue  []string `json:"requirements_due"`
}

// NewClient создаёт клиент провайдера по указанному адресу API.
func NewClient(baseURL, secretKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: rc,
	}
}

// CreateCheckoutSession создаёт у провайдера платёжную сессию для
// пожертвования в кампанию. Сумма передаётся в центах.
func (c *Client) CreateCheckoutSession(ctx context.Context, campaignID string, amountCents int64, returnURL string) (*CheckoutSession, error) {
	body := map[string]any{
		"campaign_id": campaignID,
		"amount":      amountCents,
		"currency":    "usd",
		"success_url": returnURL + "?success=true&session_id={CHECKOUT_SESSION_ID}",
		"cancel_url":  returnURL + "?success=false",
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckoutSession запрашивает состояние платёжной сессии по идентификатору.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateAccount создаёт подключённый аккаунт для владельца кампаний.
func (c *Client) CreateAccount(ctx context.Context, email string) (string, error) {
	body := map[string]any{
		"type":  "express",
		"email": email,
	}

	var acc struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", body, &acc); err != nil {
		return "", err
	}
	return acc.ID, nil
}

// CreateOnboardingLink создаёт одноразовую ссылку онбординга аккаунта.
func (c *Client) CreateOnboardingLink(ctx context.Context, accountID, returnURL string) (string, error) {
	body := map[string]any{
		"account":     accountID,
		"refresh_url": returnURL,
		"return_url":  returnURL,
		"type":        "account_onboarding",
	}

	var link struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/account_links", body, &link); err != nil {
		return "", err
	}
	return link.URL, nil
}

// GetAccountStatus запрашивает состояние подключённого аккаунта.
func (c *Client) GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	var status AccountStatus
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+accountID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("stripe client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(resp.StatusCode, raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

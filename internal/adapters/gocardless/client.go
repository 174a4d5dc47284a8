// Package gocardless reads account balances from the GoCardless Bank Account Data API.
package gocardless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Balance types in order of preference.
var balanceTypes = []string{"interimBooked", "closingBooked", "expected"}

// Client fetches account balances. Access tokens are requested per payment
// method and reused until they expire.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	sources map[int]oauth2.TokenSource
}

// NewClient creates a GoCardless client. limiter may be nil.
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		sources: make(map[int]oauth2.TokenSource),
	}
}

var _ providers.BalanceSource = (*Client)(nil)

// secretTokenSource exchanges a secret id/key pair for an access token.
type secretTokenSource struct {
	client    *Client
	secretID  string
	secretKey string
}

type tokenResponse struct {
	Access        string `json:"access"`
	AccessExpires int    `json:"access_expires"` // seconds
}

func (s *secretTokenSource) Token() (*oauth2.Token, error) {
	payload, err := json.Marshal(map[string]string{"secret_id": s.secretID, "secret_key": s.secretKey})
	if err != nil {
		return nil, err
	}

	// oauth2.TokenSource carries no context; the client timeout bounds the call.
	req, err := http.NewRequest(http.MethodPost, s.client.baseURL+"/token/new/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := s.client.do(req, &tok); err != nil {
		return nil, fmt.Errorf("failed to get gocardless token: %w", err)
	}
	if tok.Access == "" {
		return nil, apperrors.Transient("gocardless returned an empty access token")
	}
	return &oauth2.Token{
		AccessToken: tok.Access,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Duration(tok.AccessExpires) * time.Second),
	}, nil
}

func (c *Client) tokenSource(method domain.GoCardlessMethod) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	src, ok := c.sources[method.ID]
	if !ok {
		src = oauth2.ReuseTokenSource(nil, &secretTokenSource{client: c, secretID: method.SecretID, secretKey: method.SecretKey})
		c.sources[method.ID] = src
	}
	return src
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Transient("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transient("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.Transient("status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type balancesResponse struct {
	Balances []struct {
		BalanceAmount struct {
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency"`
		} `json:"balanceAmount"`
		BalanceType string `json:"balanceType"`
	} `json:"balances"`
}

// AccountBalance returns the booked balance of the method's bank account.
func (c *Client) AccountBalance(ctx context.Context, method domain.GoCardlessMethod) (decimal.Decimal, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return decimal.Zero, fmt.Errorf("rate limiter: %w", err)
		}
	}

	tok, err := c.tokenSource(method).Token()
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/accounts/"+method.AccountID+"/balances/", nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	var balances balancesResponse
	if err := c.do(req, &balances); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balances of account %s: %w", method.AccountID, err)
	}

	for _, want := range balanceTypes {
		for _, b := range balances.Balances {
			if b.BalanceType == want {
				return b.BalanceAmount.Amount, nil
			}
		}
	}
	return decimal.Zero, apperrors.Inconsistency("no booked balance returned for account %s", method.AccountID)
}

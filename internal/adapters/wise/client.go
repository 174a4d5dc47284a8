// Package wise reads balance statements from the Wise (TransferWise) API.
package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultLookback is the statement window used when no start date is given.
const DefaultLookback = 14 * 24 * time.Hour

// Client lists balance statement transactions. Each payment method carries its
// own API token.
type Client struct {
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient creates a Wise API client. limiter may be nil.
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: limiter,
		now:     time.Now,
	}
}

var _ providers.WiseFeed = (*Client)(nil)

type money struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

type statementTransaction struct {
	Date            time.Time `json:"date"`
	Amount          money     `json:"amount"`
	TotalFees       money     `json:"totalFees"`
	ReferenceNumber string    `json:"referenceNumber"`
	Details         struct {
		Type             string `json:"type"`
		Description      string `json:"description"`
		PaymentReference string `json:"paymentReference"`
		SenderName       string `json:"senderName"`
		SenderAccount    string `json:"senderAccount"`
	} `json:"details"`
}

type statementResponse struct {
	Transactions []statementTransaction `json:"transactions"`
}

func (c *Client) httpClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Timeout:   c.timeout,
		Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
	}
}

// Transactions returns the statement of the method's balance from since (or
// DefaultLookback ago) until now, oldest first.
func (c *Client) Transactions(ctx context.Context, method domain.WiseMethod, since *time.Time) ([]domain.WiseFeedTransaction, error) {
	end := c.now().UTC()
	start := end.Add(-DefaultLookback)
	if since != nil {
		start = since.UTC()
	}

	q := url.Values{}
	q.Set("currency", method.Currency)
	q.Set("intervalStart", start.Format(time.RFC3339))
	q.Set("intervalEnd", end.Format(time.RFC3339))
	q.Set("type", "COMPACT")
	endpoint := fmt.Sprintf("%s/v1/profiles/%d/balance-statements/%d/statement.json?%s",
		c.baseURL, method.ProfileID, method.BalanceID, q.Encode())

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient(method.APIToken).Do(req)
	if err != nil {
		return nil, apperrors.Transient("wise statement request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transient("failed to read wise statement: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Transient("wise statement returned status %d: %s", resp.StatusCode, string(body))
	}

	var statement statementResponse
	if err := json.Unmarshal(body, &statement); err != nil {
		return nil, fmt.Errorf("failed to decode wise statement: %w", err)
	}

	out := make([]domain.WiseFeedTransaction, 0, len(statement.Transactions))
	for _, t := range statement.Transactions {
		if t.Amount.Currency != method.Currency {
			return nil, apperrors.Inconsistency("wise transaction %s is in %s, expected %s",
				t.ReferenceNumber, t.Amount.Currency, method.Currency)
		}
		out = append(out, domain.WiseFeedTransaction{
			Reference:        t.ReferenceNumber,
			Date:             t.Date,
			Amount:           t.Amount.Value,
			FeeAmount:        t.TotalFees.Value,
			Type:             t.Details.Type,
			Description:      t.Details.Description,
			PaymentReference: t.Details.PaymentReference,
			SenderName:       t.Details.SenderName,
			SenderAccount:    t.Details.SenderAccount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

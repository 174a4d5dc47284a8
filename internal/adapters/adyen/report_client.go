// Package adyen downloads settlement and accounting reports from Adyen.
package adyen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	"golang.org/x/time/rate"
)

// ReportClient fetches report files with HTTP basic auth.
type ReportClient struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewReportClient creates a report client. limiter may be nil.
func NewReportClient(timeout time.Duration, limiter *rate.Limiter) *ReportClient {
	return &ReportClient{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

var _ providers.ReportSource = (*ReportClient)(nil)

// FetchReport returns the body of the report at url. Anything but a 200 with a
// non-empty body is a transient failure; the report is retried on the next run.
func (c *ReportClient) FetchReport(ctx context.Context, url, user, password string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(user, password)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.Transient("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Transient("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Transient("status %d", resp.StatusCode)
	}
	if len(body) == 0 {
		return "", apperrors.Transient("empty response body")
	}
	return string(body), nil
}

// Package gateway holds the external collaborator ports: payment capture and
// blob storage. The core records its own ledger entries; these clients only
// move money and bytes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rentalbackend/internal/domain"
)

// PaymentGateway captures advances and issues refunds against the provider.
type PaymentGateway interface {
	Capture(ctx context.Context, bookingCode string, amount int64) (ref string, err error)
	Refund(ctx context.Context, refundID string, amount int64) (ref string, err error)
}

// HTTPPaymentGateway talks to the provider over HTTP with a bounded timeout.
type HTTPPaymentGateway struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

func (g *HTTPPaymentGateway) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}

func (g *HTTPPaymentGateway) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return 10 * time.Second
}

type captureRequest struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

type captureResponse struct {
	Success    bool   `json:"success"`
	GatewayRef string `json:"gateway_ref"`
}

func (g *HTTPPaymentGateway) Capture(ctx context.Context, bookingCode string, amount int64) (string, error) {
	return g.post(ctx, "/v1/capture", bookingCode, amount)
}

func (g *HTTPPaymentGateway) Refund(ctx context.Context, refundID string, amount int64) (string, error) {
	return g.post(ctx, "/v1/refund", refundID, amount)
}

func (g *HTTPPaymentGateway) post(ctx context.Context, path, reference string, amount int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	body, err := json.Marshal(captureRequest{Reference: reference, Amount: amount})
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		return "", domain.ExternalDependencyError{Dependency: "payment gateway", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.ExternalDependencyError{
			Dependency: "payment gateway",
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.ExternalDependencyError{Dependency: "payment gateway", Err: err}
	}
	if !out.Success {
		return "", domain.ExternalDependencyError{
			Dependency: "payment gateway",
			Err:        fmt.Errorf("capture declined"),
		}
	}
	return out.GatewayRef, nil
}

// OfflineGateway records cash collected at the counter. No provider call is
// made; a local reference keeps the payments table uniform.
type OfflineGateway struct{}

func (OfflineGateway) Capture(ctx context.Context, bookingCode string, amount int64) (string, error) {
	return "cash-" + uuid.NewString()[:8], nil
}

func (OfflineGateway) Refund(ctx context.Context, refundID string, amount int64) (string, error) {
	return "cash-" + uuid.NewString()[:8], nil
}

package pricing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"orderpad/internal/domain"
	"orderpad/internal/itemcode"
)

// Resolver fetches customer-specific unit prices for a batch of item codes.
type Resolver interface {
	ResolvePrices(ctx context.Context, customerID, priceListCode string, codes []string) (map[string]domain.ResolvedPrice, error)
}

// APIError is a non-2xx reply from the pricing service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pricing api error: %s", e.Status)
	}
	return fmt.Sprintf("pricing api error: %s: %s", e.Status, e.Body)
}

// Client talks to the pricing backend's /prices/resolve endpoint.
type Client struct {
	http   *resty.Client
	logger *log.Logger
}

type resolveRequest struct {
	CustomerID     string   `json:"customerId"`
	Itemcodes      []string `json:"itemcodes"`
	PrijslijstCode string   `json:"prijslijstCode,omitempty"`
}

type resolveResponse struct {
	OK             bool                            `json:"ok"`
	CustomerID     string                          `json:"customerId"`
	PrijslijstCode *string                         `json:"prijslijstCode"`
	Prices         map[string]domain.ResolvedPrice `json:"prices"`
	Error          string                          `json:"error,omitempty"`
}

// NewClient builds a pricing client. The setup key is the backend's shared
// access header; an empty key sends no header.
func NewClient(baseURL, setupKey string, timeout time.Duration, logger *log.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	if setupKey != "" {
		httpClient.SetHeader("x-setup-key", setupKey)
	}

	return &Client{http: httpClient, logger: logger}
}

// ResolvePrices issues one batched request for all codes. Returned keys are
// normalized so they line up with cart line keys.
func (c *Client) ResolvePrices(ctx context.Context, customerID, priceListCode string, codes []string) (map[string]domain.ResolvedPrice, error) {
	customerID = strings.TrimSpace(customerID)
	codes = itemcode.Uniq(codes)
	if customerID == "" || len(codes) == 0 {
		return map[string]domain.ResolvedPrice{}, nil
	}

	var out resolveResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(resolveRequest{
			CustomerID:     customerID,
			Itemcodes:      codes,
			PrijslijstCode: strings.TrimSpace(priceListCode),
		}).
		SetResult(&out).
		Post("/prices/resolve")
	if err != nil {
		return nil, fmt.Errorf("resolve prices: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}
	if !out.OK {
		return nil, fmt.Errorf("resolve prices: backend not ok: %s", out.Error)
	}

	prices := make(map[string]domain.ResolvedPrice, len(out.Prices))
	for code, p := range out.Prices {
		key := itemcode.Normalize(code)
		if key == "" {
			continue
		}
		prices[key] = p
	}
	return prices, nil
}

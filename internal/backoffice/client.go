// Package backoffice is the HTTP client for the tenant's back-office
// API: catalog snapshots, the payment-method registry, receipt display
// metadata, and sale submission. The back office is the sole source of
// truth for stock; everything fetched here is a point-in-time snapshot.
package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/altamira/pos-checkout/internal/models"
)

// Client talks to the back-office REST API. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	sfg        singleflight.Group // collapses concurrent catalog refreshes
}

// NewClient creates a back-office client. The timeout applies to every
// request independently of the caller's context.
func NewClient(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchCatalog returns the sellable products for a branch. Concurrent
// calls for the same branch share one request.
func (c *Client) FetchCatalog(ctx context.Context, branchID string) ([]models.Product, error) {
	v, err, _ := c.sfg.Do("catalog:"+branchID, func() (interface{}, error) {
		var products []models.Product
		url := fmt.Sprintf("%s/api/branches/%s/products", c.baseURL, branchID)
		if err := c.getJSON(ctx, url, &products); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

// FetchPaymentMethods returns the enabled tender types for the tenant.
func (c *Client) FetchPaymentMethods(ctx context.Context, tenantID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	url := fmt.Sprintf("%s/api/tenants/%s/payment-methods", c.baseURL, tenantID)
	if err := c.getJSON(ctx, url, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// FetchTenantInfo returns receipt display metadata for the tenant.
func (c *Client) FetchTenantInfo(ctx context.Context, tenantID string) (*models.TenantInfo, error) {
	var info models.TenantInfo
	url := fmt.Sprintf("%s/api/tenants/%s", c.baseURL, tenantID)
	if err := c.getJSON(ctx, url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchBranchInfo returns receipt display metadata for the branch.
func (c *Client) FetchBranchInfo(ctx context.Context, branchID string) (*models.BranchInfo, error) {
	var info models.BranchInfo
	url := fmt.Sprintf("%s/api/branches/%s", c.baseURL, branchID)
	if err := c.getJSON(ctx, url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SubmitSale posts the transaction request. The back office
// re-validates stock and payment data; rejections come back as an
// *APIError with a discriminable kind, transport failures as
// ErrNetwork.
func (c *Client) SubmitSale(ctx context.Context, request models.SaleRequest) (*models.Sale, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sale request: %w", err)
	}

	url := fmt.Sprintf("%s/api/branches/%s/sales", c.baseURL, request.BranchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.decodeError(resp)
	}

	var sale models.Sale
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		return nil, fmt.Errorf("%w: invalid sale response: %v", ErrNetwork, err)
	}

	c.log.Info("sale committed", "sale_id", sale.ID, "total", sale.Total)
	return &sale, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrNetwork, err)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}
}

// decodeError maps a non-2xx response to an *APIError. The body is
// expected to carry {"error": "...", "kind": "..."}; anything else is
// classified by status code.
func (c *Client) decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &payload)

	kind := ErrorKind(payload.Kind)
	switch kind {
	case KindValidation, KindStockConflict, KindServerError:
	default:
		switch {
		case resp.StatusCode == http.StatusConflict:
			kind = KindStockConflict
		case resp.StatusCode >= 500:
			kind = KindServerError
		default:
			kind = KindValidation
		}
	}

	message := payload.Error
	if message == "" {
		message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}

	return &APIError{
		Kind:    kind,
		Message: message,
		Status:  resp.StatusCode,
	}
}

package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/models"
)

// fakeEndpoint records submissions and answers with a canned sale or
// error. onSubmit, when set, runs while the submission is in flight.
type fakeEndpoint struct {
	sale     *models.Sale
	err      error
	requests []models.SaleRequest
	onSubmit func()
}

func (f *fakeEndpoint) SubmitSale(ctx context.Context, request models.SaleRequest) (*models.Sale, error) {
	f.requests = append(f.requests, request)
	if f.onSubmit != nil {
		f.onSubmit()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.sale != nil {
		return f.sale, nil
	}

	// Echo the request the way the sale endpoint would.
	total := decimal.Zero
	for _, item := range request.Items {
		total = total.Add(item.Subtotal())
	}
	return &models.Sale{
		ID:             "sale-1",
		BranchID:       request.BranchID,
		Items:          request.Items,
		Total:          total,
		AmountTendered: request.AmountTendered,
		ChangeDue:      request.ChangeDue,
		CreatedAt:      time.Date(2026, 5, 14, 10, 30, 0, 0, time.UTC),
	}, nil
}

type fakeCatalog map[string]models.Product

func (f fakeCatalog) Product(productID string) (models.Product, bool) {
	p, ok := f[productID]
	return p, ok
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

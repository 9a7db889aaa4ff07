package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/cart"
	"github.com/altamira/pos-checkout/internal/models"
)

// catalogStore holds the point-in-time product snapshot for a branch.
// It has no lock of its own; every entry point runs under the session
// mutex, including the submitter's refresh after a sale.
type catalogStore struct {
	client   Backoffice
	branchID string
	ordered  []models.Product
	byID     map[string]models.Product
}

// Product implements checkout.Catalog.
func (cs *catalogStore) Product(productID string) (models.Product, bool) {
	p, ok := cs.byID[productID]
	return p, ok
}

// Refresh implements checkout.Refresher: re-fetches the snapshot so
// stock ceilings match what the back office last knew.
func (cs *catalogStore) Refresh(ctx context.Context) error {
	products, err := cs.client.FetchCatalog(ctx, cs.branchID)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cs.ordered = products
	cs.byID = byID
	return nil
}

// Products returns a copy of the snapshot in catalog order.
func (cs *catalogStore) Products() []models.Product {
	out := make([]models.Product, len(cs.ordered))
	copy(out, cs.ordered)
	return out
}

// Len returns the number of products in the snapshot.
func (cs *catalogStore) Len() int {
	return len(cs.ordered)
}

// snapshotRefresher implements checkout.Refresher for a session:
// refresh the snapshot, then re-sync the cart's stock ceilings so the
// operator's next quantity change is checked against corrected stock.
type snapshotRefresher struct {
	catalog *catalogStore
	cart    *cart.Cart
}

func (r *snapshotRefresher) Refresh(ctx context.Context) error {
	if err := r.catalog.Refresh(ctx); err != nil {
		return err
	}
	r.cart.SyncStockCeilings(func(productID string) (decimal.Decimal, bool) {
		p, ok := r.catalog.Product(productID)
		if !ok {
			return decimal.Decimal{}, false
		}
		return p.Stock, true
	})
	return nil
}

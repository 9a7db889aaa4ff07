package models

import "github.com/shopspring/decimal"

// Product represents a sellable product in a branch catalog snapshot.
// Stock is a decimal to support tenants with fractional stock units.
type Product struct {
	ID       string          `json:"productId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    decimal.Decimal `json:"stock"`
	Category string          `json:"categoryRef,omitempty"`
	BranchID string          `json:"branchId"`
}

// InStock reports whether the snapshot has any sellable quantity left.
func (p Product) InStock() bool {
	return p.Stock.IsPositive()
}

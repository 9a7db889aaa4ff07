package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one committed line of a sale.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Subtotal returns quantity * unit price.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// SaleRequest is the transaction request submitted to the sale endpoint.
// It echoes the client's view of the cart and tender; the backend
// re-validates stock and payment data before committing.
type SaleRequest struct {
	BranchID        string          `json:"branchId"`
	Items           []SaleItem      `json:"items"`
	PaymentMethodID string          `json:"paymentMethodId"`
	AmountTendered  decimal.Decimal `json:"amountTendered"`
	ChangeDue       decimal.Decimal `json:"changeDue"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
}

// Sale is a committed transaction as returned by the sale endpoint.
// It is immutable once created and is the sole input to the receipt
// renderer.
type Sale struct {
	ID             string          `json:"saleId"`
	BranchID       string          `json:"branchId"`
	Items          []SaleItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	AmountTendered decimal.Decimal `json:"amountTendered"`
	ChangeDue      decimal.Decimal `json:"changeDue"`
	CreatedAt      time.Time       `json:"createdAt"`
}

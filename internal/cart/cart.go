// Package cart maintains the working set of line items for a checkout
// session. Stock ceilings are captured from the catalog snapshot at
// add-time; the cart enforces them locally and never writes stock back.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/models"
)

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)

// Line is one cart entry. UnitPrice and StockCeiling are snapshots
// captured when the product was added; later catalog changes do not
// move them within the same session.
type Line struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	StockCeiling decimal.Decimal `json:"stockCeiling"`
}

// Subtotal returns quantity * unit price for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Cart is an ordered collection of lines. It is not safe for
// concurrent use; the session layer serializes access.
type Cart struct {
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the product. A product already in the cart
// gets its quantity incremented by 1, bounded by the stock ceiling
// captured when it was first added.
func (c *Cart) AddItem(product models.Product) error {
	if !product.InStock() {
		return ErrOutOfStock
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			next := c.lines[i].Quantity.Add(decimal.NewFromInt(1))
			if next.GreaterThan(c.lines[i].StockCeiling) {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity = next
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID:    product.ID,
		Name:         product.Name,
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    product.Price,
		StockCeiling: product.Stock,
	})
	return nil
}

// SetQuantity updates the quantity of an existing line. A quantity of
// zero or less removes the line. A quantity above the line's stock
// ceiling fails and leaves the line unchanged. Setting a quantity for
// an absent product is a no-op.
func (c *Cart) SetQuantity(productID string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		c.RemoveItem(productID)
		return nil
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if qty.GreaterThan(c.lines[i].StockCeiling) {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity = qty
			return nil
		}
	}
	return nil
}

// RemoveItem removes the line for the product; no-op if absent.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total recomputes the cart total from scratch on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for the product, if present.
func (c *Cart) Line(productID string) (Line, bool) {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// SyncStockCeilings updates each line's stock ceiling from a
// re-fetched catalog snapshot, so quantity changes after a stock
// conflict are checked against what the back office last reported.
// Quantities are left alone; a line now above its ceiling is for the
// operator to adjust. Lines whose product left the snapshot keep
// their old ceiling.
func (c *Cart) SyncStockCeilings(lookup func(productID string) (decimal.Decimal, bool)) {
	for i := range c.lines {
		if stock, ok := lookup(c.lines[i].ProductID); ok {
			c.lines[i].StockCeiling = stock
		}
	}
}

// Snapshot captures the full cart state. Used by the checkout
// submitter so a failed submission can restore the cart exactly.
func (c *Cart) Snapshot() []Line {
	return c.Lines()
}

// Restore replaces the cart state with a previously taken snapshot.
func (c *Cart) Restore(lines []Line) {
	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
}

// Package tender holds the selected payment method and, for cash, the
// amount received from the customer.
package tender

import (
	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/models"
)

// Resolver tracks the active payment method and cash amount for one
// checkout session. Monetary comparisons are exact decimal
// comparisons; there is no float tolerance anywhere in the gate.
// Not safe for concurrent use; the session layer serializes access.
type Resolver struct {
	method         *models.PaymentMethod
	amountTendered decimal.Decimal
}

// NewResolver creates a resolver with no method selected.
func NewResolver() *Resolver {
	return &Resolver{amountTendered: decimal.Zero}
}

// SelectMethod replaces the active method. Switching away from cash
// discards any previously entered amount.
func (r *Resolver) SelectMethod(method models.PaymentMethod) {
	if r.method != nil && r.method.IsCash() && !method.IsCash() {
		r.amountTendered = decimal.Zero
	}
	m := method
	r.method = &m
}

// SetAmountTendered records the cash received. Negative input is
// clamped to zero so partially typed values never error. Ignored when
// the active method is not cash.
func (r *Resolver) SetAmountTendered(amount decimal.Decimal) {
	if r.method == nil || !r.method.IsCash() {
		return
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	r.amountTendered = amount
}

// Method returns the active payment method, if any.
func (r *Resolver) Method() (models.PaymentMethod, bool) {
	if r.method == nil {
		return models.PaymentMethod{}, false
	}
	return *r.method, true
}

// AmountTendered returns the recorded cash amount.
func (r *Resolver) AmountTendered() decimal.Decimal {
	return r.amountTendered
}

// IsReady reports whether the tender can settle the given total: a
// method is selected, and for cash the amount received covers it.
func (r *Resolver) IsReady(cartTotal decimal.Decimal) bool {
	if r.method == nil {
		return false
	}
	if !r.method.IsCash() {
		return true
	}
	return r.amountTendered.GreaterThanOrEqual(cartTotal)
}

// ChangeDue returns max(0, amount tendered - total) for cash and zero
// for every other tender category.
func (r *Resolver) ChangeDue(cartTotal decimal.Decimal) decimal.Decimal {
	if r.method == nil || !r.method.IsCash() {
		return decimal.Zero
	}
	change := r.amountTendered.Sub(cartTotal)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// Reset clears the selection and cash amount.
func (r *Resolver) Reset() {
	r.method = nil
	r.amountTendered = decimal.Zero
}

// State is a point-in-time copy of the resolver, taken before a
// submission so a failure can restore it exactly.
type State struct {
	method         *models.PaymentMethod
	amountTendered decimal.Decimal
}

// Snapshot captures the resolver state.
func (r *Resolver) Snapshot() State {
	s := State{amountTendered: r.amountTendered}
	if r.method != nil {
		m := *r.method
		s.method = &m
	}
	return s
}

// Restore replaces the resolver state with a previously taken snapshot.
func (r *Resolver) Restore(s State) {
	r.amountTendered = s.amountTendered
	if s.method == nil {
		r.method = nil
		return
	}
	m := *s.method
	r.method = &m
}

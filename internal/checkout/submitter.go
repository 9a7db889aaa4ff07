// Package checkout drives the cart and tender through an explicit
// state machine: Idle, ReadyToSubmit, Submitting, Completed, Failed.
// The submitter consumes operator commands and owns the only
// server-driven transition, Submitting to Completed or Failed. The
// back office is the sole arbiter of truth; every submission is
// optimistic and re-validated server-side.
package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/backoffice"
	"github.com/altamira/pos-checkout/internal/cart"
	"github.com/altamira/pos-checkout/internal/models"
	"github.com/altamira/pos-checkout/internal/notify"
	"github.com/altamira/pos-checkout/internal/tender"
)

// SaleEndpoint submits transaction requests to the authoritative
// backend. Implemented by backoffice.Client.
type SaleEndpoint interface {
	SubmitSale(ctx context.Context, request models.SaleRequest) (*models.Sale, error)
}

// Catalog is the current product snapshot, consulted at submit time
// for the price-drift check.
type Catalog interface {
	Product(productID string) (models.Product, bool)
}

// Refresher re-fetches the catalog snapshot. Called strictly after a
// Completed transition, and after a stock conflict so subsequent cart
// operations see corrected ceilings.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Submitter is the command consumer for one checkout session. Not safe
// for concurrent use; the session layer serializes access, which also
// makes the Submitting freeze a strict mutual-exclusion gate.
type Submitter struct {
	cart     *cart.Cart
	tender   *tender.Resolver
	endpoint SaleEndpoint
	catalog  Catalog
	refresh  Refresher
	sink     notify.Sink
	guard    *KeyGuard
	log      *slog.Logger

	branchID string
	phase    State // only Submitting, Completed or Failed are stored
	key      string
	lastSale *models.Sale
}

// NewSubmitter wires a submitter over a cart and tender resolver.
func NewSubmitter(
	c *cart.Cart,
	t *tender.Resolver,
	endpoint SaleEndpoint,
	catalog Catalog,
	refresh Refresher,
	sink notify.Sink,
	guard *KeyGuard,
	branchID string,
	log *slog.Logger,
) *Submitter {
	return &Submitter{
		cart:     c,
		tender:   t,
		endpoint: endpoint,
		catalog:  catalog,
		refresh:  refresh,
		sink:     sink,
		guard:    guard,
		log:      log,
		branchID: branchID,
	}
}

// State derives the current state. Idle and ReadyToSubmit are computed
// from the cart and tender; Submitting, Completed and Failed are held
// explicitly until the next command.
func (s *Submitter) State() State {
	switch s.phase {
	case StateSubmitting, StateCompleted, StateFailed:
		return s.phase
	}
	if s.validate() == nil {
		return StateReadyToSubmit
	}
	return StateIdle
}

// Sale returns the last committed sale, if any.
func (s *Submitter) Sale() (*models.Sale, bool) {
	if s.lastSale == nil {
		return nil, false
	}
	return s.lastSale, true
}

// AddItem adds one unit of the product to the cart.
func (s *Submitter) AddItem(product models.Product) error {
	if err := s.acceptInput(); err != nil {
		return err
	}
	return s.cart.AddItem(product)
}

// SetQuantity updates a cart line quantity; zero or less removes it.
func (s *Submitter) SetQuantity(productID string, qty decimal.Decimal) error {
	if err := s.acceptInput(); err != nil {
		return err
	}
	return s.cart.SetQuantity(productID, qty)
}

// RemoveItem removes a cart line.
func (s *Submitter) RemoveItem(productID string) error {
	if err := s.acceptInput(); err != nil {
		return err
	}
	s.cart.RemoveItem(productID)
	return nil
}

// SelectMethod replaces the active payment method.
func (s *Submitter) SelectMethod(method models.PaymentMethod) error {
	if err := s.acceptInput(); err != nil {
		return err
	}
	s.tender.SelectMethod(method)
	return nil
}

// SetAmountTendered records the cash received.
func (s *Submitter) SetAmountTendered(amount decimal.Decimal) error {
	if err := s.acceptInput(); err != nil {
		return err
	}
	s.tender.SetAmountTendered(amount)
	return nil
}

// acceptInput rejects commands while a submission is in flight and
// clears a Failed phase on the first operator edit, which puts the
// machine back on the Idle/ReadyToSubmit track. The first edit after a
// commit also rotates the idempotency key: the retired key keeps
// guarding the committed checkout while the new cart gets its own.
func (s *Submitter) acceptInput() error {
	if s.phase == StateSubmitting {
		return ErrSubmissionInFlight
	}
	if s.phase == StateCompleted {
		s.key = ""
	}
	s.phase = ""
	return nil
}

// validate runs the fail-fast pre-submission checks. Violations never
// reach the network.
func (s *Submitter) validate() error {
	if s.cart.IsEmpty() {
		return ErrEmptyCart
	}

	var drifted []string
	for _, line := range s.cart.Lines() {
		if !line.UnitPrice.IsPositive() {
			return ErrNonPositivePrice
		}
		if s.catalog != nil {
			if current, ok := s.catalog.Product(line.ProductID); ok && !current.Price.Equal(line.UnitPrice) {
				drifted = append(drifted, line.ProductID)
			}
		}
	}
	if len(drifted) > 0 {
		return &PriceDriftError{ProductIDs: drifted}
	}

	if !s.tender.IsReady(s.cart.Total()) {
		return ErrTenderNotReady
	}
	return nil
}

// Submit runs the full transaction: validate, freeze, submit,
// interpret. On success the cart is cleared and the tender reset; on
// any failure both are restored exactly as they were before the
// attempt. Submit is the only entry into the Submitting state.
func (s *Submitter) Submit(ctx context.Context) (*models.Sale, error) {
	if s.phase == StateSubmitting {
		return nil, ErrSubmissionInFlight
	}

	// A retired key means this checkout already committed; only an
	// operator edit starts a new one. Checked before validation so a
	// blind resubmit is reported as committed, not as an empty cart.
	if s.guard != nil && s.key != "" && s.guard.Retired(s.key) {
		return nil, ErrAlreadyCommitted
	}
	s.phase = ""

	if err := s.validate(); err != nil {
		s.sink.Notify(err.Error(), notify.SeverityError)
		return nil, err
	}

	if s.key == "" {
		s.key = uuid.New().String()
	}

	cartBefore := s.cart.Snapshot()
	tenderBefore := s.tender.Snapshot()

	request := s.buildRequest()

	s.phase = StateSubmitting
	s.sink.Notify("Submitting sale...", notify.SeverityInfo)
	s.log.Info("submitting sale",
		"branch_id", s.branchID,
		"lines", len(request.Items),
		"total", s.cart.Total(),
		"payment_method_id", request.PaymentMethodID,
	)

	sale, err := s.endpoint.SubmitSale(ctx, request)
	if err != nil {
		s.cart.Restore(cartBefore)
		s.tender.Restore(tenderBefore)
		s.phase = StateFailed
		return nil, s.interpretFailure(ctx, err)
	}

	if s.guard != nil {
		s.guard.Retire(s.key)
	}
	s.cart.Clear()
	s.tender.Reset()
	s.lastSale = sale
	s.phase = StateCompleted

	s.sink.Notify("Sale completed", notify.SeveritySuccess)
	s.log.Info("sale completed", "sale_id", sale.ID, "total", sale.Total)

	// Re-sync the stock snapshot, strictly after the Completed
	// transition. Failure here does not undo the committed sale.
	if s.refresh != nil {
		s.sink.Notify("Refreshing catalog...", notify.SeverityInfo)
		if err := s.refresh.Refresh(ctx); err != nil {
			s.log.Warn("catalog refresh after sale failed", "error", err)
			s.sink.Notify("Catalog refresh failed; stock shown may be stale", notify.SeverityWarning)
		}
	}

	return sale, nil
}

func (s *Submitter) buildRequest() models.SaleRequest {
	lines := s.cart.Lines()
	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	total := s.cart.Total()
	method, _ := s.tender.Method()

	amount := total
	if method.IsCash() {
		amount = s.tender.AmountTendered()
	}

	return models.SaleRequest{
		BranchID:        s.branchID,
		Items:           items,
		PaymentMethodID: method.ID,
		AmountTendered:  amount,
		ChangeDue:       s.tender.ChangeDue(total),
		IdempotencyKey:  s.key,
	}
}

// interpretFailure maps a back-office error to the local taxonomy and
// surfaces it. A stock conflict means the stock snapshot went stale
// under a concurrent terminal; the catalog is re-fetched so corrected
// ceilings apply to the operator's next adjustment.
func (s *Submitter) interpretFailure(ctx context.Context, err error) error {
	if backoffice.IsStockConflict(err) {
		s.log.Warn("stock conflict on submission", "error", err)
		s.sink.Notify("Stock changed on another terminal; please review quantities", notify.SeverityWarning)
		if s.refresh != nil {
			if refreshErr := s.refresh.Refresh(ctx); refreshErr != nil {
				s.log.Warn("catalog refresh after stock conflict failed", "error", refreshErr)
			}
		}
		return errors.Join(ErrStockConflict, err)
	}

	s.log.Error("sale submission failed", "error", err)
	s.sink.Notify("Sale could not be completed; cart preserved, you may retry", notify.SeverityError)
	return err
}

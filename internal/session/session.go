// Package session owns one checkout engine instance per terminal
// session: the cart, the tender resolver, the submitter and the
// current catalog snapshot. A session serializes every command behind
// one mutex, which is what makes cart mutations strictly ordered and
// the Submitting freeze an effective mutual-exclusion gate.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/cart"
	"github.com/altamira/pos-checkout/internal/checkout"
	"github.com/altamira/pos-checkout/internal/models"
	"github.com/altamira/pos-checkout/internal/notify"
	"github.com/altamira/pos-checkout/internal/receipt"
	"github.com/altamira/pos-checkout/internal/tender"
)

var (
	ErrUnknownProduct = errors.New("product not in catalog snapshot")
	ErrUnknownMethod  = errors.New("payment method not enabled for tenant")
	ErrNoSale         = errors.New("no completed sale in this session")
)

// Backoffice is the slice of the back-office API a session consumes.
// Implemented by backoffice.Client.
type Backoffice interface {
	FetchCatalog(ctx context.Context, branchID string) ([]models.Product, error)
	FetchPaymentMethods(ctx context.Context, tenantID string) ([]models.PaymentMethod, error)
	FetchTenantInfo(ctx context.Context, tenantID string) (*models.TenantInfo, error)
	FetchBranchInfo(ctx context.Context, branchID string) (*models.BranchInfo, error)
	SubmitSale(ctx context.Context, request models.SaleRequest) (*models.Sale, error)
}

// CartView is the session's read model of the cart.
type CartView struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
	State checkout.State  `json:"state"`
}

// Session is one terminal checkout session scoped to a branch.
type Session struct {
	mu sync.Mutex

	id       string
	tenantID string
	branchID string

	client    Backoffice
	catalog   *catalogStore
	refresher *snapshotRefresher
	cart      *cart.Cart
	tender    *tender.Resolver
	sub       *checkout.Submitter
	renderer  *receipt.Renderer
	sink      notify.Sink
	log       *slog.Logger

	methods    []models.PaymentMethod
	tenantInfo *models.TenantInfo
	branchInfo *models.BranchInfo
}

// Config carries the fixed identity and presentation settings of a
// session.
type Config struct {
	TenantID    string
	BranchID    string
	ReceiptOpts receipt.Options
}

// Open creates a session for a branch: loads the catalog snapshot and
// payment-method registry, pre-selects the default method when the
// registry flags one, and fetches receipt metadata best-effort.
func Open(ctx context.Context, cfg Config, client Backoffice, guard *checkout.KeyGuard, sink notify.Sink, log *slog.Logger) (*Session, error) {
	s := &Session{
		id:       uuid.New().String(),
		tenantID: cfg.TenantID,
		branchID: cfg.BranchID,
		client:   client,
		cart:     cart.New(),
		tender:   tender.NewResolver(),
		renderer: receipt.NewRenderer(cfg.ReceiptOpts),
		sink:     sink,
		log:      log,
	}

	s.catalog = &catalogStore{client: client, branchID: cfg.BranchID}

	sink.Notify("Loading catalog...", notify.SeverityInfo)
	if err := s.catalog.Refresh(ctx); err != nil {
		return nil, err
	}

	methods, err := client.FetchPaymentMethods(ctx, cfg.TenantID)
	if err != nil {
		return nil, err
	}
	s.methods = methods

	s.refresher = &snapshotRefresher{catalog: s.catalog, cart: s.cart}
	s.sub = checkout.NewSubmitter(s.cart, s.tender, client, s.catalog, s.refresher, sink, guard, cfg.BranchID, log)

	for _, m := range methods {
		if m.IsDefault {
			s.tender.SelectMethod(m)
			break
		}
	}

	// Receipt metadata is presentation only; a failed fetch renders
	// placeholders instead of blocking the session.
	if info, err := client.FetchTenantInfo(ctx, cfg.TenantID); err == nil {
		s.tenantInfo = info
	} else {
		log.Warn("tenant info unavailable", "error", err)
	}
	if info, err := client.FetchBranchInfo(ctx, cfg.BranchID); err == nil {
		s.branchInfo = info
	} else {
		log.Warn("branch info unavailable", "error", err)
	}

	log.Info("session opened",
		"session_id", s.id,
		"branch_id", cfg.BranchID,
		"products", s.catalog.Len(),
		"payment_methods", len(methods),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// BranchID returns the branch this session sells from.
func (s *Session) BranchID() string {
	return s.branchID
}

// Products returns the current catalog snapshot.
func (s *Session) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Products()
}

// PaymentMethods returns the tenant's enabled tender types.
func (s *Session) PaymentMethods() []models.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentMethod, len(s.methods))
	copy(out, s.methods)
	return out
}

// AddItem adds one unit of a catalog product to the cart.
func (s *Session) AddItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.catalog.Product(productID)
	if !ok {
		s.sink.Notify("Product is not in the catalog", notify.SeverityWarning)
		return ErrUnknownProduct
	}
	return s.notifyCartError(s.sub.AddItem(product))
}

// SetQuantity updates a cart line quantity.
func (s *Session) SetQuantity(productID string, qty decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyCartError(s.sub.SetQuantity(productID, qty))
}

// RemoveItem removes a cart line.
func (s *Session) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub.RemoveItem(productID)
}

// SelectMethod activates one of the tenant's enabled payment methods.
func (s *Session) SelectMethod(methodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.methods {
		if m.ID == methodID {
			return s.sub.SelectMethod(m)
		}
	}
	return ErrUnknownMethod
}

// SetAmountTendered records the cash received from the customer.
func (s *Session) SetAmountTendered(amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub.SetAmountTendered(amount)
}

// Cart returns the current cart view.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartView{
		Lines: s.cart.Lines(),
		Total: s.cart.Total(),
		State: s.sub.State(),
	}
}

// ChangeDue returns the change for the current cart total.
func (s *Session) ChangeDue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tender.ChangeDue(s.cart.Total())
}

// Submit runs the checkout transaction.
func (s *Session) Submit(ctx context.Context) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub.Submit(ctx)
}

// Receipt renders the receipt of the last completed sale. Safe to call
// repeatedly; each call re-renders the same document.
func (s *Session) Receipt() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sub.Sale()
	if !ok {
		return "", ErrNoSale
	}
	return s.renderer.Render(*sale, s.tenantInfo, s.branchInfo), nil
}

// notifyCartError surfaces stock rejections through the sink with an
// operator-readable message before passing the error up.
func (s *Session) notifyCartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		s.sink.Notify("Product is out of stock", notify.SeverityWarning)
	case errors.Is(err, cart.ErrInsufficientStock):
		s.sink.Notify("Requested quantity exceeds available stock", notify.SeverityWarning)
	}
	return err
}

// RefreshCatalog re-fetches the catalog snapshot on operator request.
func (s *Session) RefreshCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.Notify("Loading catalog...", notify.SeverityInfo)
	return s.refresher.Refresh(ctx)
}

package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation covers every pre-submission rejection. None of
	// these reach the network.
	ErrValidation = errors.New("checkout validation failed")

	ErrEmptyCart        = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrTenderNotReady   = fmt.Errorf("%w: tender is not ready", ErrValidation)
	ErrNonPositivePrice = fmt.Errorf("%w: cart contains a line without a positive price", ErrValidation)

	// ErrSubmissionInFlight rejects commands while a submission is
	// unresolved; a submission in flight is not cancellable.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrAlreadyCommitted rejects a submit whose idempotency key was
	// already retired by a completed sale.
	ErrAlreadyCommitted = errors.New("this checkout was already committed")

	// ErrStockConflict marks a server-side rejection caused by a stale
	// stock snapshot; the catalog has been re-fetched when it surfaces.
	ErrStockConflict = errors.New("stock changed on another terminal")
)

// PriceDriftError blocks submission when a line's captured price no
// longer matches the current catalog snapshot. The operator confirms
// the new price by re-adding the product.
type PriceDriftError struct {
	ProductIDs []string
}

func (e *PriceDriftError) Error() string {
	return fmt.Sprintf("price changed since items were added: %s", strings.Join(e.ProductIDs, ", "))
}

func (e *PriceDriftError) Unwrap() error {
	return ErrValidation
}

package backoffice

import (
	"errors"
	"fmt"
)

// ErrNetwork marks submissions and fetches that never produced a
// back-office response: connection failures, timeouts, bad payloads.
var ErrNetwork = errors.New("backoffice unreachable")

// ErrorKind discriminates structured back-office rejections.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindStockConflict ErrorKind = "stock-conflict"
	KindServerError   ErrorKind = "server-error"
)

// APIError is a structured rejection from the back office. The Kind
// drives recovery: stock conflicts re-fetch the catalog, validation
// errors go back to the operator, server errors may be retried as-is.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backoffice rejected request (%s): %s", e.Kind, e.Message)
}

// IsStockConflict reports whether err is a back-office stock conflict.
func IsStockConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindStockConflict
}

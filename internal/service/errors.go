package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Workflow error taxonomy. Validation errors are detected before any write;
// only ErrCommitFailed and ErrReadFailed are worth retrying, and only after
// the caller re-checks preconditions.
var (
	ErrPartyNotFound       = errors.New("party not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLineItemNotFound    = errors.New("line item not found")
	ErrEmptyTransaction    = errors.New("transaction must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidField        = errors.New(`field must be "sold" or "returned"`)
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAlreadyFinalized    = errors.New("transaction has already been reconciled")
	ErrCommitFailed        = errors.New("commit failed")
	ErrReadFailed          = errors.New("read failed")
)

// InsufficientStockError carries the quantity that was actually available so
// the caller can show it next to the rejected request.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/tirasundara/payment-ledger/internal/domain"
)

// Reasons a transaction is dropped. None of them stops the run.
var (
	ErrAccountLocked      = errors.New("account locked")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrMissingAmount      = errors.New("missing amount")
	ErrUnsupportedType    = errors.New("unsupported transaction type")
	ErrNotDisputed        = errors.New("transaction not under dispute")
	ErrAlreadyDisputed    = errors.New("transaction already under dispute")
	ErrChargedBack        = errors.New("transaction already charged back")
)

// DropError reports a transaction the ledger left unapplied
type DropError struct {
	Transaction domain.Transaction
	Reason      error
}

func (e *DropError) Error() string {
	return fmt.Sprintf("dropped %s: %v", e.Transaction, e.Reason)
}

func (e *DropError) Unwrap() error {
	return e.Reason
}

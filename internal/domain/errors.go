package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the only failure kind of the account: every rejection
// is a caller-input problem and is never retried.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// Account errors
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	ErrInsufficientFunds = fmt.Errorf("%w: amount exceeds the current balance", ErrInvalidArgument)
	ErrStatementInFuture = fmt.Errorf("%w: cannot create a statement in the future", ErrInvalidArgument)

	// Ledger errors
	ErrEntryOutOfOrder = fmt.Errorf("%w: entry date is before the latest entry", ErrInvalidArgument)
)

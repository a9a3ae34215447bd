package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive integer")
	ErrUnknownReason   = errors.New("unknown reason code")
	ErrBalanceNotFound = errors.New("balance not found")
	ErrLedgerBusy      = errors.New("ledger busy, retry later")
	ErrDailyCapReached = errors.New("daily earn cap reached")
)

// InsufficientBalanceError carries what the user had vs asked for, so the
// caller can render a useful message.
type InsufficientBalanceError struct {
	Available int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %d, requested %d", e.Available, e.Requested)
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrAccountClosed     = errors.New("account is closed")
	ErrBalanceNotZero    = errors.New("account balance must be zero before closing")

	// Operation errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InsufficientFundsError reports a rejected debit together with the balance
// that was available at the time of the check. It matches
// ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available balance is %s", e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

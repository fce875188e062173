package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies an account at creation time. The engine stores it but no
// core operation branches on it.
type Kind string

const (
	KindSavings Kind = "Savings"
	KindCurrent Kind = "Current"
)

// IsValid reports whether the kind is one of the known account kinds.
func (k Kind) IsValid() bool {
	return k == KindSavings || k == KindCurrent
}

// Profile holds the account holder's identity fields. They are opaque to the
// ledger engine and passed through to storage unchanged.
type Profile struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	DateOfBirth string
}

// Account represents a customer account holding a balance.
type Account struct {
	Number    int64
	Profile   Profile
	Kind      Kind
	Balance   decimal.Decimal
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// Closed reports whether the account has been closed.
func (a *Account) Closed() bool {
	return a.ClosedAt != nil
}

// ValidateWithdrawal checks the balance covers amount. The returned error
// carries the available balance for user-facing messaging.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return &InsufficientFundsError{Available: a.Balance}
	}

	return nil
}

// ApplyDebit returns the balance after a debit of amount.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit of amount.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

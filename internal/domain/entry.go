package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies what kind of balance movement a ledger entry records.
type EntryKind string

const (
	EntryDeposit          EntryKind = "Deposit"
	EntryWithdrawal       EntryKind = "Withdrawal"
	EntryTransferSent     EntryKind = "TransferSent"
	EntryTransferReceived EntryKind = "TransferReceived"
)

// IsCredit reports whether the entry kind increases the account balance.
func (k EntryKind) IsCredit() bool {
	return k == EntryDeposit || k == EntryTransferReceived
}

// Entry is one immutable record of a balance-affecting event. Amount is
// always positive; the direction is implied by Kind.
type Entry struct {
	EntryID        int64
	AccountNumber  int64
	Kind           EntryKind
	Amount         decimal.Decimal
	BalanceAfter   decimal.Decimal
	RelatedAccount *int64
	TransferID     string
	Description    string
	RecordedAt     time.Time
}

// Signed returns the amount with the sign implied by the entry kind.
func (e *Entry) Signed() decimal.Decimal {
	if e.Kind.IsCredit() {
		return e.Amount
	}

	return e.Amount.Neg()
}

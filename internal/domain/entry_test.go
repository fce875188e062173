package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntryKind_IsCredit(t *testing.T) {
	tests := []struct {
		kind   EntryKind
		credit bool
	}{
		{EntryDeposit, true},
		{EntryTransferReceived, true},
		{EntryWithdrawal, false},
		{EntryTransferSent, false},
	}

	for _, tt := range tests {
		if got := tt.kind.IsCredit(); got != tt.credit {
			t.Errorf("%s: expected IsCredit=%v, got %v", tt.kind, tt.credit, got)
		}
	}
}

func TestEntry_Signed(t *testing.T) {
	amount := decimal.NewFromInt(250)

	deposit := &Entry{Kind: EntryDeposit, Amount: amount}
	if !deposit.Signed().Equal(amount) {
		t.Errorf("deposit should be positive, got %s", deposit.Signed())
	}

	withdrawal := &Entry{Kind: EntryWithdrawal, Amount: amount}
	if !withdrawal.Signed().Equal(amount.Neg()) {
		t.Errorf("withdrawal should be negative, got %s", withdrawal.Signed())
	}

	sent := &Entry{Kind: EntryTransferSent, Amount: amount}
	received := &Entry{Kind: EntryTransferReceived, Amount: amount}

	if !sent.Signed().Add(received.Signed()).IsZero() {
		t.Error("a transfer pair must sum to zero")
	}
}

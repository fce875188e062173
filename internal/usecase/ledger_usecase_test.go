package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
	"github.com/corebank/ledger/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository, *mocks.MockTransactionManager) {
	accounts := mocks.NewMockAccountRepository()
	entries := mocks.NewMockEntryRepository()
	txMgr := mocks.NewMockTransactionManager()

	uc := usecase.NewLedgerUseCase(txMgr, accounts, entries, mocks.NewMockRetrier(), mocks.NewMockIDGenerator())

	return uc, accounts, entries, txMgr
}

func TestLedgerUseCase_Deposit(t *testing.T) {
	tests := []struct {
		name      string
		balance   decimal.Decimal
		amount    decimal.Decimal
		errorType error
	}{
		{
			name:    "successful deposit",
			balance: decimal.NewFromInt(1000),
			amount:  decimal.NewFromInt(200),
		},
		{
			name:      "zero amount rejected",
			balance:   decimal.NewFromInt(1000),
			amount:    decimal.Zero,
			errorType: domain.ErrInvalidAmount,
		},
		{
			name:      "negative amount rejected",
			balance:   decimal.NewFromInt(1000),
			amount:    decimal.NewFromInt(-50),
			errorType: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accounts, _, _ := newLedgerFixture()
			acc := accounts.Seed(&domain.Account{Balance: tt.balance, Kind: domain.KindSavings})

			entry, err := uc.Deposit(context.Background(), usecase.DepositInput{
				AccountNumber: acc.Number,
				Amount:        tt.amount,
				Description:   "cash deposit",
			})

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}

				stored, _ := accounts.GetByNumber(context.Background(), acc.Number)
				if !stored.Balance.Equal(tt.balance) {
					t.Errorf("balance must be unchanged on failure, got %s", stored.Balance)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := tt.balance.Add(tt.amount)
			if !entry.BalanceAfter.Equal(want) {
				t.Errorf("expected balance_after %s, got %s", want, entry.BalanceAfter)
			}

			if entry.Kind != domain.EntryDeposit {
				t.Errorf("expected Deposit entry, got %s", entry.Kind)
			}

			if entry.EntryID == 0 {
				t.Error("entry ID must be assigned")
			}

			stored, _ := accounts.GetByNumber(context.Background(), acc.Number)
			if !stored.Balance.Equal(want) {
				t.Errorf("expected stored balance %s, got %s", want, stored.Balance)
			}
		})
	}
}

func TestLedgerUseCase_Deposit_AccountMissing(t *testing.T) {
	uc, _, _, _ := newLedgerFixture()

	_, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: 42,
		Amount:        decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Withdraw(t *testing.T) {
	tests := []struct {
		name      string
		balance   decimal.Decimal
		amount    decimal.Decimal
		errorType error
	}{
		{
			name:    "successful withdrawal",
			balance: decimal.NewFromInt(1200),
			amount:  decimal.NewFromInt(300),
		},
		{
			name:    "exact balance withdrawal",
			balance: decimal.NewFromInt(500),
			amount:  decimal.NewFromInt(500),
		},
		{
			name:      "insufficient funds",
			balance:   decimal.NewFromInt(1200),
			amount:    decimal.NewFromInt(1300),
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name:      "zero amount rejected",
			balance:   decimal.NewFromInt(1200),
			amount:    decimal.Zero,
			errorType: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accounts, entries, _ := newLedgerFixture()
			acc := accounts.Seed(&domain.Account{Balance: tt.balance, Kind: domain.KindCurrent})

			entry, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
				AccountNumber: acc.Number,
				Amount:        tt.amount,
			})

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}

				if errors.Is(err, domain.ErrInsufficientFunds) {
					var ife *domain.InsufficientFundsError
					if !errors.As(err, &ife) {
						t.Fatalf("expected *InsufficientFundsError, got %T", err)
					}
					if !ife.Available.Equal(tt.balance) {
						t.Errorf("expected available %s, got %s", tt.balance, ife.Available)
					}
				}

				stored, _ := accounts.GetByNumber(context.Background(), acc.Number)
				if !stored.Balance.Equal(tt.balance) {
					t.Errorf("balance must be unchanged on failure, got %s", stored.Balance)
				}

				if len(entries.All()) != 0 {
					t.Error("no ledger entry may exist for a failed withdrawal")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := tt.balance.Sub(tt.amount)
			if !entry.BalanceAfter.Equal(want) {
				t.Errorf("expected balance_after %s, got %s", want, entry.BalanceAfter)
			}

			if entry.BalanceAfter.IsNegative() {
				t.Error("balance may never go negative")
			}
		})
	}
}

func TestLedgerUseCase_Transfer(t *testing.T) {
	type seed struct {
		balance decimal.Decimal
		closed  bool
	}

	tests := []struct {
		name      string
		sender    *seed
		recipient *seed
		selfSend  bool
		amount    decimal.Decimal
		errorType error
	}{
		{
			name:      "successful transfer",
			sender:    &seed{balance: decimal.NewFromInt(1200)},
			recipient: &seed{balance: decimal.NewFromInt(300)},
			amount:    decimal.NewFromInt(500),
		},
		{
			name:      "self transfer rejected before amount check",
			sender:    &seed{balance: decimal.NewFromInt(1200)},
			selfSend:  true,
			amount:    decimal.Zero,
			errorType: domain.ErrSelfTransfer,
		},
		{
			name:      "zero amount rejected",
			sender:    &seed{balance: decimal.NewFromInt(1200)},
			recipient: &seed{balance: decimal.Zero},
			amount:    decimal.Zero,
			errorType: domain.ErrInvalidAmount,
		},
		{
			name:      "recipient missing",
			sender:    &seed{balance: decimal.NewFromInt(1200)},
			amount:    decimal.NewFromInt(100),
			errorType: domain.ErrRecipientNotFound,
		},
		{
			name:      "recipient closed",
			sender:    &seed{balance: decimal.NewFromInt(1200)},
			recipient: &seed{balance: decimal.Zero, closed: true},
			amount:    decimal.NewFromInt(100),
			errorType: domain.ErrRecipientNotFound,
		},
		{
			name:      "insufficient funds",
			sender:    &seed{balance: decimal.NewFromInt(100)},
			recipient: &seed{balance: decimal.Zero},
			amount:    decimal.NewFromInt(101),
			errorType: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accounts, entries, _ := newLedgerFixture()

			sender := accounts.Seed(&domain.Account{Balance: tt.sender.balance, Kind: domain.KindSavings})

			var recipientNumber int64 = 999 // not seeded

			if tt.selfSend {
				recipientNumber = sender.Number
			} else if tt.recipient != nil {
				rec := &domain.Account{Balance: tt.recipient.balance, Kind: domain.KindSavings}
				accounts.Seed(rec)

				if tt.recipient.closed {
					now := rec.CreatedAt
					rec.ClosedAt = &now
				}

				recipientNumber = rec.Number
			}

			pair, err := uc.Transfer(context.Background(), usecase.TransferInput{
				From:   sender.Number,
				To:     recipientNumber,
				Amount: tt.amount,
			})

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}

				storedSender, _ := accounts.GetByNumber(context.Background(), sender.Number)
				if !storedSender.Balance.Equal(tt.sender.balance) {
					t.Errorf("sender balance must be unchanged, got %s", storedSender.Balance)
				}

				if len(entries.All()) != 0 {
					t.Error("no ledger entries may exist for a failed transfer")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if pair.Sent.Kind != domain.EntryTransferSent || pair.Received.Kind != domain.EntryTransferReceived {
				t.Fatalf("unexpected entry kinds: %s / %s", pair.Sent.Kind, pair.Received.Kind)
			}

			if !pair.Sent.Amount.Equal(pair.Received.Amount) {
				t.Error("pair amounts must be identical")
			}

			if pair.Sent.TransferID == "" || pair.Sent.TransferID != pair.Received.TransferID {
				t.Error("pair must share one transfer ID")
			}

			if pair.Sent.RelatedAccount == nil || *pair.Sent.RelatedAccount != recipientNumber {
				t.Error("sent entry must reference the recipient")
			}

			if pair.Received.RelatedAccount == nil || *pair.Received.RelatedAccount != sender.Number {
				t.Error("received entry must reference the sender")
			}

			// Conservation: sum of both balances unchanged.
			storedSender, _ := accounts.GetByNumber(context.Background(), sender.Number)
			storedRecipient, _ := accounts.GetByNumber(context.Background(), recipientNumber)

			before := tt.sender.balance.Add(tt.recipient.balance)
			after := storedSender.Balance.Add(storedRecipient.Balance)

			if !before.Equal(after) {
				t.Errorf("transfer must conserve money: before %s, after %s", before, after)
			}

			if !storedSender.Balance.Equal(pair.Sent.BalanceAfter) {
				t.Errorf("sent balance_after %s does not match stored %s", pair.Sent.BalanceAfter, storedSender.Balance)
			}

			if !storedRecipient.Balance.Equal(pair.Received.BalanceAfter) {
				t.Errorf("received balance_after %s does not match stored %s", pair.Received.BalanceAfter, storedRecipient.Balance)
			}
		})
	}
}

func TestLedgerUseCase_Transfer_RollsBackOnAppendFailure(t *testing.T) {
	uc, accounts, entries, _ := newLedgerFixture()

	sender := accounts.Seed(&domain.Account{Balance: decimal.NewFromInt(1000)})
	recipient := accounts.Seed(&domain.Account{Balance: decimal.NewFromInt(100)})

	appendErr := errors.New("disk full")
	calls := 0
	entries.AppendFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
		calls++
		if calls == 2 {
			return nil, appendErr
		}

		stored := *entry
		stored.EntryID = int64(calls)

		return &stored, nil
	}

	rolledBack := false
	txMgr := mocks.NewMockTransactionManager()
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &MockTrackingTx{onRollback: func() { rolledBack = true }}, nil
	}

	uc = usecase.NewLedgerUseCase(txMgr, accounts, entries, mocks.NewMockRetrier(), mocks.NewMockIDGenerator())

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		From:   sender.Number,
		To:     recipient.Number,
		Amount: decimal.NewFromInt(500),
	})
	if !errors.Is(err, appendErr) {
		t.Fatalf("expected append error, got %v", err)
	}

	if !rolledBack {
		t.Error("transaction must roll back when the second append fails")
	}
}

// MockTrackingTx records whether it was rolled back without committing.
type MockTrackingTx struct {
	committed  bool
	onRollback func()
}

func (t *MockTrackingTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *MockTrackingTx) Rollback(ctx context.Context) error {
	if !t.committed && t.onRollback != nil {
		t.onRollback()
	}

	return nil
}

func TestLedgerUseCase_ConcurrentWithdrawals(t *testing.T) {
	// N concurrent withdrawals of amount A against balance (N-1)*A must end
	// with exactly N-1 successes and one insufficient-funds failure.
	const n = 8

	amount := decimal.NewFromInt(100)
	balance := amount.Mul(decimal.NewFromInt(n - 1))

	accounts := mocks.NewMockAccountRepository()
	entries := mocks.NewMockEntryRepository()
	txMgr := mocks.NewMockTransactionManager()
	txMgr.Serialize = true

	uc := usecase.NewLedgerUseCase(txMgr, accounts, entries, mocks.NewMockRetrier(), mocks.NewMockIDGenerator())
	acc := accounts.Seed(&domain.Account{Balance: balance})

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		fundsErrors  atomic.Int32
	)

	wg.Add(n)

	for range n {
		go func() {
			defer wg.Done()

			_, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
				AccountNumber: acc.Number,
				Amount:        amount,
			})

			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				fundsErrors.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != n-1 {
		t.Errorf("expected %d successes, got %d", n-1, successCount.Load())
	}

	if fundsErrors.Load() != 1 {
		t.Errorf("expected exactly 1 insufficient-funds failure, got %d", fundsErrors.Load())
	}

	stored, _ := accounts.GetByNumber(context.Background(), acc.Number)
	if !stored.Balance.IsZero() {
		t.Errorf("expected final balance 0, got %s", stored.Balance)
	}

	if got := len(entries.All()); got != n-1 {
		t.Errorf("expected %d ledger entries, got %d", n-1, got)
	}
}

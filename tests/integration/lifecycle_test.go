package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/repository/postgres"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
	"github.com/corebank/ledger/tests/testutil"
)

func newAccountUseCase(testDB *testutil.TestDB) *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(
		postgres.NewTxManager(testDB.Pool),
		postgres.NewAccountRepository(testDB.Pool),
		postgres.NewEntryRepository(testDB.Pool),
		postgres.NewCredentialRepository(testDB.Pool),
	)
}

func TestAccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	accountUC := newAccountUseCase(testDB)
	ledgerUC := newLedgerUseCase(testDB)

	t.Run("opening seeds the ledger with the initial deposit", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		account, err := accountUC.OpenAccount(ctx, usecase.OpenAccountInput{
			Profile: domain.Profile{
				Name:  "Helen Park",
				Email: "helen@example.com",
			},
			Kind:           domain.KindSavings,
			InitialDeposit: decimal.NewFromInt(500),
		})
		if err != nil {
			t.Fatalf("failed to open account: %v", err)
		}

		if account.Number == 0 {
			t.Error("expected assigned account number")
		}
		if !account.Balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500, got %s", account.Balance)
		}
		if got := testDB.CountEntries(ctx, account.Number); got != 1 {
			t.Errorf("expected 1 seeded entry, got %d", got)
		}
	})

	t.Run("opening below the minimum deposit fails", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		_, err := accountUC.OpenAccount(ctx, usecase.OpenAccountInput{
			Profile: domain.Profile{
				Name:  "Ivan Low",
				Email: "ivan@example.com",
			},
			Kind:           domain.KindSavings,
			InitialDeposit: decimal.NewFromInt(50),
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("close requires zero balance then blocks operations", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		account, err := accountUC.OpenAccount(ctx, usecase.OpenAccountInput{
			Profile: domain.Profile{
				Name:  "Judy Chen",
				Email: "judy@example.com",
			},
			Kind:           domain.KindCurrent,
			InitialDeposit: decimal.NewFromInt(500),
		})
		if err != nil {
			t.Fatalf("failed to open account: %v", err)
		}

		if err := accountUC.CloseAccount(ctx, account.Number); !errors.Is(err, domain.ErrBalanceNotZero) {
			t.Fatalf("expected ErrBalanceNotZero, got %v", err)
		}

		if _, err := ledgerUC.Withdraw(ctx, usecase.WithdrawInput{
			AccountNumber: account.Number,
			Amount:        decimal.NewFromInt(500),
		}); err != nil {
			t.Fatalf("failed to empty account: %v", err)
		}

		if err := accountUC.CloseAccount(ctx, account.Number); err != nil {
			t.Fatalf("failed to close account: %v", err)
		}

		// History survives closing.
		if got := testDB.CountEntries(ctx, account.Number); got != 2 {
			t.Errorf("expected 2 preserved entries, got %d", got)
		}

		if _, err := ledgerUC.Deposit(ctx, usecase.DepositInput{
			AccountNumber: account.Number,
			Amount:        decimal.NewFromInt(10),
		}); !errors.Is(err, domain.ErrAccountClosed) {
			t.Errorf("expected ErrAccountClosed on deposit, got %v", err)
		}

		if err := accountUC.CloseAccount(ctx, account.Number); !errors.Is(err, domain.ErrAccountClosed) {
			t.Errorf("expected ErrAccountClosed on double close, got %v", err)
		}

		stored, err := accountUC.GetAccount(ctx, account.Number)
		if err != nil {
			t.Fatalf("closed account should stay readable: %v", err)
		}
		if stored.ClosedAt == nil {
			t.Error("expected closed_at to be set")
		}
	})

	t.Run("opening with a credential enables login until close", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		account, err := accountUC.OpenAccount(ctx, usecase.OpenAccountInput{
			Profile: domain.Profile{
				Name:  "Ken Adams",
				Email: "ken@example.com",
			},
			Kind:           domain.KindSavings,
			InitialDeposit: decimal.NewFromInt(600),
			Username:       "kenadams",
			Password:       "s3cret-pass",
		})
		if err != nil {
			t.Fatalf("failed to open account: %v", err)
		}

		credentialUC := usecase.NewCredentialUseCase(postgres.NewCredentialRepository(testDB.Pool))

		cred, err := credentialUC.Authenticate(ctx, "kenadams", "s3cret-pass")
		if err != nil {
			t.Fatalf("failed to authenticate: %v", err)
		}
		if cred.AccountNumber == nil || *cred.AccountNumber != account.Number {
			t.Errorf("expected credential bound to account %d", account.Number)
		}

		if _, err := credentialUC.Authenticate(ctx, "kenadams", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}

		if _, err := ledgerUC.Withdraw(ctx, usecase.WithdrawInput{
			AccountNumber: account.Number,
			Amount:        decimal.NewFromInt(600),
		}); err != nil {
			t.Fatalf("failed to empty account: %v", err)
		}
		if err := accountUC.CloseAccount(ctx, account.Number); err != nil {
			t.Fatalf("failed to close account: %v", err)
		}

		if _, err := credentialUC.Authenticate(ctx, "kenadams", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected login rejected after close, got %v", err)
		}
	})
}

package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/repository/postgres"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
	"github.com/corebank/ledger/tests/testutil"
)

func TestConcurrentWithdrawals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	accountRepo := postgres.NewAccountRepository(testDB.Pool)
	ledgerUC := newLedgerUseCase(testDB)

	t.Run("50 concurrent withdrawals never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance covers exactly 30 of the 50 attempted withdrawals.
		account := testDB.SeedAccount(ctx, "contended", domain.KindCurrent, decimal.NewFromInt(300))

		numWithdrawals := 50
		amount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			rejectCount  atomic.Int32
		)

		wg.Add(numWithdrawals)

		for range numWithdrawals {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Withdraw(ctx, usecase.WithdrawInput{
					AccountNumber: account.Number,
					Amount:        amount,
				})
				if err != nil {
					rejectCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 30 {
			t.Errorf("expected 30 successful withdrawals, got %d (rejected: %d)", successCount.Load(), rejectCount.Load())
		}

		stored, err := accountRepo.GetByNumber(ctx, account.Number)
		if err != nil {
			t.Fatalf("failed to reload account: %v", err)
		}
		if !stored.Balance.Equal(decimal.Zero) {
			t.Errorf("expected balance 0, got %s", stored.Balance)
		}

		// One seed entry plus one entry per successful withdrawal.
		if got := testDB.CountEntries(ctx, account.Number); got != 31 {
			t.Errorf("expected 31 entries, got %d", got)
		}
	})

	t.Run("opposing concurrent transfers do not deadlock", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		a := testDB.SeedAccount(ctx, "left", domain.KindSavings, decimal.NewFromInt(1000))
		b := testDB.SeedAccount(ctx, "right", domain.KindSavings, decimal.NewFromInt(1000))

		numPairs := 25

		var (
			wg       sync.WaitGroup
			failures atomic.Int32
		)

		wg.Add(numPairs * 2)

		for range numPairs {
			go func() {
				defer wg.Done()
				if _, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
					From: a.Number, To: b.Number, Amount: decimal.NewFromInt(5),
				}); err != nil {
					failures.Add(1)
				}
			}()
			go func() {
				defer wg.Done()
				if _, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
					From: b.Number, To: a.Number, Amount: decimal.NewFromInt(5),
				}); err != nil {
					failures.Add(1)
				}
			}()
		}

		wg.Wait()

		if failures.Load() != 0 {
			t.Errorf("expected all opposing transfers to succeed, %d failed", failures.Load())
		}

		accA, _ := accountRepo.GetByNumber(ctx, a.Number)
		accB, _ := accountRepo.GetByNumber(ctx, b.Number)

		if !accA.Balance.Equal(decimal.NewFromInt(1000)) || !accB.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected balances back at 1000/1000, got %s/%s", accA.Balance, accB.Balance)
		}

		total := accA.Balance.Add(accB.Balance)
		if !total.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("money created or destroyed: total %s", total)
		}
	})
}

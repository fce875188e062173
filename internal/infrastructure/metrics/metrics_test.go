package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

func newTestMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow repeated New() across tests.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return New()
}

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.AccountsOpened == nil || m.OperationsTotal == nil || m.OperationErrors == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestErrorReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrInsufficientFunds, "insufficient_funds"},
		{&domain.InsufficientFundsError{}, "insufficient_funds"},
		{domain.ErrAccountClosed, "account_closed"},
		{domain.ErrAccountNotFound, "not_found"},
		{domain.ErrRecipientNotFound, "not_found"},
		{domain.ErrSelfTransfer, "invalid"},
		{domain.ErrStorageUnavailable, "storage"},
		{errors.New("boom"), "other"},
	}

	for _, tc := range cases {
		if got := ErrorReason(tc.err); got != tc.want {
			t.Fatalf("ErrorReason(%v) = %s, expected %s", tc.err, got, tc.want)
		}
	}
}

type ledgerStub struct {
	depositErr error
}

func (s *ledgerStub) Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error) {
	if s.depositErr != nil {
		return nil, s.depositErr
	}
	return &domain.Entry{Kind: domain.EntryDeposit, Amount: input.Amount}, nil
}

func (s *ledgerStub) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error) {
	return &domain.Entry{Kind: domain.EntryWithdrawal, Amount: input.Amount}, nil
}

func (s *ledgerStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferPair, error) {
	return &usecase.TransferPair{}, nil
}

func TestInstrumentedLedgerCountsSuccess(t *testing.T) {
	m := newTestMetrics()
	ledger := NewInstrumentedLedger(&ledgerStub{}, m)

	if _, err := ledger.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: 1,
		Amount:        decimal.RequireFromString("100"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.OperationsTotal.WithLabelValues("deposit")); got != 1 {
		t.Fatalf("expected deposit counter 1, got %v", got)
	}
}

func TestInstrumentedLedgerCountsFailureByReason(t *testing.T) {
	m := newTestMetrics()
	ledger := NewInstrumentedLedger(&ledgerStub{depositErr: domain.ErrAccountClosed}, m)

	if _, err := ledger.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: 1,
		Amount:        decimal.RequireFromString("100"),
	}); err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(m.OperationErrors.WithLabelValues("deposit", "account_closed")); got != 1 {
		t.Fatalf("expected error counter 1, got %v", got)
	}

	if got := testutil.ToFloat64(m.OperationsTotal.WithLabelValues("deposit")); got != 0 {
		t.Fatalf("expected no success count, got %v", got)
	}
}

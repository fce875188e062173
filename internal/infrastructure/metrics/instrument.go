package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// LedgerService is the slice of the transaction engine instrumented here. It
// matches the handler-facing surface of usecase.LedgerUseCase.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferPair, error)
}

// InstrumentedLedger decorates a LedgerService with operation metrics.
type InstrumentedLedger struct {
	next LedgerService
	m    *Metrics
}

// NewInstrumentedLedger creates a new InstrumentedLedger.
func NewInstrumentedLedger(next LedgerService, m *Metrics) *InstrumentedLedger {
	return &InstrumentedLedger{next: next, m: m}
}

// Deposit records metrics around the wrapped deposit.
func (s *InstrumentedLedger) Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error) {
	start := time.Now()
	entry, err := s.next.Deposit(ctx, input)
	s.observe("deposit", input.Amount.InexactFloat64(), start, err)

	return entry, err
}

// Withdraw records metrics around the wrapped withdrawal.
func (s *InstrumentedLedger) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error) {
	start := time.Now()
	entry, err := s.next.Withdraw(ctx, input)
	s.observe("withdrawal", input.Amount.InexactFloat64(), start, err)

	return entry, err
}

// Transfer records metrics around the wrapped transfer.
func (s *InstrumentedLedger) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferPair, error) {
	start := time.Now()
	pair, err := s.next.Transfer(ctx, input)
	s.observe("transfer", input.Amount.InexactFloat64(), start, err)

	return pair, err
}

func (s *InstrumentedLedger) observe(op string, amount float64, start time.Time, err error) {
	s.m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		s.m.OperationErrors.WithLabelValues(op, ErrorReason(err)).Inc()
		return
	}

	s.m.OperationsTotal.WithLabelValues(op).Inc()
	s.m.OperationAmount.WithLabelValues(op).Observe(amount)
}

// AccountService is the lifecycle surface the account handler consumes. The
// reads pass through uninstrumented via embedding.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	CloseAccount(ctx context.Context, number int64) error
	GetAccount(ctx context.Context, number int64) (*domain.Account, error)
	GetBalance(ctx context.Context, number int64) (decimal.Decimal, error)
	UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) error
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// InstrumentedAccounts decorates account open/close with counters.
type InstrumentedAccounts struct {
	AccountService

	m *Metrics
}

// NewInstrumentedAccounts creates a new InstrumentedAccounts.
func NewInstrumentedAccounts(next AccountService, m *Metrics) *InstrumentedAccounts {
	return &InstrumentedAccounts{AccountService: next, m: m}
}

// OpenAccount counts successful account openings.
func (s *InstrumentedAccounts) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	account, err := s.AccountService.OpenAccount(ctx, input)
	if err == nil {
		s.m.AccountsOpened.Inc()
	}

	return account, err
}

// CloseAccount counts successful account closures.
func (s *InstrumentedAccounts) CloseAccount(ctx context.Context, number int64) error {
	err := s.AccountService.CloseAccount(ctx, number)
	if err == nil {
		s.m.AccountsClosed.Inc()
	}

	return err
}

package usecase

import (
	"context"

	"github.com/corebank/ledger/internal/domain"
)

// EntryUseCase serves ledger history reads.
type EntryUseCase struct {
	accounts AccountRepository
	entries  EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(accounts AccountRepository, entries EntryRepository) *EntryUseCase {
	return &EntryUseCase{accounts: accounts, entries: entries}
}

// ListByAccountInput represents input for listing ledger entries.
type ListByAccountInput struct {
	AccountNumber int64
	Limit         int
}

// ListByAccount returns an account's ledger entries newest first. A zero
// limit falls back to the default page size.
func (uc *EntryUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.Entry, error) {
	exists, err := uc.accounts.Exists(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	return uc.entries.ListByAccount(ctx, input.AccountNumber, limit)
}

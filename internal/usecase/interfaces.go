package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account and returns it with the storage-assigned
	// account number.
	Create(ctx context.Context, tx Transaction, account *domain.Account) (*domain.Account, error)
	GetByNumber(ctx context.Context, number int64) (*domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number int64) (*domain.Account, error)
	// GetByNumbersForUpdate locks the rows in ascending account-number order.
	GetByNumbersForUpdate(ctx context.Context, tx Transaction, numbers []int64) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, number int64, balance decimal.Decimal) error
	UpdateProfile(ctx context.Context, number int64, phone, address string) error
	Close(ctx context.Context, tx Transaction, number int64, closedAt time.Time) error
	Exists(ctx context.Context, number int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only; no update or delete methods exist.
type EntryRepository interface {
	// Append persists the draft and returns it with the storage-assigned
	// entry ID and recorded-at timestamp.
	Append(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, error)
	// ListByAccount returns entries newest first (recorded_at desc, entry_id
	// desc on ties). limit <= 0 means no limit.
	ListByAccount(ctx context.Context, accountNumber int64, limit int) ([]*domain.Entry, error)
}

// CredentialRepository defines data access for login credentials.
type CredentialRepository interface {
	Create(ctx context.Context, tx Transaction, cred *domain.Credential) (*domain.Credential, error)
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
	DeactivateByAccount(ctx context.Context, tx Transaction, accountNumber int64) error
}

// ReportRepository defines ledger-wide aggregate queries.
type ReportRepository interface {
	Overview(ctx context.Context) (*OverviewReport, error)
	// ConservationSums returns the sum of all account balances and the sum of
	// all signed entry amounts. They are equal for a consistent ledger.
	ConservationSums(ctx context.Context) (totalBalance, totalEntries decimal.Decimal, err error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs for transfer pairs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for display paths.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

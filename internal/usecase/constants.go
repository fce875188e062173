package usecase

import "time"

const (
	// DefaultOperationTimeout bounds every money-movement transaction so a
	// stuck storage call surfaces as an error instead of blocking forever.
	DefaultOperationTimeout = 10 * time.Second

	// DefaultHistoryLimit is the page size for ledger listings when the
	// caller does not ask for one.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps a single ledger listing.
	MaxHistoryLimit = 1000

	// OverviewCacheTTL is how long the admin overview aggregate is cached.
	OverviewCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are retained.
	IdempotencyKeyTTL = 24 * time.Hour

	// OpeningDepositDescription is the ledger description of the entry that
	// seeds a newly opened account.
	OpeningDepositDescription = "Initial deposit"
)

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/usecase"
)

const overviewSQL = `
SELECT
	(SELECT COUNT(*) FROM accounts WHERE closed_at IS NULL),
	(SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE closed_at IS NULL),
	(SELECT COUNT(*) FROM ledger_entries WHERE recorded_at::date = CURRENT_DATE)`

// Closed accounts carry a zero balance, so summing over every account still
// equals the sum over open ones; entries of closed accounts stay in the
// right-hand sum because history is never deleted.
const conservationSQL = `
SELECT
	(SELECT COALESCE(SUM(balance), 0) FROM accounts),
	(SELECT COALESCE(SUM(
		CASE WHEN kind IN ('Deposit', 'TransferReceived') THEN amount ELSE -amount END
	), 0) FROM ledger_entries)`

// ReportRepository implements usecase.ReportRepository over PostgreSQL.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Overview returns the ledger-wide dashboard aggregates.
func (r *ReportRepository) Overview(ctx context.Context) (*usecase.OverviewReport, error) {
	var (
		report  usecase.OverviewReport
		balance pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, overviewSQL).Scan(
		&report.TotalAccounts,
		&balance,
		&report.TodayEntries,
	)
	if err != nil {
		return nil, storageErr(err)
	}

	report.TotalBalance = numericToDecimal(balance)

	return &report, nil
}

// ConservationSums returns the sum of all balances and the sum of all signed
// entry amounts.
func (r *ReportRepository) ConservationSums(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var balances, entries pgtype.Numeric

	if err := r.pool.QueryRow(ctx, conservationSQL).Scan(&balances, &entries); err != nil {
		return decimal.Zero, decimal.Zero, storageErr(err)
	}

	return numericToDecimal(balances), numericToDecimal(entries), nil
}

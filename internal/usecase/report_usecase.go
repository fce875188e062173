package usecase

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OverviewReport is the bank-wide aggregate shown on the admin dashboard.
type OverviewReport struct {
	TotalAccounts int64           `json:"total_accounts"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
	TodayEntries  int64           `json:"today_entries"`
}

// ConservationReport is the result of the ledger conservation check: the sum
// of all balances must equal the sum of all signed entry amounts.
type ConservationReport struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalEntries decimal.Decimal `json:"total_entries"`
	Consistent   bool            `json:"consistent"`
}

const overviewCacheKey = "report:overview"

// ReportUseCase serves ledger-wide aggregates. These are display paths;
// snapshot isolation is sufficient and the overview may be cached briefly.
type ReportUseCase struct {
	reports ReportRepository
	cache   Cache
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(reports ReportRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{reports: reports, cache: cache}
}

// Overview returns bank-wide totals, served from cache when fresh.
func (uc *ReportUseCase) Overview(ctx context.Context) (*OverviewReport, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, overviewCacheKey); err == nil {
			var report OverviewReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := uc.reports.Overview(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(report); err == nil {
			_ = uc.cache.Set(ctx, overviewCacheKey, raw, OverviewCacheTTL)
		}
	}

	return report, nil
}

// CheckConservation verifies that no money has been created or destroyed
// outside deposits and withdrawals.
func (uc *ReportUseCase) CheckConservation(ctx context.Context) (*ConservationReport, error) {
	totalBalance, totalEntries, err := uc.reports.ConservationSums(ctx)
	if err != nil {
		return nil, err
	}

	return &ConservationReport{
		TotalBalance: totalBalance,
		TotalEntries: totalEntries,
		Consistent:   totalBalance.Equal(totalEntries),
	}, nil
}

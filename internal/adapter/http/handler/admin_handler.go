package handler

import (
	"context"
	"net/http"

	"github.com/corebank/ledger/internal/usecase"
)

// ReportService defines the behavior needed by AdminHandler.
type ReportService interface {
	Overview(ctx context.Context) (*usecase.OverviewReport, error)
	CheckConservation(ctx context.Context) (*usecase.ConservationReport, error)
}

// AdminHandler serves the ledger-wide reports. Admin role enforced by the
// router.
type AdminHandler struct {
	reportUC ReportService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportUC ReportService) *AdminHandler {
	return &AdminHandler{reportUC: reportUC}
}

// Overview returns the bank-wide dashboard aggregates.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.Overview(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Conservation verifies that balances and signed entries sum to the same
// total.
func (h *AdminHandler) Conservation(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.CheckConservation(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

package handler

import (
	"context"
	"net/http"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/adapter/http/middleware"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListByAccount(ctx context.Context, input usecase.ListByAccountInput) ([]*domain.Entry, error)
}

// EntryHandler serves account statements.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists an account's ledger entries newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	number, err := parseAccountNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", "")
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		if !middleware.CanAccessAccount(claims, number) {
			writeError(w, http.StatusForbidden, "access denied", "")
			return
		}
	}

	entries, err := h.entryUC.ListByAccount(r.Context(), usecase.ListByAccountInput{
		AccountNumber: number,
		Limit:         parseIntQuery(r, "limit", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		AccountNumber: number,
		Entries:       dto.EntriesFromDomain(entries),
	})
}

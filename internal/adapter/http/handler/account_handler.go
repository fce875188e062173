package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/adapter/http/middleware"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	CloseAccount(ctx context.Context, number int64) error
	GetAccount(ctx context.Context, number int64) (*domain.Account, error)
	GetBalance(ctx context.Context, number int64) (decimal.Decimal, error)
	UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) error
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// AccountHandler handles account lifecycle HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Open opens a new account with its opening deposit.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, err := parseAccountNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", "")
		return
	}

	if !h.authorize(w, r, number) {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetBalance returns the current balance of an account.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	number, err := parseAccountNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", "")
		return
	}

	if !h.authorize(w, r, number) {
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountNumber: number,
		Balance:       balance,
	})
}

// UpdateProfile updates the holder's contact fields.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	number, err := parseAccountNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", "")
		return
	}

	if !h.authorize(w, r, number) {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.accountUC.UpdateProfile(r.Context(), usecase.UpdateProfileInput{
		AccountNumber: number,
		Phone:         req.Phone,
		Address:       req.Address,
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Close closes an account. The balance must be zero.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	number, err := parseAccountNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", "")
		return
	}

	if !h.authorize(w, r, number) {
		return
	}

	if err := h.accountUC.CloseAccount(r.Context(), number); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists accounts. Admin only; enforced by the router.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// authorize enforces the own-account rule for customers. Requests without
// claims (routes mounted outside the auth middleware) pass through.
func (h *AccountHandler) authorize(w http.ResponseWriter, r *http.Request, number int64) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return true
	}

	if !middleware.CanAccessAccount(claims, number) {
		writeError(w, http.StatusForbidden, "access denied", "")
		return false
	}

	return true
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountNumber int64           `json:"account_number"`
	HolderName    string          `json:"holder_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	DateOfBirth   string          `json:"date_of_birth,omitempty"`
	Kind          string          `json:"kind"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountNumber: a.Number,
		HolderName:    a.Profile.Name,
		Email:         a.Profile.Email,
		Phone:         a.Profile.Phone,
		Address:       a.Profile.Address,
		DateOfBirth:   a.Profile.DateOfBirth,
		Kind:          string(a.Kind),
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
		ClosedAt:      a.ClosedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents a balance lookup.
type BalanceResponse struct {
	AccountNumber int64           `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	EntryID        int64           `json:"entry_id"`
	AccountNumber  int64           `json:"account_number"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	RelatedAccount *int64          `json:"related_account,omitempty"`
	TransferID     string          `json:"transfer_id,omitempty"`
	Description    string          `json:"description"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		EntryID:        e.EntryID,
		AccountNumber:  e.AccountNumber,
		Kind:           string(e.Kind),
		Amount:         e.Amount,
		BalanceAfter:   e.BalanceAfter,
		RelatedAccount: e.RelatedAccount,
		TransferID:     e.TransferID,
		Description:    e.Description,
		RecordedAt:     e.RecordedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an account statement.
type ListEntriesResponse struct {
	AccountNumber int64            `json:"account_number"`
	Entries       []*EntryResponse `json:"entries"`
}

// TransferResponse carries both halves of a completed transfer.
type TransferResponse struct {
	TransferID string         `json:"transfer_id"`
	Sent       *EntryResponse `json:"sent"`
	Received   *EntryResponse `json:"received"`
}

// TransferFromPair converts a transfer pair to a response.
func TransferFromPair(pair *usecase.TransferPair) *TransferResponse {
	return &TransferResponse{
		TransferID: pair.Sent.TransferID,
		Sent:       EntryFromDomain(pair.Sent),
		Received:   EntryFromDomain(pair.Received),
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token         string `json:"token"`
	Role          string `json:"role"`
	AccountNumber *int64 `json:"account_number,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

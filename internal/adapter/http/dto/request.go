package dto

import (
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// OpenAccountRequest represents a request to open an account. Username and
// password are optional; when present a Customer login is bound to the new
// account.
type OpenAccountRequest struct {
	HolderName     string          `json:"holder_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	DateOfBirth    string          `json:"date_of_birth"`
	Kind           string          `json:"kind"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		Profile: domain.Profile{
			Name:        r.HolderName,
			Email:       r.Email,
			Phone:       r.Phone,
			Address:     r.Address,
			DateOfBirth: r.DateOfBirth,
		},
		Kind:           domain.Kind(r.Kind),
		InitialDeposit: r.InitialDeposit,
		Username:       r.Username,
		Password:       r.Password,
	}
}

// DepositRequest represents a request to deposit into an account.
type DepositRequest struct {
	AccountNumber int64           `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput() usecase.DepositInput {
	return usecase.DepositInput{
		AccountNumber: r.AccountNumber,
		Amount:        r.Amount,
		Description:   r.Description,
	}
}

// WithdrawRequest represents a request to withdraw from an account.
type WithdrawRequest struct {
	AccountNumber int64           `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput() usecase.WithdrawInput {
	return usecase.WithdrawInput{
		AccountNumber: r.AccountNumber,
		Amount:        r.Amount,
		Description:   r.Description,
	}
}

// TransferRequest represents a request to transfer between two accounts.
type TransferRequest struct {
	From        int64           `json:"from"`
	To          int64           `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		From:        r.From,
		To:          r.To,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// UpdateProfileRequest carries the holder's mutable contact fields.
type UpdateProfileRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

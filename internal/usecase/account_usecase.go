package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/corebank/ledger/internal/domain"
)

// AccountUseCase manages the account lifecycle: opening with a seeded
// opening-balance entry, closing, and profile reads/updates.
type AccountUseCase struct {
	txManager   TransactionManager
	accounts    AccountRepository
	entries     EntryRepository
	credentials CredentialRepository
	timeout     time.Duration
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accounts AccountRepository,
	entries EntryRepository,
	credentials CredentialRepository,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accounts:    accounts,
		entries:     entries,
		credentials: credentials,
		timeout:     DefaultOperationTimeout,
	}
}

// OpenAccountInput represents input for opening an account. Username and
// Password are optional; when set, a Customer credential is bound to the new
// account in the same transaction.
type OpenAccountInput struct {
	Profile        domain.Profile
	Kind           domain.Kind
	InitialDeposit decimal.Decimal
	Username       string
	Password       string
}

// OpenAccount creates the account and records its opening Deposit entry
// atomically. No concurrent operation can observe the account without the
// seeded entry.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateOpeningDeposit(input.InitialDeposit); err != nil {
		return nil, err
	}

	if err := domain.ValidateProfile(input.Profile); err != nil {
		return nil, err
	}

	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}

	var passwordHash []byte

	if input.Username != "" {
		if err := domain.ValidateUsername(input.Username); err != nil {
			return nil, err
		}

		if err := domain.ValidatePassword(input.Password); err != nil {
			return nil, err
		}

		var err error

		passwordHash, err = bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.Create(ctx, tx, &domain.Account{
		Profile: input.Profile,
		Kind:    input.Kind,
		Balance: input.InitialDeposit,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.entries.Append(ctx, tx, &domain.Entry{
		AccountNumber: account.Number,
		Kind:          domain.EntryDeposit,
		Amount:        input.InitialDeposit,
		BalanceAfter:  input.InitialDeposit,
		Description:   OpeningDepositDescription,
	}); err != nil {
		return nil, err
	}

	if input.Username != "" {
		if _, err := uc.credentials.Create(ctx, tx, &domain.Credential{
			Username:      input.Username,
			PasswordHash:  string(passwordHash),
			Role:          domain.RoleCustomer,
			AccountNumber: &account.Number,
			Active:        true,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// CloseAccount closes an account. The ledger history is preserved: closing
// sets the closed-at marker, rejects further operations and deactivates the
// bound credential. The balance must have been withdrawn first.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, number int64) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.GetByNumberForUpdate(ctx, tx, number)
	if err != nil {
		return err
	}

	if account.Closed() {
		return domain.ErrAccountClosed
	}

	if !account.Balance.IsZero() {
		return domain.ErrBalanceNotZero
	}

	if err := uc.accounts.Close(ctx, tx, number, time.Now().UTC()); err != nil {
		return err
	}

	if err := uc.credentials.DeactivateByAccount(ctx, tx, number); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetAccount retrieves an account by number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number int64) (*domain.Account, error) {
	return uc.accounts.GetByNumber(ctx, number)
}

// GetBalance returns the current committed balance of an account.
func (uc *AccountUseCase) GetBalance(ctx context.Context, number int64) (decimal.Decimal, error) {
	account, err := uc.accounts.GetByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// UpdateProfileInput represents the mutable holder contact fields.
type UpdateProfileInput struct {
	AccountNumber int64
	Phone         string
	Address       string
}

// UpdateProfile updates the holder's contact fields. The engine treats them
// as opaque; only existence is checked.
func (uc *AccountUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	exists, err := uc.accounts.Exists(ctx, input.AccountNumber)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrAccountNotFound
	}

	return uc.accounts.UpdateProfile(ctx, input.AccountNumber, input.Phone, input.Address)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.accounts.List(ctx, input.Limit, input.Offset)
}

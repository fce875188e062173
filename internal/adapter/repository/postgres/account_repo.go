package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

const accountColumns = `account_number, holder_name, email, phone, address, date_of_birth, kind, balance, created_at, closed_at`

const createAccountSQL = `
INSERT INTO accounts (holder_name, email, phone, address, date_of_birth, kind, balance)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

const getAccountSQL = `
SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

const getAccountForUpdateSQL = getAccountSQL + ` FOR UPDATE`

const getAccountsForUpdateSQL = `
SELECT ` + accountColumns + ` FROM accounts
WHERE account_number = ANY($1::bigint[])
ORDER BY account_number
FOR UPDATE`

const updateBalanceSQL = `
UPDATE accounts SET balance = $2 WHERE account_number = $1`

const updateProfileSQL = `
UPDATE accounts SET phone = $2, address = $3 WHERE account_number = $1`

const closeAccountSQL = `
UPDATE accounts SET closed_at = $2 WHERE account_number = $1`

const accountExistsSQL = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

const listAccountsSQL = `
SELECT ` + accountColumns + ` FROM accounts ORDER BY account_number LIMIT $1 OFFSET $2`

// AccountRepository implements usecase.AccountRepository over PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts the account inside tx and returns it with the assigned
// account number.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error) {
	row := tx.(*Tx).PgxTx().QueryRow(ctx, createAccountSQL,
		account.Profile.Name,
		account.Profile.Email,
		account.Profile.Phone,
		account.Profile.Address,
		account.Profile.DateOfBirth,
		string(account.Kind),
		decimalToNumeric(account.Balance),
	)

	created, err := scanAccount(row)
	if err != nil {
		return nil, storageErr(err)
	}

	return created, nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, getAccountSQL, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageErr(err)
	}

	return account, nil
}

// GetByNumberForUpdate retrieves an account with a FOR UPDATE row lock.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number int64) (*domain.Account, error) {
	account, err := scanAccount(tx.(*Tx).PgxTx().QueryRow(ctx, getAccountForUpdateSQL, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageErr(err)
	}

	return account, nil
}

// GetByNumbersForUpdate locks multiple accounts in ascending number order.
func (r *AccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Transaction, numbers []int64) ([]*domain.Account, error) {
	rows, err := tx.(*Tx).PgxTx().Query(ctx, getAccountsForUpdateSQL, numbers)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(numbers))

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr(err)
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return accounts, nil
}

// UpdateBalance sets the account balance inside tx.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number int64, balance decimal.Decimal) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, updateBalanceSQL, number, decimalToNumeric(balance))

	return storageErr(err)
}

// UpdateProfile updates the holder's mutable contact fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, number int64, phone, address string) error {
	_, err := r.pool.Exec(ctx, updateProfileSQL, number, phone, address)

	return storageErr(err)
}

// Close marks the account closed inside tx.
func (r *AccountRepository) Close(ctx context.Context, tx usecase.Transaction, number int64, closedAt time.Time) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, closeAccountSQL, number, timeToPgTimestamptz(closedAt))

	return storageErr(err)
}

// Exists reports whether an account row exists.
func (r *AccountRepository) Exists(ctx context.Context, number int64) (bool, error) {
	var exists bool

	if err := r.pool.QueryRow(ctx, accountExistsSQL, number).Scan(&exists); err != nil {
		return false, storageErr(err)
	}

	return exists, nil
}

// List lists accounts ordered by account number.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, listAccountsSQL, limit, offset)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr(err)
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account domain.Account
		kind    string
		balance pgtype.Numeric
		created pgtype.Timestamptz
		closed  pgtype.Timestamptz
	)

	err := row.Scan(
		&account.Number,
		&account.Profile.Name,
		&account.Profile.Email,
		&account.Profile.Phone,
		&account.Profile.Address,
		&account.Profile.DateOfBirth,
		&kind,
		&balance,
		&created,
		&closed,
	)
	if err != nil {
		return nil, err
	}

	account.Kind = domain.Kind(kind)
	account.Balance = numericToDecimal(balance)
	account.CreatedAt = created.Time

	if closed.Valid {
		t := closed.Time
		account.ClosedAt = &t
	}

	return &account, nil
}

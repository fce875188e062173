package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const createCredentialSQL = `
INSERT INTO credentials (username, password_hash, role, account_number, active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, password_hash, role, account_number, active, created_at`

const getCredentialSQL = `
SELECT id, username, password_hash, role, account_number, active, created_at
FROM credentials
WHERE username = $1`

const deactivateCredentialsSQL = `
UPDATE credentials SET active = FALSE WHERE account_number = $1`

// CredentialRepository implements usecase.CredentialRepository over PostgreSQL.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// Create inserts a credential inside tx.
func (r *CredentialRepository) Create(ctx context.Context, tx usecase.Transaction, cred *domain.Credential) (*domain.Credential, error) {
	var account pgtype.Int8
	if cred.AccountNumber != nil {
		account = pgtype.Int8{Int64: *cred.AccountNumber, Valid: true}
	}

	row := tx.(*Tx).PgxTx().QueryRow(ctx, createCredentialSQL,
		cred.Username,
		cred.PasswordHash,
		string(cred.Role),
		account,
		cred.Active,
	)

	created, err := scanCredential(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return nil, domain.ErrUsernameTaken
		}

		return nil, storageErr(err)
	}

	return created, nil
}

// GetByUsername retrieves a credential by username. An unknown username maps
// to ErrInvalidCredentials so callers cannot distinguish it from a wrong
// password.
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx, getCredentialSQL, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}

		return nil, storageErr(err)
	}

	return cred, nil
}

// DeactivateByAccount deactivates every credential bound to the account.
func (r *CredentialRepository) DeactivateByAccount(ctx context.Context, tx usecase.Transaction, accountNumber int64) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, deactivateCredentialsSQL, accountNumber)

	return storageErr(err)
}

func scanCredential(row rowScanner) (*domain.Credential, error) {
	var (
		cred    domain.Credential
		role    string
		account pgtype.Int8
		created pgtype.Timestamptz
	)

	err := row.Scan(
		&cred.ID,
		&cred.Username,
		&cred.PasswordHash,
		&role,
		&account,
		&cred.Active,
		&created,
	)
	if err != nil {
		return nil, err
	}

	cred.Role = domain.Role(role)
	cred.CreatedAt = created.Time

	if account.Valid {
		n := account.Int64
		cred.AccountNumber = &n
	}

	return &cred, nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

const entryColumns = `entry_id, account_number, kind, amount, balance_after, related_account, transfer_id, description, recorded_at`

const appendEntrySQL = `
INSERT INTO ledger_entries (account_number, kind, amount, balance_after, related_account, transfer_id, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + entryColumns

const listEntriesSQL = `
SELECT ` + entryColumns + ` FROM ledger_entries
WHERE account_number = $1
ORDER BY recorded_at DESC, entry_id DESC
LIMIT $2`

const listEntriesUnboundedSQL = `
SELECT ` + entryColumns + ` FROM ledger_entries
WHERE account_number = $1
ORDER BY recorded_at DESC, entry_id DESC`

// EntryRepository implements usecase.EntryRepository over PostgreSQL. The
// ledger_entries table is append-only; this repository exposes no update
// or delete.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Append inserts the entry inside tx and returns it with the assigned
// entry ID and recorded-at timestamp.
func (r *EntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	var related pgtype.Int8
	if entry.RelatedAccount != nil {
		related = pgtype.Int8{Int64: *entry.RelatedAccount, Valid: true}
	}

	var transferID pgtype.Text
	if entry.TransferID != "" {
		transferID = pgtype.Text{String: entry.TransferID, Valid: true}
	}

	row := tx.(*Tx).PgxTx().QueryRow(ctx, appendEntrySQL,
		entry.AccountNumber,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceAfter),
		related,
		transferID,
		entry.Description,
	)

	appended, err := scanEntry(row)
	if err != nil {
		return nil, storageErr(err)
	}

	return appended, nil
}

// ListByAccount returns the account's entries newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountNumber int64, limit int) ([]*domain.Entry, error) {
	var (
		rows pgxRows
		err  error
	)

	if limit > 0 {
		rows, err = r.pool.Query(ctx, listEntriesSQL, accountNumber, limit)
	} else {
		rows, err = r.pool.Query(ctx, listEntriesUnboundedSQL, accountNumber)
	}

	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var entries []*domain.Entry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, storageErr(err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return entries, nil
}

type pgxRows interface {
	rowScanner
	Next() bool
	Err() error
	Close()
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		entry      domain.Entry
		kind       string
		amount     pgtype.Numeric
		after      pgtype.Numeric
		related    pgtype.Int8
		transferID pgtype.Text
		recorded   pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.EntryID,
		&entry.AccountNumber,
		&kind,
		&amount,
		&after,
		&related,
		&transferID,
		&entry.Description,
		&recorded,
	)
	if err != nil {
		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(after)
	entry.RecordedAt = recorded.Time

	if related.Valid {
		n := related.Int64
		entry.RelatedAccount = &n
	}

	if transferID.Valid {
		entry.TransferID = transferID.String
	}

	return &entry, nil
}

package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	cases := []string{"0", "500", "123.45", "-987.65", "0.01", "1000000000000"}

	for _, s := range cases {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad test value %q: %v", s, err)
		}

		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip of %s gave %s", d, got)
		}
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	if !numericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Fatalf("expected invalid numeric to map to zero")
	}
}

func TestStorageErrClassification(t *testing.T) {
	if storageErr(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	if got := storageErr(pgx.ErrNoRows); !errors.Is(got, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows to pass through, got %v", got)
	}

	pgErr := &pgconn.PgError{Code: pgErrDeadlock}
	if got := storageErr(pgErr); !errors.As(got, new(*pgconn.PgError)) {
		t.Fatalf("expected PgError to pass through, got %v", got)
	}

	got := storageErr(errors.New("dial tcp: connection refused"))
	if !errors.Is(got, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable wrap, got %v", got)
	}
}

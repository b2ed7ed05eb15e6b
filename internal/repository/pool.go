package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxPool is the subset of *pgxpool.Pool the repositories depend on.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every non-digit character from a phone number.
func Digits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// digitsColumnSQL compares a phone column after stripping non-digits.
const digitsColumnSQL = `regexp_replace(COALESCE(%s, ''), '\D', '', 'g')`

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrProductNotFound         = errors.New("product not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrProductReferenceMissing = errors.New("referenced product does not exist")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrReferenced              = errors.New("record is still referenced")
	ErrConstraintViolation     = errors.New("value violates a table constraint")
)

// Postgres SQLSTATE codes the repositories translate into sentinels.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository errors translated from postgres error codes
var (
	ErrDuplicate         = errors.New("duplicate key")
	ErrReferenceNotFound = errors.New("referenced row not found")
	ErrOrderMismatch     = errors.New("payment does not match its order")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps constraint violations to repository errors and leaves the
// rest untouched.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case pqForeignKeyViolation:
		return errors.Join(ErrReferenceNotFound, err)
	}
	return err
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

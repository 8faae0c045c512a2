package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/gateway"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
)

// Locker guards a named section across processes.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// StatementCache stores computed statements per student. Invalidate bumps
// the student's version; Set is dropped unless the version read before the
// statement was computed is still current.
type StatementCache interface {
	Get(ctx context.Context, studentID uuid.UUID) (*domain.Statement, bool, error)
	Version(ctx context.Context, studentID uuid.UUID) (int64, error)
	Set(ctx context.Context, statement *domain.Statement, version int64, ttl time.Duration) error
	Invalidate(ctx context.Context, studentIDs ...uuid.UUID) error
}

// OrderCreator opens a checkout order with the payment gateway.
type OrderCreator interface {
	CreateOrder(ctx context.Context, request gateway.OrderRequest) (*gateway.Order, error)
}

// SignatureVerifier checks the gateway's callback signature.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// storageError maps repository failures to business errors. Business errors
// raised inside a transaction callback pass through unchanged.
func storageError(err error, entity, id string) error {
	var be *customError.BusinessError
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrReferenceNotFound):
		return customError.WrapNotFound(entity, id)
	default:
		return customError.WrapDatabaseError(err)
	}
}

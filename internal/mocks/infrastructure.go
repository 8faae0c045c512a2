package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/gateway"
	"github.com/segyhp/fee-ledger/internal/notification"
)

type MockLocker struct {
	mock.Mock
}

// Acquire returns a release func that records a "Release" call. Tests that
// acquire the lock must expect it.
func (m *MockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	args := m.Called(ctx, name, ttl)
	release := func(ctx context.Context) error {
		return m.MethodCalled("Release", ctx, name).Error(0)
	}
	return release, args.Bool(0), args.Error(1)
}

type MockStatementCache struct {
	mock.Mock
}

func (m *MockStatementCache) Get(ctx context.Context, studentID uuid.UUID) (*domain.Statement, bool, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Statement), args.Bool(1), args.Error(2)
}

func (m *MockStatementCache) Version(ctx context.Context, studentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatementCache) Set(ctx context.Context, statement *domain.Statement, version int64, ttl time.Duration) error {
	args := m.Called(ctx, statement, version, ttl)
	return args.Error(0)
}

func (m *MockStatementCache) Invalidate(ctx context.Context, studentIDs ...uuid.UUID) error {
	args := m.Called(ctx, studentIDs)
	return args.Error(0)
}

type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, request gateway.OrderRequest) (*gateway.Order, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

var _ notification.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendReceipt(ctx context.Context, receipt notification.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockNotifier) SendReminder(ctx context.Context, reminder notification.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

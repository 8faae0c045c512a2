package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
)

type MockFeeService struct {
	mock.Mock
}

func (m *MockFeeService) SetMonthlyFee(ctx context.Context, principal *auth.Principal, classID uuid.UUID, amount decimal.Decimal) (*domain.FeeStructure, error) {
	args := m.Called(ctx, principal, classID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}

func (m *MockFeeService) ListClassFees(ctx context.Context, principal *auth.Principal) ([]*domain.ClassFee, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClassFee), args.Error(1)
}

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GenerateMonthlyFees(ctx context.Context, principal *auth.Principal) (*domain.GenerationResult, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationResult), args.Error(1)
}

func (m *MockBillingService) GenerateForPeriod(ctx context.Context, principal *auth.Principal, month, year int) (*domain.GenerationResult, error) {
	args := m.Called(ctx, principal, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationResult), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordCashPayment(ctx context.Context, principal *auth.Principal, studentID uuid.UUID, amount decimal.Decimal) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, principal, studentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

func (m *MockLedgerService) VerifyAndRecordOnlinePayment(ctx context.Context, principal *auth.Principal, request *domain.VerifyPaymentRequest) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, principal, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

func (m *MockLedgerService) CreateFeeOrder(ctx context.Context, principal *auth.Principal, feeRecordID uuid.UUID) (*domain.FeeOrder, error) {
	args := m.Called(ctx, principal, feeRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeOrder), args.Error(1)
}

func (m *MockLedgerService) RecentPayments(ctx context.Context, principal *auth.Principal, limit int) ([]*domain.Payment, error) {
	args := m.Called(ctx, principal, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) StudentStatement(ctx context.Context, principal *auth.Principal, studentID uuid.UUID) (*domain.Statement, error) {
	args := m.Called(ctx, principal, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *MockStatementService) ParentOverview(ctx context.Context, principal *auth.Principal, parentUserID string) (*domain.ParentOverview, error) {
	args := m.Called(ctx, principal, parentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParentOverview), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, principal *auth.Principal) (*domain.SchoolSettings, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchoolSettings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, principal *auth.Principal, settings *domain.SchoolSettings) (*domain.SchoolSettings, error) {
	args := m.Called(ctx, principal, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchoolSettings), args.Error(1)
}

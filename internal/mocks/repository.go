package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/repository"
)

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByParent(ctx context.Context, parentUserID string) ([]*domain.Student, error) {
	args := m.Called(ctx, parentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) Upsert(ctx context.Context, structure *domain.FeeStructure) error {
	args := m.Called(ctx, structure)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) ListClassFees(ctx context.Context) ([]*domain.ClassFee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClassFee), args.Error(1)
}

type MockFeeRecordRepository struct {
	mock.Mock
}

func (m *MockFeeRecordRepository) ListBillableStudents(ctx context.Context) ([]*domain.BillableStudent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BillableStudent), args.Error(1)
}

func (m *MockFeeRecordRepository) CreateForPeriod(ctx context.Context, records []*domain.FeeRecord) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRecordRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRecordRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

// MockPaymentRepository runs the builder against the record returned by the
// expectation, the way the real repository runs it against the locked row.
// Return (nil, err) to simulate a lookup or storage failure before the
// builder runs.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) ApplyPayment(ctx context.Context, target domain.FeeRecordTarget, build repository.PaymentBuilder) (*domain.FeeRecord, *domain.Payment, error) {
	args := m.Called(ctx, target, build)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}

	record := *args.Get(0).(*domain.FeeRecord)
	payment, err := build(&record)
	if err != nil {
		return nil, nil, err
	}
	if err := args.Error(1); err != nil {
		return nil, nil, err
	}
	return &record, payment, nil
}

func (m *MockPaymentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Payment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.FeeOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.FeeOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeOrder), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.SchoolSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchoolSettings), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *domain.SchoolSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

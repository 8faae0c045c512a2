package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/mocks"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type billingFixture struct {
	service *BillingService
	repo    *mocks.MockFeeRecordRepository
	locker  *mocks.MockLocker
	cache   *mocks.MockStatementCache
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		repo:   &mocks.MockFeeRecordRepository{},
		locker: &mocks.MockLocker{},
		cache:  &mocks.MockStatementCache{},
	}
	f.service = NewBillingService(f.repo, f.locker, f.cache, testConfig(), logger.Nop())
	f.service.now = clock
	return f
}

func TestGenerateMonthlyFees_Success(t *testing.T) {
	f := newBillingFixture()
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	first := &domain.BillableStudent{StudentID: uuid.New(), ClassID: uuid.New(), MonthlyAmount: 150000}
	second := &domain.BillableStudent{StudentID: uuid.New(), ClassID: uuid.New(), MonthlyAmount: 200000}
	expectedDue := time.Date(2026, 10, 20, 0, 0, 0, 0, kolkata)

	f.locker.On("Acquire", mock.Anything, "generate:2026-10", 2*time.Minute).Return(true, nil)
	f.locker.On("Release", mock.Anything, "generate:2026-10").Return(nil)
	f.repo.On("ListBillableStudents", mock.Anything).Return([]*domain.BillableStudent{first, second}, nil)

	// the second student was already billed by an earlier run
	f.repo.On("CreateForPeriod", mock.Anything, mock.MatchedBy(func(records []*domain.FeeRecord) bool {
		if len(records) != 2 {
			return false
		}
		for _, r := range records {
			if r.Month != 10 || r.Year != 2026 || r.Status != domain.FeeStatusPending || r.AmountPaid != 0 || !r.DueDate.Equal(expectedDue) {
				return false
			}
		}
		return records[0].StudentID == first.StudentID && records[0].Amount == 150000 &&
			records[1].StudentID == second.StudentID && records[1].Amount == 200000
	})).Return([]*domain.FeeRecord{{StudentID: first.StudentID}}, nil)
	f.cache.On("Invalidate", mock.Anything, []uuid.UUID{first.StudentID}).Return(nil)

	result, err := f.service.GenerateMonthlyFees(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, 10, result.Month)
	assert.Equal(t, 2026, result.Year)
	assert.Equal(t, 2, result.Eligible)
	assert.Equal(t, 1, result.Created)
	assert.True(t, result.DueDate.Equal(expectedDue))

	f.repo.AssertExpectations(t)
	f.locker.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestGenerateMonthlyFees_UsesSchoolTimeZone(t *testing.T) {
	f := newBillingFixture()
	// 20:00 UTC on 31 Dec is already 1 Jan in Kolkata
	f.service.now = func() time.Time { return time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC) }

	f.locker.On("Acquire", mock.Anything, "generate:2026-01", mock.Anything).Return(false, nil)

	_, err := f.service.GenerateMonthlyFees(context.Background(), admin)

	assert.Equal(t, customError.ErrCodeGenerationInProgress, customError.Code(err))
	f.locker.AssertExpectations(t)
}

func TestGenerateForPeriod_AllAlreadyBilled(t *testing.T) {
	f := newBillingFixture()

	f.locker.On("Acquire", mock.Anything, "generate:2026-09", mock.Anything).Return(true, nil)
	f.locker.On("Release", mock.Anything, "generate:2026-09").Return(nil)
	f.repo.On("ListBillableStudents", mock.Anything).
		Return([]*domain.BillableStudent{{StudentID: uuid.New(), ClassID: uuid.New(), MonthlyAmount: 1000}}, nil)
	f.repo.On("CreateForPeriod", mock.Anything, mock.Anything).Return([]*domain.FeeRecord{}, nil)

	result, err := f.service.GenerateForPeriod(context.Background(), admin, 9, 2026)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Eligible)
	assert.Equal(t, 0, result.Created)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestGenerateForPeriod_LockBackendDown(t *testing.T) {
	f := newBillingFixture()
	studentID := uuid.New()

	f.locker.On("Acquire", mock.Anything, "generate:2026-10", mock.Anything).Return(false, errors.New("dial tcp: connection refused"))
	f.repo.On("ListBillableStudents", mock.Anything).
		Return([]*domain.BillableStudent{{StudentID: studentID, ClassID: uuid.New(), MonthlyAmount: 1000}}, nil)
	f.repo.On("CreateForPeriod", mock.Anything, mock.Anything).Return([]*domain.FeeRecord{{StudentID: studentID}}, nil)
	f.cache.On("Invalidate", mock.Anything, []uuid.UUID{studentID}).Return(errors.New("dial tcp: connection refused"))

	result, err := f.service.GenerateForPeriod(context.Background(), admin, 10, 2026)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	f.locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestGenerateForPeriod_NoEligibleStudents(t *testing.T) {
	f := newBillingFixture()

	f.locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("ListBillableStudents", mock.Anything).Return([]*domain.BillableStudent{}, nil)

	_, err := f.service.GenerateForPeriod(context.Background(), admin, 10, 2026)

	assert.True(t, customError.Is(err, customError.ErrNoEligibleStudents))
	f.repo.AssertNotCalled(t, "CreateForPeriod", mock.Anything, mock.Anything)
	f.locker.AssertExpectations(t)
}

func TestGenerateForPeriod_StorageFailure(t *testing.T) {
	f := newBillingFixture()

	f.locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("ListBillableStudents", mock.Anything).
		Return([]*domain.BillableStudent{{StudentID: uuid.New(), ClassID: uuid.New(), MonthlyAmount: 1000}}, nil)
	f.repo.On("CreateForPeriod", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := f.service.GenerateForPeriod(context.Background(), admin, 10, 2026)

	assert.Equal(t, customError.ErrCodeDatabaseError, customError.Code(err))
}

func TestGenerateForPeriod_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		month    int
		year     int
		expected string
		caller   bool
	}{
		{name: "month out of range", month: 13, year: 2026, expected: customError.ErrCodeValidation},
		{name: "month zero", month: 0, year: 2026, expected: customError.ErrCodeValidation},
		{name: "teacher cannot generate", month: 10, year: 2026, expected: customError.ErrCodeForbidden, caller: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture()
			principal := admin
			if tt.caller {
				principal = teacher
			}

			_, err := f.service.GenerateForPeriod(context.Background(), principal, tt.month, tt.year)

			assert.Equal(t, tt.expected, customError.Code(err))
			f.locker.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

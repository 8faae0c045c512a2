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

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/mocks"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type statementFixture struct {
	service    *StatementService
	students   *mocks.MockStudentRepository
	feeRecords *mocks.MockFeeRecordRepository
	payments   *mocks.MockPaymentRepository
	cache      *mocks.MockStatementCache
}

func newStatementFixture() *statementFixture {
	f := &statementFixture{
		students:   &mocks.MockStudentRepository{},
		feeRecords: &mocks.MockFeeRecordRepository{},
		payments:   &mocks.MockPaymentRepository{},
		cache:      &mocks.MockStatementCache{},
	}
	f.service = NewStatementService(f.students, f.feeRecords, f.payments, f.cache, testConfig(), logger.Nop())
	return f
}

func TestStudentStatement_ComputesAndCaches(t *testing.T) {
	f := newStatementFixture()
	student := newStudent("")
	self := &auth.Principal{UserID: student.UserID, Role: auth.RoleStudent}

	bills := []*domain.FeeRecord{
		newFeeRecord(student.ID, 150000, 50000),
		newFeeRecord(student.ID, 150000, 150000),
	}
	payments := []*domain.Payment{
		{ID: uuid.New(), StudentID: student.ID, Amount: 150000, Status: domain.PaymentStatusPaid},
		{ID: uuid.New(), StudentID: student.ID, Amount: 50000, Status: domain.PaymentStatusPaid},
		{ID: uuid.New(), StudentID: student.ID, Amount: 99999, Status: domain.PaymentStatusFailed},
	}

	f.students.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	f.cache.On("Get", mock.Anything, student.ID).Return(nil, false, nil)
	f.cache.On("Version", mock.Anything, student.ID).Return(int64(3), nil)
	// the version must be read before the ledger
	f.feeRecords.On("ListByStudent", mock.Anything, student.ID).Return(bills, nil).Run(func(mock.Arguments) {
		f.cache.AssertCalled(t, "Version", mock.Anything, student.ID)
	})
	f.payments.On("ListByStudent", mock.Anything, student.ID).Return(payments, nil)
	f.cache.On("Set", mock.Anything, mock.AnythingOfType("*domain.Statement"), int64(3), 5*time.Minute).Return(nil)

	statement, err := f.service.StudentStatement(context.Background(), self, student.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(300000), statement.TotalBilled)
	assert.Equal(t, int64(200000), statement.TotalPaid)
	assert.Equal(t, int64(100000), statement.Outstanding)
	f.cache.AssertExpectations(t)
}

func TestStudentStatement_CacheHit(t *testing.T) {
	f := newStatementFixture()
	student := newStudent("")
	cached := &domain.Statement{StudentID: student.ID, Outstanding: 42}

	f.students.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	f.cache.On("Get", mock.Anything, student.ID).Return(cached, true, nil)

	statement, err := f.service.StudentStatement(context.Background(), parent, student.ID)

	require.NoError(t, err)
	assert.Same(t, cached, statement)
	f.feeRecords.AssertNotCalled(t, "ListByStudent", mock.Anything, mock.Anything)
}

func TestStudentStatement_CacheErrorsFallBackToStorage(t *testing.T) {
	f := newStatementFixture()
	student := newStudent("")

	f.students.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	f.cache.On("Get", mock.Anything, student.ID).Return(nil, false, errors.New("redis down"))
	f.cache.On("Version", mock.Anything, student.ID).Return(int64(0), errors.New("redis down"))
	f.feeRecords.On("ListByStudent", mock.Anything, student.ID).Return(nil, nil)
	f.payments.On("ListByStudent", mock.Anything, student.ID).Return(nil, nil)

	statement, err := f.service.StudentStatement(context.Background(), admin, student.ID)

	require.NoError(t, err)
	assert.Empty(t, statement.Bills)
	assert.Equal(t, int64(0), statement.Outstanding)
	// without a version the write could overwrite a newer invalidation
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStudentStatement_CacheWriteFailureIsNotFatal(t *testing.T) {
	f := newStatementFixture()
	student := newStudent("")

	f.students.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	f.cache.On("Get", mock.Anything, student.ID).Return(nil, false, nil)
	f.cache.On("Version", mock.Anything, student.ID).Return(int64(0), nil)
	f.feeRecords.On("ListByStudent", mock.Anything, student.ID).Return(nil, nil)
	f.payments.On("ListByStudent", mock.Anything, student.ID).Return(nil, nil)
	f.cache.On("Set", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(errors.New("redis down"))

	_, err := f.service.StudentStatement(context.Background(), admin, student.ID)

	require.NoError(t, err)
}

func TestStudentStatement_OtherStudentForbidden(t *testing.T) {
	f := newStatementFixture()
	student := newStudent("")
	other := &auth.Principal{UserID: "student-other", Role: auth.RoleStudent}

	f.students.On("GetByID", mock.Anything, student.ID).Return(student, nil)

	_, err := f.service.StudentStatement(context.Background(), other, student.ID)

	assert.Equal(t, customError.ErrCodeForbidden, customError.Code(err))
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestParentOverview_SumsChildren(t *testing.T) {
	f := newStatementFixture()
	first := newStudent("")
	second := newStudent("")

	f.students.On("ListByParent", mock.Anything, parent.UserID).Return([]*domain.Student{first, second}, nil)
	f.cache.On("Get", mock.Anything, first.ID).Return(&domain.Statement{StudentID: first.ID, Outstanding: 1000}, true, nil)
	f.cache.On("Get", mock.Anything, second.ID).Return(&domain.Statement{StudentID: second.ID, Outstanding: 2500}, true, nil)

	overview, err := f.service.ParentOverview(context.Background(), parent, parent.UserID)

	require.NoError(t, err)
	assert.Len(t, overview.Children, 2)
	assert.Equal(t, int64(3500), overview.TotalOutstanding)
}

func TestParentOverview_OtherParentsChildrenForbidden(t *testing.T) {
	f := newStatementFixture()
	stranger := &auth.Principal{UserID: "parent-2", Role: auth.RoleParent}

	f.students.On("ListByParent", mock.Anything, parent.UserID).Return([]*domain.Student{newStudent("")}, nil)

	_, err := f.service.ParentOverview(context.Background(), stranger, parent.UserID)

	assert.Equal(t, customError.ErrCodeForbidden, customError.Code(err))
}

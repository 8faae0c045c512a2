package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/domain"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{Timezone: "Asia/Kolkata"},
		Business: config.BusinessConfig{
			Currency:         "INR",
			DueDay:           20,
			StatementTTL:     5 * time.Minute,
			GenerationLock:   2 * time.Minute,
			MaxCashPayment:   "1000000",
			RecentPaymentCap: 50,
		},
	}
}

func clock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

var (
	admin   = &auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}
	teacher = &auth.Principal{UserID: "teacher-1", Role: auth.RoleTeacher}
	parent  = &auth.Principal{UserID: "parent-1", Role: auth.RoleParent}
)

func newStudent(email string) *domain.Student {
	s := &domain.Student{
		ID:           uuid.New(),
		UserID:       "student-" + uuid.NewString()[:8],
		ParentUserID: strPtr(parent.UserID),
		Name:         "Asha Rao",
	}
	if email != "" {
		s.ContactEmail = strPtr(email)
	}
	return s
}

func newFeeRecord(studentID uuid.UUID, amount, paid int64) *domain.FeeRecord {
	return &domain.FeeRecord{
		ID:         uuid.New(),
		StudentID:  studentID,
		ClassID:    uuid.New(),
		Month:      10,
		Year:       2026,
		Amount:     amount,
		AmountPaid: paid,
		Status:     domain.DeriveFeeStatus(amount, paid),
		DueDate:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/fee-ledger/pkg/errors"
)

// Fee record statuses
const (
	FeeStatusPending       = "PENDING"
	FeeStatusPartiallyPaid = "PARTIALLY_PAID"
	FeeStatusPaid          = "PAID"
)

// FeeStructure is the monthly amount billed to every student of a class.
type FeeStructure struct {
	ClassID       uuid.UUID `json:"class_id" db:"class_id"`
	MonthlyAmount int64     `json:"monthly_amount" db:"monthly_amount"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ClassFee is a class row joined with its fee structure, if any.
type ClassFee struct {
	ClassID       uuid.UUID  `json:"class_id" db:"class_id"`
	Grade         string     `json:"grade" db:"grade"`
	Section       string     `json:"section" db:"section"`
	MonthlyAmount int64      `json:"monthly_amount" db:"monthly_amount"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// FeeRecord is one month's bill for one student. ClassID is a snapshot of
// the student's class when the bill was generated.
type FeeRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StudentID  uuid.UUID `json:"student_id" db:"student_id"`
	ClassID    uuid.UUID `json:"class_id" db:"class_id"`
	Month      int       `json:"month" db:"month"`
	Year       int       `json:"year" db:"year"`
	Amount     int64     `json:"amount" db:"amount"`
	AmountPaid int64     `json:"amount_paid" db:"amount_paid"`
	Status     string    `json:"status" db:"status"`
	DueDate    time.Time `json:"due_date" db:"due_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DeriveFeeStatus maps paid vs billed to a status.
func DeriveFeeStatus(amount, amountPaid int64) string {
	switch {
	case amountPaid >= amount:
		return FeeStatusPaid
	case amountPaid > 0:
		return FeeStatusPartiallyPaid
	default:
		return FeeStatusPending
	}
}

// Balance is what is still owed on the record.
func (r *FeeRecord) Balance() int64 {
	if r.AmountPaid >= r.Amount {
		return 0
	}
	return r.Amount - r.AmountPaid
}

// IsPaid reports whether the record is settled.
func (r *FeeRecord) IsPaid() bool {
	return r.Status == FeeStatusPaid
}

// ApplyPayment credits amount to the record and recomputes its status.
// Amounts above the remaining balance are rejected so that AmountPaid
// never exceeds Amount.
func (r *FeeRecord) ApplyPayment(amount int64) error {
	if amount <= 0 {
		return customError.WrapInvalidAmount(decimal.NewFromInt(amount).String())
	}

	balance := r.Balance()
	if balance == 0 {
		return customError.WrapFeeAlreadyPaid(r.ID.String())
	}
	if amount > balance {
		return customError.WrapPaymentExceedsBalance(amount, balance)
	}

	r.AmountPaid += amount
	r.Status = DeriveFeeStatus(r.Amount, r.AmountPaid)
	return nil
}

// FeeRecordTarget selects the bill a payment is applied to: either a specific
// record, or the oldest unpaid record of the student. OrderID, when set,
// names the gateway order the payment settles.
type FeeRecordTarget struct {
	StudentID   uuid.UUID
	FeeRecordID *uuid.UUID
	OrderID     *string
}

// OldestUnpaid targets the chronologically oldest unpaid bill of a student.
func OldestUnpaid(studentID uuid.UUID) FeeRecordTarget {
	return FeeRecordTarget{StudentID: studentID}
}

// SpecificRecord targets one bill, which must belong to studentID.
func SpecificRecord(studentID, feeRecordID uuid.UUID) FeeRecordTarget {
	return FeeRecordTarget{StudentID: studentID, FeeRecordID: &feeRecordID}
}

// OrderRecord targets the bill a gateway order was opened for.
func OrderRecord(studentID, feeRecordID uuid.UUID, orderID string) FeeRecordTarget {
	return FeeRecordTarget{StudentID: studentID, FeeRecordID: &feeRecordID, OrderID: &orderID}
}

// GenerationResult reports the outcome of one billing run.
type GenerationResult struct {
	Month    int       `json:"month"`
	Year     int       `json:"year"`
	DueDate  time.Time `json:"due_date"`
	Eligible int       `json:"eligible"`
	Created  int       `json:"created"`
}

// BillableStudent is a student whose class has a positive monthly fee.
type BillableStudent struct {
	StudentID     uuid.UUID `db:"student_id"`
	ClassID       uuid.UUID `db:"class_id"`
	MonthlyAmount int64     `db:"monthly_amount"`
}

// DTOs for requests and responses

type SetMonthlyFeeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReminderResult reports the outcome of one overdue-reminder run.
type ReminderResult struct {
	OverdueBills int `json:"overdue_bills"`
	Students     int `json:"students"`
	Sent         int `json:"sent"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

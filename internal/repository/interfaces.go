package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/domain"
)

// PaymentBuilder applies a payment to a locked fee record and returns the
// payment row to insert. Returning an error aborts the transaction.
type PaymentBuilder func(record *domain.FeeRecord) (*domain.Payment, error)

// StudentRepository defines the interface for student lookups
type StudentRepository interface {
	// GetByID retrieves a student by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)

	// ListByParent retrieves every student linked to a parent user
	ListByParent(ctx context.Context, parentUserID string) ([]*domain.Student, error)
}

// FeeStructureRepository defines the interface for per-class fee configuration
type FeeStructureRepository interface {
	// Upsert creates or replaces the fee structure of a class
	Upsert(ctx context.Context, structure *domain.FeeStructure) error

	// ListClassFees lists every class with its monthly amount
	ListClassFees(ctx context.Context) ([]*domain.ClassFee, error)
}

// FeeRecordRepository defines the interface for monthly bills
type FeeRecordRepository interface {
	// ListBillableStudents lists students whose class has a positive monthly fee
	ListBillableStudents(ctx context.Context) ([]*domain.BillableStudent, error)

	// CreateForPeriod inserts the records in one transaction, skipping any
	// student already billed for the period, and returns the inserted ones
	CreateForPeriod(ctx context.Context, records []*domain.FeeRecord) ([]*domain.FeeRecord, error)

	// GetByID retrieves a fee record by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FeeRecord, error)

	// ListByStudent lists a student's bills, newest period first
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.FeeRecord, error)

	// ListOverdue lists unpaid bills whose due date is before asOf
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.FeeRecord, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// ApplyPayment locks the targeted fee record, lets build mutate it and
	// produce a payment, then inserts the payment and updates the record in
	// the same transaction. When the target names an order, the order is
	// locked too and must match the bill and the payment amount; it is then
	// marked paid
	ApplyPayment(ctx context.Context, target domain.FeeRecordTarget, build PaymentBuilder) (*domain.FeeRecord, *domain.Payment, error)

	// ListByStudent retrieves all payments for a student, newest first
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Payment, error)

	// ListRecent retrieves the latest payments across all students
	ListRecent(ctx context.Context, limit int) ([]*domain.Payment, error)
}

// OrderRepository defines the interface for gateway orders
type OrderRepository interface {
	// Create stores a newly opened gateway order
	Create(ctx context.Context, order *domain.FeeOrder) error

	// GetByOrderID retrieves an order by its gateway id
	GetByOrderID(ctx context.Context, orderID string) (*domain.FeeOrder, error)
}

// SettingsRepository defines the interface for the single school settings record
type SettingsRepository interface {
	// Get returns sql.ErrNoRows until settings are first saved
	Get(ctx context.Context) (*domain.SchoolSettings, error)

	// Upsert creates or replaces the settings record
	Upsert(ctx context.Context, settings *domain.SchoolSettings) error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

const feeRecordColumns = `id, student_id, class_id, month, year, amount, amount_paid, status, due_date, created_at`

type feeRecordRepository struct {
	db *sqlx.DB
}

func NewFeeRecordRepository(db *sqlx.DB) FeeRecordRepository {
	return &feeRecordRepository{db: db}
}

func (r *feeRecordRepository) ListBillableStudents(ctx context.Context) ([]*domain.BillableStudent, error) {
	query := `
		SELECT s.id AS student_id, s.class_id, fs.monthly_amount
		FROM students s
		JOIN fee_structures fs ON fs.class_id = s.class_id
		WHERE fs.monthly_amount > 0
		ORDER BY s.id
	`

	var students []*domain.BillableStudent
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *feeRecordRepository) CreateForPeriod(ctx context.Context, records []*domain.FeeRecord) ([]*domain.FeeRecord, error) {
	query := `
		INSERT INTO fee_records (id, student_id, class_id, month, year, amount, amount_paid, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (student_id, month, year) DO NOTHING
	`

	created := make([]*domain.FeeRecord, 0, len(records))
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, record := range records {
			res, err := tx.ExecContext(ctx, query,
				record.ID,
				record.StudentID,
				record.ClassID,
				record.Month,
				record.Year,
				record.Amount,
				record.AmountPaid,
				record.Status,
				record.DueDate,
				record.CreatedAt,
			)
			if err != nil {
				return translate(err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 1 {
				created = append(created, record)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *feeRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeeRecord, error) {
	query := `SELECT ` + feeRecordColumns + ` FROM fee_records WHERE id = $1`

	var record domain.FeeRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *feeRecordRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1
		ORDER BY year DESC, month DESC
	`

	var records []*domain.FeeRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRecordRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE status <> 'PAID' AND due_date < $1
		ORDER BY student_id, year, month
	`

	var records []*domain.FeeRecord
	if err := r.db.SelectContext(ctx, &records, query, asOf); err != nil {
		return nil, err
	}

	return records, nil
}

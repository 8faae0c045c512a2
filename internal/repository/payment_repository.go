package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

const paymentColumns = `id, student_id, fee_record_id, amount, currency, status, payment_mode,
	gateway_order_id, gateway_payment_id, gateway_signature, description, paid_at, created_at`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ApplyPayment(ctx context.Context, target domain.FeeRecordTarget, build PaymentBuilder) (*domain.FeeRecord, *domain.Payment, error) {
	var (
		record  domain.FeeRecord
		payment *domain.Payment
	)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockFeeRecord(ctx, tx, target, &record); err != nil {
			return err
		}

		var order *domain.FeeOrder
		if target.OrderID != nil {
			order = &domain.FeeOrder{}
			if err := lockOrder(ctx, tx, *target.OrderID, order); err != nil {
				return err
			}
		}

		var err error
		payment, err = build(&record)
		if err != nil {
			return err
		}

		if order != nil {
			if err := settleOrder(ctx, tx, order, &record, payment); err != nil {
				return err
			}
		}

		insert := `
			INSERT INTO payments (id, student_id, fee_record_id, amount, currency, status, payment_mode,
				gateway_order_id, gateway_payment_id, gateway_signature, description, paid_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err = tx.ExecContext(ctx, insert,
			payment.ID,
			payment.StudentID,
			payment.FeeRecordID,
			payment.Amount,
			payment.Currency,
			payment.Status,
			payment.PaymentMode,
			payment.GatewayOrderID,
			payment.GatewayPaymentID,
			payment.GatewaySignature,
			payment.Description,
			payment.PaidAt,
			payment.CreatedAt,
		)
		if err != nil {
			return translate(err)
		}

		update := `
			UPDATE fee_records
			SET amount_paid = $2, status = $3
			WHERE id = $1
		`
		_, err = tx.ExecContext(ctx, update, record.ID, record.AmountPaid, record.Status)
		return translate(err)
	})
	if err != nil {
		return nil, nil, err
	}

	return &record, payment, nil
}

// lockFeeRecord selects the targeted record FOR UPDATE so concurrent
// payments against the same bill serialise on the row lock.
//
// The oldest-unpaid lookup locks the student row first. Otherwise a waiter
// blocked on a bill that the holder settles would have its LIMIT 1 row
// filtered out on recheck and see no pending bill at all.
func lockFeeRecord(ctx context.Context, tx *sqlx.Tx, target domain.FeeRecordTarget, record *domain.FeeRecord) error {
	if target.FeeRecordID != nil {
		query := `
			SELECT ` + feeRecordColumns + `
			FROM fee_records
			WHERE id = $1 AND student_id = $2
			FOR UPDATE
		`
		return tx.GetContext(ctx, record, query, *target.FeeRecordID, target.StudentID)
	}

	var locked uuid.UUID
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, target.StudentID); err != nil {
		return err
	}

	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1 AND status <> 'PAID'
		ORDER BY year ASC, month ASC
		LIMIT 1
		FOR UPDATE
	`
	return tx.GetContext(ctx, record, query, target.StudentID)
}

func lockOrder(ctx context.Context, tx *sqlx.Tx, orderID string, order *domain.FeeOrder) error {
	query := `
		SELECT ` + orderColumns + `
		FROM fee_orders
		WHERE order_id = $1
		FOR UPDATE
	`
	err := tx.GetContext(ctx, order, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderMismatch
	}
	return err
}

// settleOrder marks a locked order paid. A paid order is reported as a
// duplicate, and one opened for another bill or amount as a mismatch.
func settleOrder(ctx context.Context, tx *sqlx.Tx, order *domain.FeeOrder, record *domain.FeeRecord, payment *domain.Payment) error {
	if order.Status == domain.OrderStatusPaid {
		return ErrDuplicate
	}
	if !order.Matches(record.StudentID, record.ID, payment.Amount) {
		return ErrOrderMismatch
	}

	update := `
		UPDATE fee_orders
		SET status = $2, paid_at = $3
		WHERE order_id = $1
	`
	_, err := tx.ExecContext(ctx, update, order.OrderID, domain.OrderStatusPaid, payment.PaidAt)
	return translate(err)
}

func (r *paymentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		ORDER BY created_at DESC
		LIMIT $1
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, limit); err != nil {
		return nil, err
	}

	return payments, nil
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

const orderColumns = `order_id, student_id, fee_record_id, amount, currency, receipt, status, created_at, paid_at`

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.FeeOrder) error {
	query := `
		INSERT INTO fee_orders (order_id, student_id, fee_record_id, amount, currency, receipt, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.OrderID,
		order.StudentID,
		order.FeeRecordID,
		order.Amount,
		order.Currency,
		order.Receipt,
		order.Status,
		order.CreatedAt,
	)
	return translate(err)
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.FeeOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM fee_orders WHERE order_id = $1`

	var order domain.FeeOrder
	if err := r.db.GetContext(ctx, &order, query, orderID); err != nil {
		return nil, err
	}

	return &order, nil
}

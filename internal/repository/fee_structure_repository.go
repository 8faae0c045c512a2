package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

type feeStructureRepository struct {
	db *sqlx.DB
}

func NewFeeStructureRepository(db *sqlx.DB) FeeStructureRepository {
	return &feeStructureRepository{db: db}
}

func (r *feeStructureRepository) Upsert(ctx context.Context, structure *domain.FeeStructure) error {
	query := `
		INSERT INTO fee_structures (class_id, monthly_amount, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (class_id) DO UPDATE
		SET monthly_amount = EXCLUDED.monthly_amount, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, structure.ClassID, structure.MonthlyAmount, structure.UpdatedAt)
	return translate(err)
}

func (r *feeStructureRepository) ListClassFees(ctx context.Context) ([]*domain.ClassFee, error) {
	query := `
		SELECT c.id AS class_id, c.grade, c.section,
		       COALESCE(fs.monthly_amount, 0) AS monthly_amount, fs.updated_at
		FROM classes c
		LEFT JOIN fee_structures fs ON fs.class_id = c.id
		ORDER BY c.grade, c.section
	`

	var fees []*domain.ClassFee
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, err
	}

	return fees, nil
}

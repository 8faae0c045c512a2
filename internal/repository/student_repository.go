package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

const studentColumns = `id, user_id, parent_user_id, class_id, name, admission_number, contact_email, created_at`

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	var student domain.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) ListByParent(ctx context.Context, parentUserID string) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE parent_user_id = $1 ORDER BY name`

	var students []*domain.Student
	if err := r.db.SelectContext(ctx, &students, query, parentUserID); err != nil {
		return nil, err
	}

	return students, nil
}

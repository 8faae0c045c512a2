package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type StatementService struct {
	StudentRepo   repository.StudentRepository
	FeeRecordRepo repository.FeeRecordRepository
	PaymentRepo   repository.PaymentRepository
	cache         StatementCache
	ttl           time.Duration
	log           logger.Logger
}

func NewStatementService(
	studentRepo repository.StudentRepository,
	feeRecordRepo repository.FeeRecordRepository,
	paymentRepo repository.PaymentRepository,
	cache StatementCache,
	config *config.Config,
	log logger.Logger,
) *StatementService {
	return &StatementService{
		StudentRepo:   studentRepo,
		FeeRecordRepo: feeRecordRepo,
		PaymentRepo:   paymentRepo,
		cache:         cache,
		ttl:           config.Business.StatementTTL,
		log:           log,
	}
}

// StudentStatement returns a student's bills, payments and totals.
func (s *StatementService) StudentStatement(ctx context.Context, principal *auth.Principal, studentID uuid.UUID) (*domain.Statement, error) {
	if principal == nil {
		return nil, customError.WrapUnauthenticated()
	}

	student, err := s.StudentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, storageError(err, "student", studentID.String())
	}
	if err := auth.AuthorizeStudent(principal, auth.CapViewStatement, student); err != nil {
		return nil, err
	}

	return s.statementFor(ctx, student)
}

// ParentOverview returns a statement for every child linked to parentUserID.
func (s *StatementService) ParentOverview(ctx context.Context, principal *auth.Principal, parentUserID string) (*domain.ParentOverview, error) {
	if principal == nil {
		return nil, customError.WrapUnauthenticated()
	}

	children, err := s.StudentRepo.ListByParent(ctx, parentUserID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	overview := &domain.ParentOverview{Children: make([]*domain.Statement, 0, len(children))}
	for _, child := range children {
		if err := auth.AuthorizeStudent(principal, auth.CapViewStatement, child); err != nil {
			return nil, err
		}

		statement, err := s.statementFor(ctx, child)
		if err != nil {
			return nil, err
		}
		overview.Children = append(overview.Children, statement)
		overview.TotalOutstanding += statement.Outstanding
	}

	return overview, nil
}

func (s *StatementService) statementFor(ctx context.Context, student *domain.Student) (*domain.Statement, error) {
	cached, ok, err := s.cache.Get(ctx, student.ID)
	if err != nil {
		s.log.Warn("statement cache read failed", logger.Fields{"student_id": student.ID.String(), "error": err.Error()})
	}
	if ok {
		return cached, nil
	}

	// read before the ledger so a payment committing meanwhile outdates it
	version, err := s.cache.Version(ctx, student.ID)
	cacheable := err == nil
	if err != nil {
		s.log.Warn("statement cache version read failed", logger.Fields{"student_id": student.ID.String(), "error": err.Error()})
	}

	bills, err := s.FeeRecordRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	statement := domain.NewStatement(student, bills, payments)

	if cacheable {
		if err := s.cache.Set(ctx, statement, version, s.ttl); err != nil {
			s.log.Warn("statement cache write failed", logger.Fields{"student_id": student.ID.String(), "error": err.Error()})
		}
	}

	return statement, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
	"github.com/segyhp/fee-ledger/pkg/utils"
)

type BillingService struct {
	FeeRecordRepo repository.FeeRecordRepository
	locker        Locker
	cache         StatementCache
	config        *config.Config
	log           logger.Logger
	now           func() time.Time
}

func NewBillingService(
	feeRecordRepo repository.FeeRecordRepository,
	locker Locker,
	cache StatementCache,
	config *config.Config,
	log logger.Logger,
) *BillingService {
	return &BillingService{
		FeeRecordRepo: feeRecordRepo,
		locker:        locker,
		cache:         cache,
		config:        config,
		log:           log,
		now:           time.Now,
	}
}

// GenerateMonthlyFees bills every eligible student for the current month in
// the school's time zone.
func (s *BillingService) GenerateMonthlyFees(ctx context.Context, principal *auth.Principal) (*domain.GenerationResult, error) {
	month, year := utils.BillingPeriod(s.now(), s.config.GetLocation())
	return s.GenerateForPeriod(ctx, principal, month, year)
}

// GenerateForPeriod bills every eligible student for the given period.
// Students already billed for it are skipped, so repeated runs only create
// the missing records.
func (s *BillingService) GenerateForPeriod(ctx context.Context, principal *auth.Principal, month, year int) (*domain.GenerationResult, error) {
	if err := auth.Authorize(principal, auth.CapGenerateFees); err != nil {
		return nil, err
	}

	if month < 1 || month > 12 || year < 2000 {
		return nil, customError.WrapValidation(fmt.Sprintf("invalid billing period %d/%d", month, year))
	}

	// The lock only turns a concurrent run away early; the unique
	// (student, month, year) constraint keeps generation correct without it.
	release, acquired, err := s.locker.Acquire(ctx, fmt.Sprintf("generate:%d-%02d", year, month), s.config.Business.GenerationLock)
	switch {
	case err != nil:
		s.log.Warn("generation lock unavailable, continuing without it", logger.Fields{"period": utils.PeriodLabel(month, year), "error": err.Error()})
	case !acquired:
		return nil, customError.WrapGenerationInProgress(month, year)
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release generation lock", logger.Fields{"period": utils.PeriodLabel(month, year), "error": err.Error()})
			}
		}()
	}

	students, err := s.FeeRecordRepo.ListBillableStudents(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(students) == 0 {
		return nil, customError.WrapNoEligibleStudents()
	}

	dueDate := utils.CalculateDueDate(month, year, s.config.Business.DueDay, s.config.GetLocation())
	createdAt := s.now()

	records := make([]*domain.FeeRecord, 0, len(students))
	for _, student := range students {
		records = append(records, &domain.FeeRecord{
			ID:        uuid.New(),
			StudentID: student.StudentID,
			ClassID:   student.ClassID,
			Month:     month,
			Year:      year,
			Amount:    student.MonthlyAmount,
			Status:    domain.FeeStatusPending,
			DueDate:   dueDate,
			CreatedAt: createdAt,
		})
	}

	created, err := s.FeeRecordRepo.CreateForPeriod(ctx, records)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if len(created) > 0 {
		ids := make([]uuid.UUID, 0, len(created))
		for _, record := range created {
			ids = append(ids, record.StudentID)
		}
		if err := s.cache.Invalidate(ctx, ids...); err != nil {
			s.log.Warn("failed to invalidate statements", logger.Fields{"count": len(ids), "error": err.Error()})
		}
	}

	result := &domain.GenerationResult{
		Month:    month,
		Year:     year,
		DueDate:  dueDate,
		Eligible: len(students),
		Created:  len(created),
	}

	s.log.Info("monthly fees generated", logger.Fields{
		"period":       utils.PeriodLabel(month, year),
		"eligible":     result.Eligible,
		"created":      result.Created,
		"triggered_by": principal.UserID,
	})

	return result, nil
}

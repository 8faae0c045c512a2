package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
	"github.com/segyhp/fee-ledger/pkg/utils"
)

type FeeStructureService struct {
	FeeStructureRepo repository.FeeStructureRepository
	log              logger.Logger
	now              func() time.Time
}

func NewFeeStructureService(feeStructureRepo repository.FeeStructureRepository, log logger.Logger) *FeeStructureService {
	return &FeeStructureService{
		FeeStructureRepo: feeStructureRepo,
		log:              log,
		now:              time.Now,
	}
}

// SetMonthlyFee creates or replaces the monthly fee of a class. amount is in
// whole currency units.
func (s *FeeStructureService) SetMonthlyFee(ctx context.Context, principal *auth.Principal, classID uuid.UUID, amount decimal.Decimal) (*domain.FeeStructure, error) {
	if err := auth.Authorize(principal, auth.CapManageFees); err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	minor, err := utils.ToMinorUnits(amount)
	if err != nil {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	structure := &domain.FeeStructure{
		ClassID:       classID,
		MonthlyAmount: minor,
		UpdatedAt:     s.now(),
	}

	if err := s.FeeStructureRepo.Upsert(ctx, structure); err != nil {
		return nil, storageError(err, "class", classID.String())
	}

	s.log.Info("monthly fee updated", logger.Fields{
		"class_id":       classID.String(),
		"monthly_amount": minor,
		"updated_by":     principal.UserID,
	})

	return structure, nil
}

// ListClassFees returns every class with its monthly fee, zero when unset
func (s *FeeStructureService) ListClassFees(ctx context.Context, principal *auth.Principal) ([]*domain.ClassFee, error) {
	if err := auth.Authorize(principal, auth.CapManageFees); err != nil {
		return nil, err
	}

	fees, err := s.FeeStructureRepo.ListClassFees(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if fees == nil {
		fees = []*domain.ClassFee{}
	}

	return fees, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type SettingsService struct {
	SettingsRepo repository.SettingsRepository
	validator    *validator.Validate
	log          logger.Logger
	now          func() time.Time
}

func NewSettingsService(settingsRepo repository.SettingsRepository, log logger.Logger) *SettingsService {
	return &SettingsService{
		SettingsRepo: settingsRepo,
		validator:    validator.New(),
		log:          log,
		now:          time.Now,
	}
}

// Get returns the school settings, or the defaults when none were saved yet
func (s *SettingsService) Get(ctx context.Context, principal *auth.Principal) (*domain.SchoolSettings, error) {
	if err := auth.Authorize(principal, auth.CapViewSettings); err != nil {
		return nil, err
	}

	settings, err := loadSettings(ctx, s.SettingsRepo)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return settings, nil
}

// Update replaces the school settings
func (s *SettingsService) Update(ctx context.Context, principal *auth.Principal, settings *domain.SchoolSettings) (*domain.SchoolSettings, error) {
	if err := auth.Authorize(principal, auth.CapManageSettings); err != nil {
		return nil, err
	}

	if err := s.validator.Struct(settings); err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	settings.UpdatedAt = s.now()
	if err := s.SettingsRepo.Upsert(ctx, settings); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info("school settings updated", logger.Fields{"updated_by": principal.UserID})

	return settings, nil
}

func loadSettings(ctx context.Context, repo repository.SettingsRepository) (*domain.SchoolSettings, error) {
	settings, err := repo.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSchoolSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

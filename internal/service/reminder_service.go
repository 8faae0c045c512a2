package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/notification"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
	"github.com/segyhp/fee-ledger/pkg/utils"
)

type ReminderService struct {
	StudentRepo   repository.StudentRepository
	FeeRecordRepo repository.FeeRecordRepository
	SettingsRepo  repository.SettingsRepository
	notifier      notification.Notifier
	config        *config.Config
	log           logger.Logger
	now           func() time.Time
}

func NewReminderService(
	studentRepo repository.StudentRepository,
	feeRecordRepo repository.FeeRecordRepository,
	settingsRepo repository.SettingsRepository,
	notifier notification.Notifier,
	config *config.Config,
	log logger.Logger,
) *ReminderService {
	return &ReminderService{
		StudentRepo:   studentRepo,
		FeeRecordRepo: feeRecordRepo,
		SettingsRepo:  settingsRepo,
		notifier:      notifier,
		config:        config,
		log:           log,
		now:           time.Now,
	}
}

// SendOverdueReminders emails every student with unpaid bills past their due
// date. Delivery is best effort: a failed email is counted and skipped.
func (s *ReminderService) SendOverdueReminders(ctx context.Context, principal *auth.Principal) (*domain.ReminderResult, error) {
	if err := auth.Authorize(principal, auth.CapSendReminders); err != nil {
		return nil, err
	}

	overdue, err := s.FeeRecordRepo.ListOverdue(ctx, s.now())
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := &domain.ReminderResult{OverdueBills: len(overdue)}
	if len(overdue) == 0 {
		return result, nil
	}

	// group bills by student, keeping first-seen order
	var order []uuid.UUID
	byStudent := make(map[uuid.UUID][]*domain.FeeRecord)
	for _, record := range overdue {
		if _, seen := byStudent[record.StudentID]; !seen {
			order = append(order, record.StudentID)
		}
		byStudent[record.StudentID] = append(byStudent[record.StudentID], record)
	}
	result.Students = len(order)

	settings, err := loadSettings(ctx, s.SettingsRepo)
	if err != nil {
		s.log.Warn("failed to load school settings for reminders", logger.Fields{"error": err.Error()})
		settings = domain.DefaultSchoolSettings()
	}

	for _, studentID := range order {
		student, err := s.StudentRepo.GetByID(ctx, studentID)
		if err != nil {
			s.log.Error("failed to load student for reminder", err, logger.Fields{"student_id": studentID.String()})
			result.Failed++
			continue
		}

		to := student.Email()
		if to == "" {
			result.Skipped++
			continue
		}

		reminder := notification.Reminder{
			To:          to,
			StudentName: student.Name,
			SchoolName:  settings.SchoolName,
			Currency:    s.config.Business.Currency,
		}
		for _, record := range byStudent[studentID] {
			reminder.Lines = append(reminder.Lines, notification.ReminderLine{
				Period:  utils.PeriodLabel(record.Month, record.Year),
				Balance: record.Balance(),
				DueDate: record.DueDate,
			})
			reminder.Outstanding += record.Balance()
		}

		if err := s.notifier.SendReminder(ctx, reminder); err != nil {
			s.log.Error("failed to send reminder", err, logger.Fields{"student_id": studentID.String()})
			result.Failed++
			continue
		}
		result.Sent++
	}

	s.log.Info("overdue reminders sent", logger.Fields{
		"overdue_bills": result.OverdueBills,
		"students":      result.Students,
		"sent":          result.Sent,
		"skipped":       result.Skipped,
		"failed":        result.Failed,
	})

	return result, nil
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/bootstrap"
	"github.com/segyhp/fee-ledger/internal/cache"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/repository"
	"github.com/segyhp/fee-ledger/internal/service"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := bootstrap.Logger(cfg, "fee-scheduler")
	defer logger.Flush()
	appLog.Info("starting fee scheduler", nil)

	db, err := bootstrap.DB(cfg)
	if err != nil {
		appLog.Error("failed to initialize database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := bootstrap.Redis(context.Background(), cfg)
	if err != nil {
		appLog.Error("failed to initialize redis", err, nil)
		os.Exit(1)
	}
	defer redisClient.Close()

	studentRepo := repository.NewStudentRepository(db)
	feeRecordRepo := repository.NewFeeRecordRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	billingService := service.NewBillingService(feeRecordRepo, cache.NewRedisLocker(redisClient), cache.NewRedisStatementCache(redisClient), cfg, appLog)
	reminderService := service.NewReminderService(studentRepo, feeRecordRepo, settingsRepo, bootstrap.Notifier(cfg, appLog), cfg, appLog)

	// Initialize cron scheduler in the school's time zone
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetLocation()))

	// Schedule tasks
	if err := setupCronJobs(c, cfg, billingService, reminderService, appLog); err != nil {
		appLog.Error("failed to schedule jobs", err, nil)
		os.Exit(1)
	}

	// Start the scheduler
	c.Start()
	appLog.Info("scheduler started", logger.Fields{
		"billing_spec":  cfg.Scheduler.BillingSpec,
		"reminder_spec": cfg.Scheduler.ReminderSpec,
		"timezone":      cfg.Scheduler.Timezone,
	})

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down scheduler", nil)
	<-c.Stop().Done()
	appLog.Info("scheduler stopped", nil)
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, billing *service.BillingService, reminders *service.ReminderService, appLog logger.Logger) error {
	// Monthly job to bill every eligible student
	if _, err := c.AddFunc(cfg.Scheduler.BillingSpec, func() {
		generateMonthlyFees(billing, appLog)
	}); err != nil {
		return err
	}

	// Daily job to remind students with overdue bills
	if _, err := c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		sendOverdueReminders(reminders, appLog)
	}); err != nil {
		return err
	}

	return nil
}

func generateMonthlyFees(billing *service.BillingService, appLog logger.Logger) {
	appLog.Info("running monthly fee generation job", nil)

	result, err := billing.GenerateMonthlyFees(context.Background(), auth.SystemPrincipal())
	switch {
	case customError.Is(err, customError.ErrGenerationInProgress), customError.Is(err, customError.ErrNoEligibleStudents):
		appLog.Warn("monthly fee generation skipped", logger.Fields{"reason": err.Error()})
	case err != nil:
		appLog.Error("monthly fee generation failed", err, nil)
	default:
		appLog.Info("monthly fee generation finished", logger.Fields{"created": result.Created, "eligible": result.Eligible})
	}
}

func sendOverdueReminders(reminders *service.ReminderService, appLog logger.Logger) {
	appLog.Info("running overdue reminder job", nil)

	if _, err := reminders.SendOverdueReminders(context.Background(), auth.SystemPrincipal()); err != nil {
		appLog.Error("overdue reminder job failed", err, nil)
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/gateway"
	"github.com/segyhp/fee-ledger/internal/notification"
	"github.com/segyhp/fee-ledger/internal/repository"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
	"github.com/segyhp/fee-ledger/pkg/utils"
)

const onlinePaymentDescription = "Online Fee Payment"

type LedgerService struct {
	StudentRepo   repository.StudentRepository
	FeeRecordRepo repository.FeeRecordRepository
	PaymentRepo   repository.PaymentRepository
	SettingsRepo  repository.SettingsRepository
	OrderRepo     repository.OrderRepository
	cache         StatementCache
	orders        OrderCreator
	verifier      SignatureVerifier
	notifier      notification.Notifier
	config        *config.Config
	log           logger.Logger
	now           func() time.Time
}

func NewLedgerService(
	studentRepo repository.StudentRepository,
	feeRecordRepo repository.FeeRecordRepository,
	paymentRepo repository.PaymentRepository,
	settingsRepo repository.SettingsRepository,
	orderRepo repository.OrderRepository,
	cache StatementCache,
	orders OrderCreator,
	verifier SignatureVerifier,
	notifier notification.Notifier,
	config *config.Config,
	log logger.Logger,
) *LedgerService {
	return &LedgerService{
		StudentRepo:   studentRepo,
		FeeRecordRepo: feeRecordRepo,
		PaymentRepo:   paymentRepo,
		SettingsRepo:  settingsRepo,
		OrderRepo:     orderRepo,
		cache:         cache,
		orders:        orders,
		verifier:      verifier,
		notifier:      notifier,
		config:        config,
		log:           log,
		now:           time.Now,
	}
}

// RecordCashPayment applies a cash amount, in whole currency units, to the
// student's oldest unpaid bill.
func (s *LedgerService) RecordCashPayment(ctx context.Context, principal *auth.Principal, studentID uuid.UUID, amount decimal.Decimal) (*domain.PaymentReceipt, error) {
	if err := auth.Authorize(principal, auth.CapRecordCashPayment); err != nil {
		return nil, err
	}

	if !amount.IsPositive() || amount.GreaterThan(s.config.GetMaxCashPayment()) {
		return nil, customError.WrapInvalidAmount(amount.String())
	}
	minor, err := utils.ToMinorUnits(amount)
	if err != nil {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	student, err := s.StudentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, storageError(err, "student", studentID.String())
	}

	record, payment, err := s.PaymentRepo.ApplyPayment(ctx, domain.OldestUnpaid(studentID), func(record *domain.FeeRecord) (*domain.Payment, error) {
		if err := record.ApplyPayment(minor); err != nil {
			return nil, err
		}

		paidAt := s.now()
		return &domain.Payment{
			ID:          uuid.New(),
			StudentID:   studentID,
			FeeRecordID: &record.ID,
			Amount:      minor,
			Currency:    s.config.Business.Currency,
			Status:      domain.PaymentStatusPaid,
			PaymentMode: domain.PaymentModeCash,
			Description: "Cash Payment for " + utils.PeriodLabel(record.Month, record.Year),
			PaidAt:      &paidAt,
			CreatedAt:   paidAt,
		}, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNoPendingFees(studentID.String())
		}
		return nil, storageError(err, "student", studentID.String())
	}

	s.log.Info("cash payment recorded", logger.Fields{
		"payment_id":    payment.ID.String(),
		"student_id":    studentID.String(),
		"fee_record_id": record.ID.String(),
		"amount":        minor,
		"status":        record.Status,
		"recorded_by":   principal.UserID,
	})

	s.afterPayment(ctx, student, record, payment)

	return &domain.PaymentReceipt{Payment: payment, FeeRecord: record}, nil
}

// VerifyAndRecordOnlinePayment checks the gateway callback signature and, if
// it matches, credits the stored order's amount to the bill the order was
// opened for. Nothing is written when the signature is wrong or when the
// callback names another bill or amount than its order.
func (s *LedgerService) VerifyAndRecordOnlinePayment(ctx context.Context, principal *auth.Principal, request *domain.VerifyPaymentRequest) (*domain.PaymentReceipt, error) {
	if principal == nil {
		return nil, customError.WrapUnauthenticated()
	}

	if !s.verifier.Verify(request.OrderID, request.PaymentID, request.Signature) {
		s.log.Warn("rejected payment callback with invalid signature", logger.Fields{
			"order_id":   request.OrderID,
			"payment_id": request.PaymentID,
			"user_id":    principal.UserID,
		})
		return nil, customError.WrapInvalidSignature()
	}

	if request.Amount <= 0 {
		return nil, customError.WrapInvalidAmount(utils.FormatMinorUnits(request.Amount))
	}

	student, err := s.StudentRepo.GetByID(ctx, request.StudentID)
	if err != nil {
		return nil, storageError(err, "student", request.StudentID.String())
	}
	if err := auth.AuthorizeStudent(principal, auth.CapPayOnline, student); err != nil {
		return nil, err
	}

	order, err := s.OrderRepo.GetByOrderID(ctx, request.OrderID)
	if err != nil {
		return nil, storageError(err, "order", request.OrderID)
	}
	if order.Status == domain.OrderStatusPaid {
		return nil, customError.WrapDuplicatePayment(request.PaymentID)
	}
	if !order.Matches(request.StudentID, request.FeeRecordID, request.Amount) {
		s.log.Warn("rejected payment callback not matching its order", logger.Fields{
			"order_id":      request.OrderID,
			"payment_id":    request.PaymentID,
			"fee_record_id": request.FeeRecordID.String(),
			"amount":        request.Amount,
			"user_id":       principal.UserID,
		})
		return nil, customError.WrapOrderMismatch(request.OrderID)
	}

	target := domain.OrderRecord(order.StudentID, order.FeeRecordID, order.OrderID)
	record, payment, err := s.PaymentRepo.ApplyPayment(ctx, target, func(record *domain.FeeRecord) (*domain.Payment, error) {
		if err := record.ApplyPayment(order.Amount); err != nil {
			return nil, err
		}

		paidAt := s.now()
		return &domain.Payment{
			ID:               uuid.New(),
			StudentID:        order.StudentID,
			FeeRecordID:      &record.ID,
			Amount:           order.Amount,
			Currency:         s.config.Business.Currency,
			Status:           domain.PaymentStatusPaid,
			PaymentMode:      domain.PaymentModeOnline,
			GatewayOrderID:   &request.OrderID,
			GatewayPaymentID: &request.PaymentID,
			GatewaySignature: &request.Signature,
			Description:      onlinePaymentDescription,
			PaidAt:           &paidAt,
			CreatedAt:        paidAt,
		}, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, customError.WrapDuplicatePayment(request.PaymentID)
		case errors.Is(err, repository.ErrOrderMismatch):
			return nil, customError.WrapOrderMismatch(request.OrderID)
		}
		return nil, storageError(err, "fee record", request.FeeRecordID.String())
	}

	s.log.Info("online payment recorded", logger.Fields{
		"payment_id":         payment.ID.String(),
		"gateway_payment_id": request.PaymentID,
		"student_id":         request.StudentID.String(),
		"fee_record_id":      record.ID.String(),
		"amount":             payment.Amount,
		"status":             record.Status,
	})

	s.afterPayment(ctx, student, record, payment)

	return &domain.PaymentReceipt{Payment: payment, FeeRecord: record}, nil
}

// CreateFeeOrder opens a gateway order for the remaining balance of a bill.
func (s *LedgerService) CreateFeeOrder(ctx context.Context, principal *auth.Principal, feeRecordID uuid.UUID) (*domain.FeeOrder, error) {
	if principal == nil {
		return nil, customError.WrapUnauthenticated()
	}

	record, err := s.FeeRecordRepo.GetByID(ctx, feeRecordID)
	if err != nil {
		return nil, storageError(err, "fee record", feeRecordID.String())
	}

	student, err := s.StudentRepo.GetByID(ctx, record.StudentID)
	if err != nil {
		return nil, storageError(err, "student", record.StudentID.String())
	}
	if err := auth.AuthorizeStudent(principal, auth.CapPayOnline, student); err != nil {
		return nil, err
	}

	balance := record.Balance()
	if balance == 0 {
		return nil, customError.WrapFeeAlreadyPaid(feeRecordID.String())
	}

	receipt := "fee_rcpt_" + feeRecordID.String()
	order, err := s.orders.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   balance,
		Currency: s.config.Business.Currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"student_id":    record.StudentID.String(),
			"fee_record_id": feeRecordID.String(),
		},
	})
	if err != nil {
		s.log.Error("failed to create gateway order", err, logger.Fields{"fee_record_id": feeRecordID.String()})
		return nil, customError.WrapGatewayError(err)
	}

	feeOrder := &domain.FeeOrder{
		OrderID:     order.ID,
		StudentID:   record.StudentID,
		FeeRecordID: feeRecordID,
		Amount:      balance,
		Currency:    s.config.Business.Currency,
		Receipt:     receipt,
		Status:      domain.OrderStatusCreated,
		CreatedAt:   s.now(),
	}
	if err := s.OrderRepo.Create(ctx, feeOrder); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return feeOrder, nil
}

// RecentPayments lists the latest payments across the school. limit is
// clamped to the configured maximum.
func (s *LedgerService) RecentPayments(ctx context.Context, principal *auth.Principal, limit int) ([]*domain.Payment, error) {
	if err := auth.Authorize(principal, auth.CapViewAllPayments); err != nil {
		return nil, err
	}

	maxLimit := s.config.Business.RecentPaymentCap
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	payments, err := s.PaymentRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}

	return payments, nil
}

// afterPayment runs once the payment is committed. Failures are logged only.
func (s *LedgerService) afterPayment(ctx context.Context, student *domain.Student, record *domain.FeeRecord, payment *domain.Payment) {
	if err := s.cache.Invalidate(ctx, student.ID); err != nil {
		s.log.Warn("failed to invalidate statement", logger.Fields{"student_id": student.ID.String(), "error": err.Error()})
	}

	to := student.Email()
	if to == "" {
		return
	}

	settings, err := loadSettings(ctx, s.SettingsRepo)
	if err != nil {
		s.log.Warn("failed to load school settings for receipt", logger.Fields{"error": err.Error()})
		settings = domain.DefaultSchoolSettings()
	}

	receipt := notification.Receipt{
		To:          to,
		StudentName: student.Name,
		SchoolName:  settings.SchoolName,
		PaymentID:   payment.ID.String(),
		Mode:        payment.PaymentMode,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: payment.Description,
		PaidAt:      *payment.PaidAt,
		Balance:     record.Balance(),
	}
	if err := s.notifier.SendReceipt(ctx, receipt); err != nil {
		s.log.Error("failed to send payment receipt", err, logger.Fields{
			"payment_id": payment.ID.String(),
			"student_id": student.ID.String(),
		})
	}
}

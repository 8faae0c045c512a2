package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
)

type FeeService interface {
	SetMonthlyFee(ctx context.Context, principal *auth.Principal, classID uuid.UUID, amount decimal.Decimal) (*domain.FeeStructure, error)
	ListClassFees(ctx context.Context, principal *auth.Principal) ([]*domain.ClassFee, error)
}

type BillingService interface {
	GenerateMonthlyFees(ctx context.Context, principal *auth.Principal) (*domain.GenerationResult, error)
	GenerateForPeriod(ctx context.Context, principal *auth.Principal, month, year int) (*domain.GenerationResult, error)
}

type LedgerService interface {
	RecordCashPayment(ctx context.Context, principal *auth.Principal, studentID uuid.UUID, amount decimal.Decimal) (*domain.PaymentReceipt, error)
	VerifyAndRecordOnlinePayment(ctx context.Context, principal *auth.Principal, request *domain.VerifyPaymentRequest) (*domain.PaymentReceipt, error)
	CreateFeeOrder(ctx context.Context, principal *auth.Principal, feeRecordID uuid.UUID) (*domain.FeeOrder, error)
	RecentPayments(ctx context.Context, principal *auth.Principal, limit int) ([]*domain.Payment, error)
}

type StatementService interface {
	StudentStatement(ctx context.Context, principal *auth.Principal, studentID uuid.UUID) (*domain.Statement, error)
	ParentOverview(ctx context.Context, principal *auth.Principal, parentUserID string) (*domain.ParentOverview, error)
}

type SettingsService interface {
	Get(ctx context.Context, principal *auth.Principal) (*domain.SchoolSettings, error)
	Update(ctx context.Context, principal *auth.Principal, settings *domain.SchoolSettings) (*domain.SchoolSettings, error)
}

func uuidVar(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

func decode(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

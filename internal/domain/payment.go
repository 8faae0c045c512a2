package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Payment modes
const (
	PaymentModeCash   = "CASH"
	PaymentModeOnline = "ONLINE"
)

// Payment is an append-only record of one transaction applied to a bill.
type Payment struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	StudentID        uuid.UUID  `json:"student_id" db:"student_id"`
	FeeRecordID      *uuid.UUID `json:"fee_record_id,omitempty" db:"fee_record_id"`
	Amount           int64      `json:"amount" db:"amount"`
	Currency         string     `json:"currency" db:"currency"`
	Status           string     `json:"status" db:"status"`
	PaymentMode      string     `json:"payment_mode" db:"payment_mode"`
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty" db:"gateway_order_id"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty" db:"gateway_payment_id"`
	GatewaySignature *string    `json:"-" db:"gateway_signature"`
	Description      string     `json:"description" db:"description"`
	PaidAt           *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// PaymentReceipt is what the ledger returns after a successful payment.
type PaymentReceipt struct {
	Payment   *Payment   `json:"payment"`
	FeeRecord *FeeRecord `json:"fee_record"`
}

// Gateway order statuses
const (
	OrderStatusCreated = "CREATED"
	OrderStatusPaid    = "PAID"
)

// FeeOrder is a gateway order created for the remaining balance of a bill.
// It is stored so a checkout callback can only credit the bill and amount
// the order was opened for, and only once.
type FeeOrder struct {
	OrderID     string     `json:"order_id" db:"order_id"`
	StudentID   uuid.UUID  `json:"student_id" db:"student_id"`
	FeeRecordID uuid.UUID  `json:"fee_record_id" db:"fee_record_id"`
	Amount      int64      `json:"amount" db:"amount"`
	Currency    string     `json:"currency" db:"currency"`
	Receipt     string     `json:"receipt" db:"receipt"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

// Matches reports whether a payment of amount against the bill fits this
// order.
func (o *FeeOrder) Matches(studentID, feeRecordID uuid.UUID, amount int64) bool {
	return o.StudentID == studentID && o.FeeRecordID == feeRecordID && o.Amount == amount
}

// DTOs for requests and responses

type CashPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID     string    `json:"order_id" validate:"required"`
	PaymentID   string    `json:"payment_id" validate:"required"`
	Signature   string    `json:"signature" validate:"required,hexadecimal"`
	FeeRecordID uuid.UUID `json:"fee_record_id" validate:"required"`
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"gt=0"`
}

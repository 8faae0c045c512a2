package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrNotFound              = errors.New("not found")
	ErrNoPendingFees         = errors.New("no pending fees")
	ErrFeeAlreadyPaid        = errors.New("fee already paid")
	ErrDuplicatePayment      = errors.New("payment already recorded")
	ErrGenerationInProgress  = errors.New("fee generation already in progress")
	ErrNoEligibleStudents    = errors.New("no eligible students")
	ErrInvalidSignature      = errors.New("invalid payment signature")
	ErrOrderMismatch         = errors.New("payment does not match its order")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeUnauthenticated       = "UNAUTHENTICATED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeValidation            = "VALIDATION_FAILED"
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodePaymentExceedsBalance = "PAYMENT_EXCEEDS_BALANCE"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeNoPendingFees         = "NO_PENDING_FEES"
	ErrCodeFeeAlreadyPaid        = "FEE_ALREADY_PAID"
	ErrCodeDuplicatePayment      = "DUPLICATE_PAYMENT"
	ErrCodeGenerationInProgress  = "GENERATION_IN_PROGRESS"
	ErrCodeNoEligibleStudents    = "NO_ELIGIBLE_STUDENTS"
	ErrCodeInvalidSignature      = "INVALID_SIGNATURE"
	ErrCodeOrderMismatch         = "ORDER_MISMATCH"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeGatewayError          = "GATEWAY_ERROR"
)

// Code returns the business code carried by err, or "" when err is not a
// BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Is and As are re-exported so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func WrapUnauthenticated() *BusinessError {
	return NewBusinessError(ErrCodeUnauthenticated, "Authentication required", ErrUnauthenticated)
}

func WrapForbidden(capability string) *BusinessError {
	return NewBusinessError(
		ErrCodeForbidden,
		fmt.Sprintf("Caller is not allowed to %s", capability),
		ErrForbidden,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapPaymentExceedsBalance(amount, balance int64) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsBalance,
		fmt.Sprintf("Payment of %d exceeds remaining balance of %d", amount, balance),
		ErrPaymentExceedsBalance,
	)
}

func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapNoPendingFees(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoPendingFees,
		fmt.Sprintf("No pending fees found for student %s", studentID),
		ErrNoPendingFees,
	)
}

func WrapFeeAlreadyPaid(feeRecordID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFeeAlreadyPaid,
		fmt.Sprintf("Fee record %s is already paid", feeRecordID),
		ErrFeeAlreadyPaid,
	)
}

func WrapDuplicatePayment(gatewayPaymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicatePayment,
		fmt.Sprintf("Gateway payment %s has already been recorded", gatewayPaymentID),
		ErrDuplicatePayment,
	)
}

func WrapGenerationInProgress(month, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeGenerationInProgress,
		fmt.Sprintf("Fee generation for %02d/%d is already running", month, year),
		ErrGenerationInProgress,
	)
}

func WrapNoEligibleStudents() *BusinessError {
	return NewBusinessError(
		ErrCodeNoEligibleStudents,
		"No eligible students found",
		ErrNoEligibleStudents,
	)
}

func WrapInvalidSignature() *BusinessError {
	return NewBusinessError(ErrCodeInvalidSignature, "Invalid payment signature", ErrInvalidSignature)
}

func WrapOrderMismatch(orderID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOrderMismatch,
		fmt.Sprintf("Payment does not match order %s", orderID),
		ErrOrderMismatch,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapGatewayError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeGatewayError,
		"Payment gateway request failed",
		err,
	)
}

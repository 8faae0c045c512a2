package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/pkg/response"
)

type PaymentHandler struct {
	ledger    LedgerService
	validator *validator.Validate
}

func NewPaymentHandler(ledger LedgerService) *PaymentHandler {
	return &PaymentHandler{
		ledger:    ledger,
		validator: validator.New(),
	}
}

// RecordCashPayment handles POST /api/v1/students/{studentId}/payments/cash
func (h *PaymentHandler) RecordCashPayment(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuidVar(r, "studentId")
	if err != nil {
		response.BadRequest(w, "Invalid student ID", err)
		return
	}

	var request domain.CashPaymentRequest
	if err := decode(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	receipt, err := h.ledger.RecordCashPayment(r.Context(), auth.FromContext(r.Context()), studentID, request.Amount)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, receipt)
}

// CreateOrder handles POST /api/v1/fee-records/{feeRecordId}/orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	feeRecordID, err := uuidVar(r, "feeRecordId")
	if err != nil {
		response.BadRequest(w, "Invalid fee record ID", err)
		return
	}

	order, err := h.ledger.CreateFeeOrder(r.Context(), auth.FromContext(r.Context()), feeRecordID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, order)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.VerifyPaymentRequest
	if err := decode(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	receipt, err := h.ledger.VerifyAndRecordOnlinePayment(r.Context(), auth.FromContext(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, receipt)
}

// RecentPayments handles GET /api/v1/payments/recent?limit=N
func (h *PaymentHandler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer", err)
			return
		}
		limit = parsed
	}

	payments, err := h.ledger.RecentPayments(r.Context(), auth.FromContext(r.Context()), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payments)
}

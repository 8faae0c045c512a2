package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/pkg/response"
)

type FeeHandler struct {
	fees      FeeService
	billing   BillingService
	validator *validator.Validate
}

func NewFeeHandler(fees FeeService, billing BillingService) *FeeHandler {
	return &FeeHandler{
		fees:      fees,
		billing:   billing,
		validator: validator.New(),
	}
}

// GenerateFeesRequest selects the billing period. Both fields empty means the
// current month.
type GenerateFeesRequest struct {
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
	Year  int `json:"year" validate:"omitempty,min=2000"`
}

// ListFeeStructures handles GET /api/v1/fee-structures
func (h *FeeHandler) ListFeeStructures(w http.ResponseWriter, r *http.Request) {
	fees, err := h.fees.ListClassFees(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fees)
}

// SetMonthlyFee handles PUT /api/v1/classes/{classId}/fee
func (h *FeeHandler) SetMonthlyFee(w http.ResponseWriter, r *http.Request) {
	classID, err := uuidVar(r, "classId")
	if err != nil {
		response.BadRequest(w, "Invalid class ID", err)
		return
	}

	var request domain.SetMonthlyFeeRequest
	if err := decode(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	structure, err := h.fees.SetMonthlyFee(r.Context(), auth.FromContext(r.Context()), classID, request.Amount)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, structure)
}

// GenerateFees handles POST /api/v1/fees/generate
func (h *FeeHandler) GenerateFees(w http.ResponseWriter, r *http.Request) {
	var request GenerateFeesRequest
	if err := decode(r, &request); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}
	if (request.Month == 0) != (request.Year == 0) {
		response.BadRequest(w, "month and year must be given together", nil)
		return
	}

	principal := auth.FromContext(r.Context())

	var (
		result *domain.GenerationResult
		err    error
	)
	if request.Month == 0 {
		result, err = h.billing.GenerateMonthlyFees(r.Context(), principal)
	} else {
		result, err = h.billing.GenerateForPeriod(r.Context(), principal, request.Month, request.Year)
	}
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, result)
}

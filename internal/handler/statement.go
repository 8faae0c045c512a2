package handler

import (
	"net/http"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/pkg/response"
)

type StatementHandler struct {
	statements StatementService
}

func NewStatementHandler(statements StatementService) *StatementHandler {
	return &StatementHandler{statements: statements}
}

// StudentStatement handles GET /api/v1/students/{studentId}/statement
func (h *StatementHandler) StudentStatement(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuidVar(r, "studentId")
	if err != nil {
		response.BadRequest(w, "Invalid student ID", err)
		return
	}

	statement, err := h.statements.StudentStatement(r.Context(), auth.FromContext(r.Context()), studentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, statement)
}

// MyChildrenFees handles GET /api/v1/parents/me/fees
func (h *StatementHandler) MyChildrenFees(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	if principal == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	overview, err := h.statements.ParentOverview(r.Context(), principal, principal.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, overview)
}

package domain

import "github.com/google/uuid"

// Statement is a student's fee position: bills, payments and totals, all in
// minor units.
type Statement struct {
	StudentID   uuid.UUID    `json:"student_id"`
	StudentName string       `json:"student_name"`
	Bills       []*FeeRecord `json:"bills"`
	Payments    []*Payment   `json:"payments"`
	TotalBilled int64        `json:"total_billed"`
	TotalPaid   int64        `json:"total_paid"`
	Outstanding int64        `json:"outstanding"`
}

// NewStatement computes totals over bills and payments. Only PAID payments
// count towards TotalPaid.
func NewStatement(student *Student, bills []*FeeRecord, payments []*Payment) *Statement {
	s := &Statement{
		StudentID:   student.ID,
		StudentName: student.Name,
		Bills:       bills,
		Payments:    payments,
	}
	if s.Bills == nil {
		s.Bills = []*FeeRecord{}
	}
	if s.Payments == nil {
		s.Payments = []*Payment{}
	}

	for _, bill := range bills {
		s.TotalBilled += bill.Amount
		s.Outstanding += bill.Balance()
	}
	for _, payment := range payments {
		if payment.Status == PaymentStatusPaid {
			s.TotalPaid += payment.Amount
		}
	}
	return s
}

// ParentOverview groups the statements of every child of a parent.
type ParentOverview struct {
	Children         []*Statement `json:"children"`
	TotalOutstanding int64        `json:"total_outstanding"`
}

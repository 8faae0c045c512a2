package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewStatement(t *testing.T) {
	student := &Student{ID: uuid.New(), Name: "Asha"}
	bills := []*FeeRecord{
		{Month: 9, Year: 2026, Amount: 5000, AmountPaid: 5000, Status: FeeStatusPaid},
		{Month: 10, Year: 2026, Amount: 5000, AmountPaid: 2000, Status: FeeStatusPartiallyPaid},
	}
	payments := []*Payment{
		{Amount: 5000, Status: PaymentStatusPaid},
		{Amount: 2000, Status: PaymentStatusPaid},
		{Amount: 3000, Status: PaymentStatusFailed},
	}

	s := NewStatement(student, bills, payments)

	assert.Equal(t, student.ID, s.StudentID)
	assert.Equal(t, "Asha", s.StudentName)
	assert.Equal(t, int64(10000), s.TotalBilled)
	assert.Equal(t, int64(7000), s.TotalPaid)
	assert.Equal(t, int64(3000), s.Outstanding)
}

func TestNewStatement_Empty(t *testing.T) {
	s := NewStatement(&Student{ID: uuid.New()}, nil, nil)

	assert.NotNil(t, s.Bills)
	assert.NotNil(t, s.Payments)
	assert.Zero(t, s.TotalBilled)
	assert.Zero(t, s.Outstanding)
}

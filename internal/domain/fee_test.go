package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/fee-ledger/pkg/errors"
)

func TestDeriveFeeStatus(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		amountPaid int64
		expected   string
	}{
		{name: "nothing paid", amount: 5000, amountPaid: 0, expected: FeeStatusPending},
		{name: "partly paid", amount: 5000, amountPaid: 2000, expected: FeeStatusPartiallyPaid},
		{name: "one paisa short", amount: 5000, amountPaid: 4999, expected: FeeStatusPartiallyPaid},
		{name: "exactly paid", amount: 5000, amountPaid: 5000, expected: FeeStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveFeeStatus(tt.amount, tt.amountPaid))
		})
	}
}

func TestFeeRecord_ApplyPayment(t *testing.T) {
	newRecord := func() *FeeRecord {
		return &FeeRecord{ID: uuid.New(), Amount: 5000, Status: FeeStatusPending}
	}

	t.Run("full payment settles the bill", func(t *testing.T) {
		rec := newRecord()
		require.NoError(t, rec.ApplyPayment(5000))
		assert.Equal(t, int64(5000), rec.AmountPaid)
		assert.Equal(t, FeeStatusPaid, rec.Status)
		assert.Zero(t, rec.Balance())
	})

	t.Run("instalments move through partially paid", func(t *testing.T) {
		rec := newRecord()
		require.NoError(t, rec.ApplyPayment(2000))
		assert.Equal(t, int64(2000), rec.AmountPaid)
		assert.Equal(t, FeeStatusPartiallyPaid, rec.Status)

		require.NoError(t, rec.ApplyPayment(3000))
		assert.Equal(t, int64(5000), rec.AmountPaid)
		assert.Equal(t, FeeStatusPaid, rec.Status)
	})

	t.Run("overpayment is rejected and leaves the record untouched", func(t *testing.T) {
		rec := newRecord()
		require.NoError(t, rec.ApplyPayment(1000))

		err := rec.ApplyPayment(4001)
		require.Error(t, err)
		assert.ErrorIs(t, err, customError.ErrPaymentExceedsBalance)
		assert.Equal(t, int64(1000), rec.AmountPaid)
		assert.Equal(t, FeeStatusPartiallyPaid, rec.Status)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		rec := newRecord()
		assert.ErrorIs(t, rec.ApplyPayment(0), customError.ErrInvalidAmount)
		assert.ErrorIs(t, rec.ApplyPayment(-100), customError.ErrInvalidAmount)
		assert.Zero(t, rec.AmountPaid)
	})

	t.Run("paid bill accepts nothing more", func(t *testing.T) {
		rec := newRecord()
		require.NoError(t, rec.ApplyPayment(5000))
		assert.ErrorIs(t, rec.ApplyPayment(1), customError.ErrFeeAlreadyPaid)
	})
}

func TestFeeRecordTargets(t *testing.T) {
	studentID := uuid.New()
	recordID := uuid.New()

	oldest := OldestUnpaid(studentID)
	assert.Equal(t, studentID, oldest.StudentID)
	assert.Nil(t, oldest.FeeRecordID)

	specific := SpecificRecord(studentID, recordID)
	require.NotNil(t, specific.FeeRecordID)
	assert.Equal(t, recordID, *specific.FeeRecordID)
}

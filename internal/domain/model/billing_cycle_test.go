package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

func newTestCycle(t *testing.T) model.BillingCycle {
	t.Helper()
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cycle, err := model.NewBillingCycle(
		uuid.New(), 1,
		start, start.AddDate(0, 1, 0),
		model.NewCycleState(10000, twentyPercent),
	)
	require.NoError(t, err)
	return cycle
}

func TestNewBillingCycle(t *testing.T) {
	t.Run("opens with engine state", func(t *testing.T) {
		cycle := newTestCycle(t)

		assert.True(t, cycle.Status().Equal(valueobject.CycleStatusOpen))
		assert.Equal(t, 1, cycle.CycleNumber())
		assert.Equal(t, money.Cents(12000), cycle.Balance())
	})

	t.Run("rejects missing loan", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewBillingCycle(uuid.Nil, 1, start, start.AddDate(0, 1, 0), model.CycleState{})
		assert.ErrorContains(t, err, "loan ID")
	})

	t.Run("rejects cycle number below one", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewBillingCycle(uuid.New(), 0, start, start.AddDate(0, 1, 0), model.CycleState{})
		assert.ErrorContains(t, err, "cycle number")
	})

	t.Run("rejects end date before start", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewBillingCycle(uuid.New(), 1, start, start, model.CycleState{})
		assert.ErrorContains(t, err, "end date")
	})
}

func TestBillingCycleRecordPayment(t *testing.T) {
	t.Run("partial payment keeps the cycle open", func(t *testing.T) {
		cycle := newTestCycle(t)
		paid, err := cycle.RecordPayment(8000)
		require.NoError(t, err)

		assert.Equal(t, money.Cents(4000), paid.Balance())
		assert.True(t, paid.Status().Equal(valueobject.CycleStatusOpen))
		// The original copy is untouched.
		assert.Equal(t, money.Cents(12000), cycle.Balance())
	})

	t.Run("full payment closes the cycle", func(t *testing.T) {
		cycle := newTestCycle(t)
		paid, err := cycle.RecordPayment(12000)
		require.NoError(t, err)

		assert.Equal(t, money.Cents(0), paid.Balance())
		assert.True(t, paid.Status().Equal(valueobject.CycleStatusClosed))
	})

	t.Run("overpayment closes with a negative balance", func(t *testing.T) {
		cycle := newTestCycle(t)
		paid, err := cycle.RecordPayment(12001)
		require.NoError(t, err)

		assert.Equal(t, money.Cents(-1), paid.Balance())
		assert.True(t, paid.Status().Equal(valueobject.CycleStatusClosed))
	})

	t.Run("overdue cycle still accepts payments", func(t *testing.T) {
		cycle := newTestCycle(t)
		overdue, err := cycle.MarkOverdue()
		require.NoError(t, err)

		paid, err := overdue.RecordPayment(12000)
		require.NoError(t, err)
		assert.True(t, paid.Status().Equal(valueobject.CycleStatusClosed))
	})

	t.Run("closed cycle rejects payments", func(t *testing.T) {
		cycle := newTestCycle(t)
		paid, err := cycle.RecordPayment(12000)
		require.NoError(t, err)

		_, err = paid.RecordPayment(100)
		assert.ErrorContains(t, err, "closed cycle")
	})
}

func TestBillingCycleMarkOverdue(t *testing.T) {
	t.Run("open becomes overdue", func(t *testing.T) {
		cycle := newTestCycle(t)
		overdue, err := cycle.MarkOverdue()
		require.NoError(t, err)

		assert.True(t, overdue.Status().Equal(valueobject.CycleStatusOverdue))
	})

	t.Run("closed cycle cannot go overdue", func(t *testing.T) {
		cycle := newTestCycle(t)
		paid, err := cycle.RecordPayment(12000)
		require.NoError(t, err)

		_, err = paid.MarkOverdue()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

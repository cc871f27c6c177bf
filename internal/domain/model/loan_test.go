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

func newTestLoan(t *testing.T) model.Loan {
	t.Helper()
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewLoan(
		uuid.New(), 10000, twentyPercent,
		start, start.AddDate(0, 1, 0),
		"", start,
	)
	require.NoError(t, err)
	return loan
}

func TestNewLoan(t *testing.T) {
	t.Run("issues an active loan and emits LoanCreated", func(t *testing.T) {
		loan := newTestLoan(t)

		assert.NotEqual(t, uuid.Nil, loan.ID())
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusActive))
		assert.Equal(t, money.Cents(10000), loan.Principal())

		evts := loan.DomainEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, "lendtrack.loan.created", evts[0].EventType())
		assert.Equal(t, loan.ID(), evts[0].AggregateID())
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewLoan(uuid.Nil, 10000, twentyPercent, start, start.AddDate(0, 1, 0), "", start)
		assert.ErrorContains(t, err, "customer ID")
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewLoan(uuid.New(), 0, twentyPercent, start, start.AddDate(0, 1, 0), "", start)
		assert.ErrorContains(t, err, "principal")
	})

	t.Run("rejects due date before start date", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := model.NewLoan(uuid.New(), 10000, twentyPercent, start, start, "", start)
		assert.ErrorContains(t, err, "due date")
	})
}

func TestLoanMarkOverdue(t *testing.T) {
	now := time.Now().UTC()

	t.Run("active becomes overdue", func(t *testing.T) {
		loan := newTestLoan(t)
		overdue, err := loan.MarkOverdue(now)
		require.NoError(t, err)

		assert.True(t, overdue.Status().Equal(valueobject.LoanStatusOverdue))
		// The original copy is untouched.
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusActive))
	})

	t.Run("re-marking an overdue loan is a no-op", func(t *testing.T) {
		loan := newTestLoan(t)
		overdue, err := loan.MarkOverdue(now)
		require.NoError(t, err)

		again, err := overdue.MarkOverdue(now)
		require.NoError(t, err)
		assert.True(t, again.Status().Equal(valueobject.LoanStatusOverdue))
	})

	t.Run("settled loan cannot go overdue", func(t *testing.T) {
		loan := newTestLoan(t)
		settled, err := loan.Settle(now)
		require.NoError(t, err)

		_, err = settled.MarkOverdue(now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestLoanSettle(t *testing.T) {
	now := time.Now().UTC()

	t.Run("active loan settles and emits LoanSettled", func(t *testing.T) {
		loan := newTestLoan(t).ClearEvents()
		settled, err := loan.Settle(now)
		require.NoError(t, err)

		assert.True(t, settled.Status().Equal(valueobject.LoanStatusSettled))
		evts := settled.DomainEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, "lendtrack.loan.settled", evts[0].EventType())
	})

	t.Run("overdue loan settles", func(t *testing.T) {
		loan := newTestLoan(t)
		overdue, err := loan.MarkOverdue(now)
		require.NoError(t, err)

		settled, err := overdue.Settle(now)
		require.NoError(t, err)
		assert.True(t, settled.Status().Equal(valueobject.LoanStatusSettled))
	})

	t.Run("settling twice fails", func(t *testing.T) {
		loan := newTestLoan(t)
		settled, err := loan.Settle(now)
		require.NoError(t, err)

		_, err = settled.Settle(now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func day(offset int) time.Time {
	return DateOnly(testNow).AddDate(0, 0, offset)
}

func TestDeriveStatusZeroBalanceIsPaid(t *testing.T) {
	tests := []struct {
		name string
		in   StatusInput
	}{
		{
			name: "no dates at all",
			in:   StatusInput{TotalOwed: decimal.Zero, CreatedAt: day(-400)},
		},
		{
			name: "explicit due date far in the past",
			in: StatusInput{
				TotalOwed: decimal.Zero,
				DueDate:   datePtr(day(-200)),
				CreatedAt: day(-400),
			},
		},
		{
			name: "recent payment recorded",
			in: StatusInput{
				TotalOwed:       decimal.Zero,
				LastPaymentDate: datePtr(day(-1)),
				CreatedAt:       day(-90),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DeriveStatus(tt.in, testNow)
			assert.Equal(t, StatusPaid, res.Status)
			assert.Nil(t, res.EffectiveDueDate)
		})
	}
}

func TestDeriveStatusExplicitDueDateWins(t *testing.T) {
	in := StatusInput{
		TotalOwed: decimal.NewFromInt(50),
		// Last payment would push the fallback due date into the future,
		// but the explicit due date takes precedence.
		LastPaymentDate: datePtr(day(-1)),
		DueDate:         datePtr(day(-3)),
		CreatedAt:       day(-60),
	}
	res := DeriveStatus(in, testNow)
	assert.Equal(t, StatusOverdue, res.Status)
	require.NotNil(t, res.EffectiveDueDate)
	assert.Equal(t, day(-3), *res.EffectiveDueDate)
}

func TestDeriveStatusFallbackTerm(t *testing.T) {
	t.Run("payment today means due in 30 days", func(t *testing.T) {
		in := StatusInput{
			TotalOwed:       decimal.NewFromInt(120),
			LastPaymentDate: datePtr(testNow),
			CreatedAt:       day(-365),
		}
		res := DeriveStatus(in, testNow)
		assert.Equal(t, StatusCurrent, res.Status)
		require.NotNil(t, res.EffectiveDueDate)
		assert.Equal(t, day(DefaultTermDays), *res.EffectiveDueDate)
	})

	t.Run("no payment falls back to creation date", func(t *testing.T) {
		in := StatusInput{
			TotalOwed: decimal.NewFromInt(120),
			CreatedAt: day(-31),
		}
		res := DeriveStatus(in, testNow)
		assert.Equal(t, StatusOverdue, res.Status)
		require.NotNil(t, res.EffectiveDueDate)
		assert.Equal(t, day(-1), *res.EffectiveDueDate)
	})

	t.Run("later of payment and creation wins", func(t *testing.T) {
		in := StatusInput{
			TotalOwed:       decimal.NewFromInt(75),
			LastPaymentDate: datePtr(day(-10)),
			CreatedAt:       day(-100),
		}
		res := DeriveStatus(in, testNow)
		assert.Equal(t, StatusCurrent, res.Status)
		assert.Equal(t, day(20), *res.EffectiveDueDate)
	})
}

func TestDeriveStatusDueTodayIsCurrent(t *testing.T) {
	// Classification is strict: only due dates before today are overdue.
	in := StatusInput{
		TotalOwed: decimal.NewFromInt(10),
		DueDate:   datePtr(testNow),
		CreatedAt: day(-5),
	}
	res := DeriveStatus(in, testNow)
	assert.Equal(t, StatusCurrent, res.Status)
}

func TestDeriveStatusIgnoresTimeOfDay(t *testing.T) {
	// Due late last night in any timezone representation still counts as
	// yesterday's date and so is overdue.
	due := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	in := StatusInput{
		TotalOwed: decimal.NewFromInt(10),
		DueDate:   &due,
		CreatedAt: day(-5),
	}
	res := DeriveStatus(in, testNow)
	assert.Equal(t, StatusOverdue, res.Status)
	assert.Equal(t, day(-1), *res.EffectiveDueDate)
}

func TestDaysOverdue(t *testing.T) {
	assert.Equal(t, 15, DaysOverdue(day(-15), testNow))
	assert.Equal(t, 0, DaysOverdue(day(0), testNow))
	assert.Equal(t, 0, DaysOverdue(day(10), testNow))
}

package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord is the in-memory shape the aggregator works on. The data
// access layer maps persisted accounts (plus their fetched payment and
// call history) into this struct before any report is built; the billing
// package itself performs no I/O.
type AccountRecord struct {
	ID                uint
	PatientName       string
	MRN               string
	Phone             string
	TotalOwed         decimal.Decimal
	LastPaymentDate   *time.Time
	LastPaymentAmount *decimal.Decimal
	DueDate           *time.Time
	CreatedAt         time.Time
	Payments          []PaymentRecord
	Calls             []CallRecord
}

// PaymentRecord is one payment event against an account.
type PaymentRecord struct {
	ID          uint
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	Notes       string
}

// CallRecord is one phone contact logged against an account.
type CallRecord struct {
	ID        uint
	CallDate  time.Time
	Comments  string
	CreatedBy string
}

// StatusAt derives the account's status and effective due date as of now.
func (a AccountRecord) StatusAt(now time.Time) StatusResult {
	return DeriveStatus(StatusInput{
		TotalOwed:       a.TotalOwed,
		LastPaymentDate: a.LastPaymentDate,
		DueDate:         a.DueDate,
		CreatedAt:       a.CreatedAt,
	}, now)
}

// DaysOverdueAt returns the account's days overdue as of now, zero when
// the account is not overdue.
func (a AccountRecord) DaysOverdueAt(now time.Time) int {
	res := a.StatusAt(now)
	if res.Status != StatusOverdue || res.EffectiveDueDate == nil {
		return 0
	}
	return DaysOverdue(*res.EffectiveDueDate, now)
}

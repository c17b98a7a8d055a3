package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus classifies an account's balance against its due date
type AccountStatus string

const (
	StatusOverdue AccountStatus = "overdue"
	StatusCurrent AccountStatus = "current"
	StatusPaid    AccountStatus = "paid"
)

// DefaultTermDays is the payment term applied when an account has no
// explicit due date: the later of last payment date and creation date
// plus this many days.
const DefaultTermDays = 30

// statusRank orders statuses for sorting and grouping: overdue first,
// then current, then paid.
func statusRank(s AccountStatus) int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusCurrent:
		return 1
	default:
		return 2
	}
}

// StatusInput carries the raw account fields the status derivation needs.
type StatusInput struct {
	TotalOwed       decimal.Decimal
	LastPaymentDate *time.Time
	DueDate         *time.Time
	CreatedAt       time.Time
}

// StatusResult is the derived classification. EffectiveDueDate is nil
// when the account is paid off.
type StatusResult struct {
	Status           AccountStatus
	EffectiveDueDate *time.Time
}

// DateOnly truncates a timestamp to midnight UTC. All date comparisons in
// this package are calendar-date comparisons in UTC; the caller supplies
// timestamps and this package ignores their time of day.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DeriveStatus computes an account's status and effective due date as of
// the supplied reference time. It is pure: callers inject "now" so the
// derivation is deterministic under test.
//
// A zero balance is always paid, regardless of dates. Otherwise the
// effective due date is the explicit due date when set, or the later of
// last payment date and creation date plus DefaultTermDays. An effective
// due date strictly before today's date means overdue.
func DeriveStatus(in StatusInput, now time.Time) StatusResult {
	if in.TotalOwed.IsZero() {
		return StatusResult{Status: StatusPaid}
	}

	var due time.Time
	if in.DueDate != nil {
		due = DateOnly(*in.DueDate)
	} else {
		base := in.CreatedAt
		if in.LastPaymentDate != nil && in.LastPaymentDate.After(base) {
			base = *in.LastPaymentDate
		}
		due = DateOnly(base).AddDate(0, 0, DefaultTermDays)
	}

	status := StatusCurrent
	if due.Before(DateOnly(now)) {
		status = StatusOverdue
	}
	return StatusResult{Status: status, EffectiveDueDate: &due}
}

// DaysOverdue returns how many whole days the effective due date lies in
// the past, floored at zero.
func DaysOverdue(effectiveDue, now time.Time) int {
	days := int(DateOnly(now).Sub(DateOnly(effectiveDue)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

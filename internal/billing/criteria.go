package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusBucket selects which accounts a report covers.
type StatusBucket string

const (
	BucketAll     StatusBucket = "all"
	BucketOverdue StatusBucket = "overdue"
	BucketCurrent StatusBucket = "current"
)

// DateRange is an inclusive [Start, End] calendar window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, comparing calendar
// dates only.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

// Validate rejects inverted ranges.
func (r DateRange) Validate() error {
	if DateOnly(r.End).Before(DateOnly(r.Start)) {
		return fmt.Errorf("date range end %s is before start %s",
			r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return nil
}

// ReportFilterCriteria describes which accounts a report includes. Every
// recognized option is enumerated here; there is no open-ended option bag.
// The zero value means "all accounts with a balance".
type ReportFilterCriteria struct {
	Bucket         StatusBucket
	MinBalance     *decimal.Decimal
	MaxBalance     *decimal.Decimal
	MinDaysOverdue *int
	MaxDaysOverdue *int

	// Windows applied to each account's payment and call history.
	PaymentDateRange *DateRange
	CallDateRange    *DateRange

	IncludeZeroBalance bool
	IncludePaid        bool
}

// Validate checks the criteria before any filtering runs. Inverted min/max
// pairs and malformed ranges are caller errors, never silently coerced.
func (c ReportFilterCriteria) Validate() error {
	switch c.Bucket {
	case "", BucketAll, BucketOverdue, BucketCurrent:
	default:
		return fmt.Errorf("unknown status bucket %q", c.Bucket)
	}
	if c.MinBalance != nil && c.MaxBalance != nil && c.MinBalance.GreaterThan(*c.MaxBalance) {
		return fmt.Errorf("min balance %s exceeds max balance %s", c.MinBalance, c.MaxBalance)
	}
	if c.MinDaysOverdue != nil && *c.MinDaysOverdue < 0 {
		return fmt.Errorf("min days overdue must not be negative")
	}
	if c.MaxDaysOverdue != nil && *c.MaxDaysOverdue < 0 {
		return fmt.Errorf("max days overdue must not be negative")
	}
	if c.MinDaysOverdue != nil && c.MaxDaysOverdue != nil && *c.MinDaysOverdue > *c.MaxDaysOverdue {
		return fmt.Errorf("min days overdue %d exceeds max days overdue %d",
			*c.MinDaysOverdue, *c.MaxDaysOverdue)
	}
	if c.PaymentDateRange != nil {
		if err := c.PaymentDateRange.Validate(); err != nil {
			return fmt.Errorf("payment %w", err)
		}
	}
	if c.CallDateRange != nil {
		if err := c.CallDateRange.Validate(); err != nil {
			return fmt.Errorf("call %w", err)
		}
	}
	return nil
}

// bucket returns the normalized bucket, defaulting to all.
func (c ReportFilterCriteria) bucket() StatusBucket {
	if c.Bucket == "" {
		return BucketAll
	}
	return c.Bucket
}

package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the column account rows are ordered by.
type SortField string

const (
	SortByAmount  SortField = "amount"
	SortByName    SortField = "name"
	SortByDueDate SortField = "dueDate"
	SortByStatus  SortField = "status"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterAccounts keeps the accounts that pass every active criterion.
// Criteria must have been validated already; an empty result is a valid
// outcome, not an error.
func FilterAccounts(accounts []AccountRecord, c ReportFilterCriteria, now time.Time) []AccountRecord {
	out := make([]AccountRecord, 0, len(accounts))
	for _, a := range accounts {
		res := a.StatusAt(now)

		if !c.IncludeZeroBalance && a.TotalOwed.IsZero() {
			continue
		}
		if !c.IncludePaid && res.Status == StatusPaid {
			continue
		}
		switch c.bucket() {
		case BucketOverdue:
			if res.Status != StatusOverdue {
				continue
			}
			days := a.DaysOverdueAt(now)
			if c.MinDaysOverdue != nil && days < *c.MinDaysOverdue {
				continue
			}
			if c.MaxDaysOverdue != nil && days > *c.MaxDaysOverdue {
				continue
			}
		case BucketCurrent:
			if res.Status != StatusCurrent {
				continue
			}
		}
		if c.MinBalance != nil && a.TotalOwed.LessThan(*c.MinBalance) {
			continue
		}
		if c.MaxBalance != nil && a.TotalOwed.GreaterThan(*c.MaxBalance) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortAccounts orders accounts in place, stably, by the given field and
// direction. Names compare with locale-aware, case-folding collation so
// "alpha" sorts before "Beta". Due-date ordering uses each account's
// effective due date; paid accounts, which have none, sort last.
func SortAccounts(accounts []AccountRecord, field SortField, dir SortDirection, now time.Time) {
	coll := collate.New(language.English, collate.Loose)

	less := func(i, j int) bool { return accounts[i].ID < accounts[j].ID }
	switch field {
	case SortByAmount:
		less = func(i, j int) bool {
			return accounts[i].TotalOwed.LessThan(accounts[j].TotalOwed)
		}
	case SortByName:
		less = func(i, j int) bool {
			return coll.CompareString(accounts[i].PatientName, accounts[j].PatientName) < 0
		}
	case SortByDueDate:
		less = func(i, j int) bool {
			di := accounts[i].StatusAt(now).EffectiveDueDate
			dj := accounts[j].StatusAt(now).EffectiveDueDate
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		}
	case SortByStatus:
		less = func(i, j int) bool {
			return statusRank(accounts[i].StatusAt(now).Status) < statusRank(accounts[j].StatusAt(now).Status)
		}
	}

	if dir == SortDesc {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.SliceStable(accounts, less)
}

// Summary holds the headline figures for a set of accounts.
type Summary struct {
	Count          int             `json:"count"`
	TotalOwed      decimal.Decimal `json:"total_owed"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	AverageBalance decimal.Decimal `json:"average_balance"`
}

// Summarize computes count, owed and payment totals, and the average
// balance over the given accounts. Payments outside the optional window
// are not counted. An empty set yields zeros, never a division by zero.
func Summarize(accounts []AccountRecord, paymentRange *DateRange) Summary {
	s := Summary{Count: len(accounts)}
	for _, a := range accounts {
		s.TotalOwed = s.TotalOwed.Add(a.TotalOwed)
		for _, p := range a.Payments {
			if paymentRange != nil && !paymentRange.Contains(p.PaymentDate) {
				continue
			}
			s.TotalPayments = s.TotalPayments.Add(p.Amount)
		}
	}
	if s.Count > 0 {
		s.AverageBalance = s.TotalOwed.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s
}

// AgingBucket is one column of the overdue aging table.
type AgingBucket struct {
	Label   string          `json:"label"`
	MinDays int             `json:"min_days"`
	MaxDays int             `json:"max_days"` // 0 means open-ended
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// AgingBuckets assigns every overdue account to a 1-30 / 31-60 / 61-90 /
// 90+ bucket by days overdue and reports count, summed balance, and each
// bucket's share of the total overdue amount. Accounts that are not
// overdue are ignored. Percentages are zero when nothing is overdue.
func AgingBuckets(accounts []AccountRecord, now time.Time) []AgingBucket {
	buckets := []AgingBucket{
		{Label: "1-30", MinDays: 1, MaxDays: 30},
		{Label: "31-60", MinDays: 31, MaxDays: 60},
		{Label: "61-90", MinDays: 61, MaxDays: 90},
		{Label: "90+", MinDays: 91},
	}

	total := decimal.Zero
	for _, a := range accounts {
		if a.StatusAt(now).Status != StatusOverdue {
			continue
		}
		days := a.DaysOverdueAt(now)
		for i := range buckets {
			b := &buckets[i]
			if days < b.MinDays {
				continue
			}
			if b.MaxDays > 0 && days > b.MaxDays {
				continue
			}
			b.Count++
			b.Amount = b.Amount.Add(a.TotalOwed)
			total = total.Add(a.TotalOwed)
			break
		}
	}

	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range buckets {
			buckets[i].Percent = buckets[i].Amount.Div(total).Mul(hundred).Round(2)
		}
	}
	return buckets
}

// StatusGroup is one partition of a grouped report.
type StatusGroup struct {
	Status   AccountStatus   `json:"status"`
	Accounts []AccountRecord `json:"accounts"`
}

// GroupByStatus partitions accounts into the fixed order overdue, current,
// paid. Relative order within each group is preserved, so grouping a
// sorted list keeps it sorted. Flattening the groups reproduces the input
// set exactly.
func GroupByStatus(accounts []AccountRecord, now time.Time) []StatusGroup {
	groups := []StatusGroup{
		{Status: StatusOverdue},
		{Status: StatusCurrent},
		{Status: StatusPaid},
	}
	for _, a := range accounts {
		i := statusRank(a.StatusAt(now).Status)
		groups[i].Accounts = append(groups[i].Accounts, a)
	}
	return groups
}

// FilterPayments keeps payments inside the optional window and returns
// them sorted by payment date, newest first.
func FilterPayments(payments []PaymentRecord, r *DateRange) []PaymentRecord {
	out := make([]PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if r != nil && !r.Contains(p.PaymentDate) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	return out
}

// FilterCalls keeps call logs inside the optional window and returns them
// sorted by call date, newest first.
func FilterCalls(calls []CallRecord, r *DateRange) []CallRecord {
	out := make([]CallRecord, 0, len(calls))
	for _, cl := range calls {
		if r != nil && !r.Contains(cl.CallDate) {
			continue
		}
		out = append(out, cl)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CallDate.After(out[j].CallDate)
	})
	return out
}

package billing

import "time"

// ReportOptions selects what a generated report contains. The same
// options apply to single-account and bulk reports; bulk generation does
// not silently drop per-account content flags.
type ReportOptions struct {
	Criteria      ReportFilterCriteria
	SortField     SortField
	SortDirection SortDirection

	GroupByStatus   bool
	IncludeAging    bool
	IncludeContacts bool
	IncludeDetail   bool
}

// ContactRow is one line of the optional contact list.
type ContactRow struct {
	PatientName string `json:"patient_name"`
	MRN         string `json:"mrn"`
	Phone       string `json:"phone"`
}

// AccountRow is one account in the detailed report table, with its status
// fields resolved as of report time and its history windowed.
type AccountRow struct {
	Account          AccountRecord `json:"account"`
	Status           AccountStatus `json:"status"`
	EffectiveDueDate *time.Time    `json:"effective_due_date,omitempty"`
	DaysOverdue      int           `json:"days_overdue"`
}

// Report is the renderer-ready model: plain values and pre-grouped
// collections. Formatting (currency strings, page layout) belongs to the
// consumer.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     Summary       `json:"summary"`
	Aging       []AgingBucket `json:"aging,omitempty"`
	Contacts    []ContactRow  `json:"contacts,omitempty"`
	Groups      []StatusGroup `json:"groups,omitempty"`
	Rows        []AccountRow  `json:"rows,omitempty"`
}

// BuildReport filters, sorts, and summarizes accounts into a report model.
// It validates the criteria first and returns the validation error
// unchanged when they are inconsistent. "No accounts matched" is a valid
// report with a zero summary.
func BuildReport(accounts []AccountRecord, opts ReportOptions, now time.Time) (*Report, error) {
	if err := opts.Criteria.Validate(); err != nil {
		return nil, err
	}

	filtered := FilterAccounts(accounts, opts.Criteria, now)

	field := opts.SortField
	if field == "" {
		field = SortByName
	}
	dir := opts.SortDirection
	if dir == "" {
		dir = SortAsc
	}
	SortAccounts(filtered, field, dir, now)

	rep := &Report{
		GeneratedAt: now,
		Summary:     Summarize(filtered, opts.Criteria.PaymentDateRange),
	}

	if opts.IncludeAging {
		rep.Aging = AgingBuckets(filtered, now)
	}
	if opts.IncludeContacts {
		rep.Contacts = make([]ContactRow, 0, len(filtered))
		for _, a := range filtered {
			rep.Contacts = append(rep.Contacts, ContactRow{
				PatientName: a.PatientName,
				MRN:         a.MRN,
				Phone:       a.Phone,
			})
		}
	}
	if opts.GroupByStatus {
		rep.Groups = GroupByStatus(filtered, now)
	}
	if opts.IncludeDetail {
		rep.Rows = make([]AccountRow, 0, len(filtered))
		for _, a := range filtered {
			a.Payments = FilterPayments(a.Payments, opts.Criteria.PaymentDateRange)
			a.Calls = FilterCalls(a.Calls, opts.Criteria.CallDateRange)
			res := a.StatusAt(now)
			rep.Rows = append(rep.Rows, AccountRow{
				Account:          a,
				Status:           res.Status,
				EffectiveDueDate: res.EffectiveDueDate,
				DaysOverdue:      a.DaysOverdueAt(now),
			})
		}
	}
	return rep, nil
}

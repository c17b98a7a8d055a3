package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

// overdueAccount builds an account whose explicit due date lies the given
// number of days in the past.
func overdueAccount(id uint, name string, owed int64, daysOverdue int) AccountRecord {
	return AccountRecord{
		ID:          id,
		PatientName: name,
		MRN:         name,
		TotalOwed:   dec(owed),
		DueDate:     datePtr(day(-daysOverdue)),
		CreatedAt:   day(-200),
	}
}

func currentAccount(id uint, name string, owed int64) AccountRecord {
	return AccountRecord{
		ID:          id,
		PatientName: name,
		MRN:         name,
		TotalOwed:   dec(owed),
		DueDate:     datePtr(day(14)),
		CreatedAt:   day(-200),
	}
}

func paidAccount(id uint, name string) AccountRecord {
	return AccountRecord{
		ID:          id,
		PatientName: name,
		MRN:         name,
		TotalOwed:   decimal.Zero,
		CreatedAt:   day(-200),
	}
}

func TestFilterAccountsBuckets(t *testing.T) {
	accounts := []AccountRecord{
		overdueAccount(1, "one", 100, 10),
		currentAccount(2, "two", 50),
		paidAccount(3, "three"),
	}

	t.Run("default drops zero balances and paid", func(t *testing.T) {
		got := FilterAccounts(accounts, ReportFilterCriteria{}, testNow)
		require.Len(t, got, 2)
	})

	t.Run("overdue bucket", func(t *testing.T) {
		got := FilterAccounts(accounts, ReportFilterCriteria{Bucket: BucketOverdue}, testNow)
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})

	t.Run("current bucket", func(t *testing.T) {
		got := FilterAccounts(accounts, ReportFilterCriteria{Bucket: BucketCurrent}, testNow)
		require.Len(t, got, 1)
		assert.Equal(t, uint(2), got[0].ID)
	})

	t.Run("paid accounts included only on request", func(t *testing.T) {
		got := FilterAccounts(accounts, ReportFilterCriteria{
			IncludeZeroBalance: true,
			IncludePaid:        true,
		}, testNow)
		require.Len(t, got, 3)
	})
}

func TestFilterAccountsBalanceRange(t *testing.T) {
	accounts := []AccountRecord{
		currentAccount(1, "low", 20),
		currentAccount(2, "mid", 150),
		currentAccount(3, "high", 900),
	}
	got := FilterAccounts(accounts, ReportFilterCriteria{
		MinBalance: decPtr(100),
		MaxBalance: decPtr(500),
	}, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, "mid", got[0].PatientName)
}

// Scenario: overdue bucket with a minimum days-overdue cutoff keeps only
// the accounts at least that far past due.
func TestFilterAccountsDaysOverdueRange(t *testing.T) {
	accounts := []AccountRecord{
		overdueAccount(1, "a", 10, 10),
		overdueAccount(2, "b", 10, 35),
		overdueAccount(3, "c", 10, 95),
	}
	got := FilterAccounts(accounts, ReportFilterCriteria{
		Bucket:         BucketOverdue,
		MinDaysOverdue: intPtr(31),
	}, testNow)
	require.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
}

func TestSortAccountsByAmountReverses(t *testing.T) {
	accounts := []AccountRecord{
		currentAccount(1, "a", 300),
		currentAccount(2, "b", 100),
		currentAccount(3, "c", 200),
	}
	asc := append([]AccountRecord(nil), accounts...)
	SortAccounts(asc, SortByAmount, SortAsc, testNow)
	desc := append([]AccountRecord(nil), accounts...)
	SortAccounts(desc, SortByAmount, SortDesc, testNow)

	require.Len(t, asc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
	assert.Equal(t, uint(2), asc[0].ID)
	assert.Equal(t, uint(1), asc[2].ID)
}

// Locale-aware ordering: "alpha" must come before "Beta", not after it as
// a raw code-point comparison would place it.
func TestSortAccountsByNameCaseFolding(t *testing.T) {
	accounts := []AccountRecord{
		currentAccount(1, "Beta", 10),
		currentAccount(2, "alpha", 10),
	}
	SortAccounts(accounts, SortByName, SortAsc, testNow)
	assert.Equal(t, "alpha", accounts[0].PatientName)
	assert.Equal(t, "Beta", accounts[1].PatientName)
}

func TestSortAccountsByStatusOrder(t *testing.T) {
	accounts := []AccountRecord{
		paidAccount(1, "p"),
		currentAccount(2, "c", 10),
		overdueAccount(3, "o", 10, 5),
	}
	SortAccounts(accounts, SortByStatus, SortAsc, testNow)
	assert.Equal(t, uint(3), accounts[0].ID)
	assert.Equal(t, uint(2), accounts[1].ID)
	assert.Equal(t, uint(1), accounts[2].ID)
}

func TestSortAccountsByDueDatePaidLast(t *testing.T) {
	accounts := []AccountRecord{
		paidAccount(1, "p"),
		currentAccount(2, "later", 10),
		overdueAccount(3, "earlier", 10, 20),
	}
	SortAccounts(accounts, SortByDueDate, SortAsc, testNow)
	assert.Equal(t, uint(3), accounts[0].ID)
	assert.Equal(t, uint(2), accounts[1].ID)
	assert.Equal(t, uint(1), accounts[2].ID)
}

func TestSummarize(t *testing.T) {
	accounts := []AccountRecord{
		{
			ID: 1, PatientName: "a", TotalOwed: dec(100), CreatedAt: day(-10),
			Payments: []PaymentRecord{
				{Amount: dec(40), PaymentDate: day(-5)},
				{Amount: dec(60), PaymentDate: day(-90)},
			},
		},
		{ID: 2, PatientName: "b", TotalOwed: dec(50), CreatedAt: day(-10)},
	}

	t.Run("all payments counted without a window", func(t *testing.T) {
		s := Summarize(accounts, nil)
		assert.Equal(t, 2, s.Count)
		assert.True(t, s.TotalOwed.Equal(dec(150)))
		assert.True(t, s.TotalPayments.Equal(dec(100)))
		assert.True(t, s.AverageBalance.Equal(dec(75)))
	})

	t.Run("payment window narrows the total", func(t *testing.T) {
		s := Summarize(accounts, &DateRange{Start: day(-30), End: day(0)})
		assert.True(t, s.TotalPayments.Equal(dec(40)))
	})

	t.Run("empty set yields zero average", func(t *testing.T) {
		s := Summarize(nil, nil)
		assert.Equal(t, 0, s.Count)
		assert.True(t, s.AverageBalance.IsZero())
	})
}

func TestAgingBuckets(t *testing.T) {
	accounts := []AccountRecord{
		overdueAccount(1, "a", 100, 15),
		overdueAccount(2, "b", 200, 45),
		overdueAccount(3, "c", 300, 75),
		overdueAccount(4, "d", 400, 120),
		currentAccount(5, "e", 999),
		paidAccount(6, "f"),
	}
	buckets := AgingBuckets(accounts, testNow)
	require.Len(t, buckets, 4)

	totalCount := 0
	totalAmount := decimal.Zero
	for _, b := range buckets {
		totalCount += b.Count
		totalAmount = totalAmount.Add(b.Amount)
		assert.Equal(t, 1, b.Count, b.Label)
	}
	// Buckets partition the overdue accounts exactly.
	assert.Equal(t, 4, totalCount)
	assert.True(t, totalAmount.Equal(dec(1000)))

	assert.True(t, buckets[0].Percent.Equal(dec(10)))
	assert.True(t, buckets[1].Percent.Equal(dec(20)))
	assert.True(t, buckets[2].Percent.Equal(dec(30)))
	assert.True(t, buckets[3].Percent.Equal(dec(40)))
}

func TestAgingBucketsEmptyNoDivideByZero(t *testing.T) {
	buckets := AgingBuckets([]AccountRecord{currentAccount(1, "a", 10)}, testNow)
	for _, b := range buckets {
		assert.Equal(t, 0, b.Count)
		assert.True(t, b.Amount.IsZero())
		assert.True(t, b.Percent.IsZero())
	}
}

func TestGroupByStatusIsLosslessPartition(t *testing.T) {
	accounts := []AccountRecord{
		currentAccount(1, "c1", 10),
		overdueAccount(2, "o1", 10, 5),
		paidAccount(3, "p1"),
		overdueAccount(4, "o2", 10, 50),
		currentAccount(5, "c2", 10),
	}
	groups := GroupByStatus(accounts, testNow)
	require.Len(t, groups, 3)
	assert.Equal(t, StatusOverdue, groups[0].Status)
	assert.Equal(t, StatusCurrent, groups[1].Status)
	assert.Equal(t, StatusPaid, groups[2].Status)

	seen := map[uint]bool{}
	total := 0
	for _, g := range groups {
		for _, a := range g.Accounts {
			seen[a.ID] = true
			total++
		}
	}
	assert.Equal(t, len(accounts), total)
	for _, a := range accounts {
		assert.True(t, seen[a.ID])
	}
}

func TestFilterHistoryWindowsInclusive(t *testing.T) {
	payments := []PaymentRecord{
		{ID: 1, Amount: dec(10), PaymentDate: day(-10)},
		{ID: 2, Amount: dec(20), PaymentDate: day(-5)},
		{ID: 3, Amount: dec(30), PaymentDate: day(0)},
	}
	got := FilterPayments(payments, &DateRange{Start: day(-5), End: day(0)})
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, uint(3), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)

	calls := []CallRecord{
		{ID: 1, CallDate: day(-3)},
		{ID: 2, CallDate: day(-1)},
		{ID: 3, CallDate: day(-30)},
	}
	gotCalls := FilterCalls(calls, &DateRange{Start: day(-7), End: day(0)})
	require.Len(t, gotCalls, 2)
	assert.Equal(t, uint(2), gotCalls[0].ID)
	assert.Equal(t, uint(1), gotCalls[1].ID)
}

func TestCriteriaValidation(t *testing.T) {
	t.Run("inverted balance range", func(t *testing.T) {
		c := ReportFilterCriteria{MinBalance: decPtr(500), MaxBalance: decPtr(100)}
		assert.Error(t, c.Validate())
	})
	t.Run("inverted days overdue range", func(t *testing.T) {
		c := ReportFilterCriteria{MinDaysOverdue: intPtr(60), MaxDaysOverdue: intPtr(30)}
		assert.Error(t, c.Validate())
	})
	t.Run("inverted date range", func(t *testing.T) {
		c := ReportFilterCriteria{PaymentDateRange: &DateRange{Start: day(0), End: day(-1)}}
		assert.Error(t, c.Validate())
	})
	t.Run("unknown bucket", func(t *testing.T) {
		c := ReportFilterCriteria{Bucket: "late"}
		assert.Error(t, c.Validate())
	})
	t.Run("zero value is valid", func(t *testing.T) {
		assert.NoError(t, ReportFilterCriteria{}.Validate())
	})
}

// Account with no explicit due date, last payment 45 days ago: the
// effective due date lands 15 days in the past, bucket 1-30.
func TestReportScenarioFallbackDueDate(t *testing.T) {
	acc := AccountRecord{
		ID:              1,
		PatientName:     "Scenario A",
		TotalOwed:       dec(100),
		LastPaymentDate: datePtr(day(-45)),
		CreatedAt:       day(-100),
	}
	res := acc.StatusAt(testNow)
	assert.Equal(t, StatusOverdue, res.Status)
	require.NotNil(t, res.EffectiveDueDate)
	assert.Equal(t, day(-15), *res.EffectiveDueDate)
	assert.Equal(t, 15, acc.DaysOverdueAt(testNow))

	buckets := AgingBuckets([]AccountRecord{acc}, testNow)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 0, buckets[1].Count)
}

func TestBuildReportFull(t *testing.T) {
	accounts := []AccountRecord{
		overdueAccount(1, "Beta", 200, 40),
		overdueAccount(2, "alpha", 100, 10),
		currentAccount(3, "gamma", 50),
		paidAccount(4, "delta"),
	}

	rep, err := BuildReport(accounts, ReportOptions{
		Criteria:        ReportFilterCriteria{Bucket: BucketAll},
		SortField:       SortByName,
		SortDirection:   SortAsc,
		GroupByStatus:   true,
		IncludeAging:    true,
		IncludeContacts: true,
		IncludeDetail:   true,
	}, testNow)
	require.NoError(t, err)

	// Paid account is excluded by default; the rest are sorted by name.
	assert.Equal(t, 3, rep.Summary.Count)
	require.Len(t, rep.Contacts, 3)
	assert.Equal(t, "alpha", rep.Contacts[0].PatientName)
	assert.Equal(t, "Beta", rep.Contacts[1].PatientName)
	assert.Equal(t, "gamma", rep.Contacts[2].PatientName)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, StatusOverdue, rep.Rows[0].Status)
	assert.Equal(t, 10, rep.Rows[0].DaysOverdue)

	require.Len(t, rep.Groups, 3)
	assert.Len(t, rep.Groups[0].Accounts, 2)
	assert.Len(t, rep.Groups[1].Accounts, 1)
	assert.Len(t, rep.Groups[2].Accounts, 0)
	// Within the overdue group the name sort is preserved.
	assert.Equal(t, "alpha", rep.Groups[0].Accounts[0].PatientName)
}

func TestBuildReportRejectsBadCriteria(t *testing.T) {
	_, err := BuildReport(nil, ReportOptions{
		Criteria: ReportFilterCriteria{MinBalance: decPtr(10), MaxBalance: decPtr(1)},
	}, testNow)
	assert.Error(t, err)
}

func TestBuildReportEmptyMatchIsNotAnError(t *testing.T) {
	rep, err := BuildReport([]AccountRecord{paidAccount(1, "p")}, ReportOptions{
		Criteria:      ReportFilterCriteria{Bucket: BucketOverdue},
		IncludeDetail: true,
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Summary.Count)
	assert.True(t, rep.Summary.AverageBalance.IsZero())
	assert.Empty(t, rep.Rows)
}

func TestBuildReportWindowsHistory(t *testing.T) {
	acc := currentAccount(1, "a", 100)
	acc.Payments = []PaymentRecord{
		{ID: 1, Amount: dec(10), PaymentDate: day(-40)},
		{ID: 2, Amount: dec(20), PaymentDate: day(-2)},
	}
	acc.Calls = []CallRecord{
		{ID: 1, CallDate: day(-50)},
		{ID: 2, CallDate: day(-1)},
	}
	rep, err := BuildReport([]AccountRecord{acc}, ReportOptions{
		Criteria: ReportFilterCriteria{
			PaymentDateRange: &DateRange{Start: day(-7), End: day(0)},
			CallDateRange:    &DateRange{Start: day(-7), End: day(0)},
		},
		IncludeDetail: true,
	}, testNow)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Len(t, rep.Rows[0].Account.Payments, 1)
	assert.Len(t, rep.Rows[0].Account.Calls, 1)
	assert.True(t, rep.Summary.TotalPayments.Equal(dec(20)))
}
